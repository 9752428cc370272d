package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrBadPrice marks a display price that no longer parses; a format
// drift must abort the interaction instead of corrupting totals.
var ErrBadPrice = errors.New("malformed price")

// Currency is the display currency of every price string the storefront
// handles.
const Currency = "EGP"

// StockKey derives the composite out-of-stock set member for a
// product/size pair.
func StockKey(productID, size string) string {
	return productID + "-" + size
}

// ParsePrice strips the currency suffix or prefix from a display price
// and parses the remaining numeral. A string that doesn't parse is an
// error; callers abort the interaction rather than guess.
func ParsePrice(s string) (float64, error) {
	raw := strings.TrimSpace(s)
	raw = strings.TrimSuffix(raw, Currency)
	raw = strings.TrimPrefix(raw, Currency)
	raw = strings.TrimSpace(raw)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrBadPrice, s)
	}
	return v, nil
}

// FormatPrice renders an amount back into the display format.
func FormatPrice(v float64) string {
	return fmt.Sprintf("%.2f %s", v, Currency)
}
