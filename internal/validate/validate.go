package validate

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/Mohamedtamer-1/Icaro/internal/domain"
)

var (
	reID     = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
	reSize   = regexp.MustCompile(`^[A-Z0-9]{1,4}$`)
	reDigits = regexp.MustCompile(`^[0-9]+$`)

	v = newValidator()
)

func newValidator() *validator.Validate {
	val := validator.New()
	// Report json field names, not Go names.
	val.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// Egyptian mobile numbers start with 01 and are all digits.
	_ = val.RegisterValidation("egmobile", func(fl validator.FieldLevel) bool {
		s := strings.ReplaceAll(fl.Field().String(), " ", "")
		return strings.HasPrefix(s, "01") && reDigits.MatchString(s)
	})
	return val
}

var checkoutMessages = map[string]string{
	"firstName":     "First name is required",
	"lastName":      "Last name is required",
	"email":         "Please enter a valid email address",
	"phone":         "Phone number must start with 01",
	"address":       "Delivery address is required",
	"governorate":   "Please choose a governorate",
	"paymentMethod": "Please select a payment method",
	"agreeTerms":    "Please agree to the terms and conditions",
	"agreePolicy":   "Please agree to the exchange and delivery fee policy",
}

// Checkout validates the checkout form and returns one structured error
// per failing field. Rendering is the caller's concern.
func Checkout(form domain.CheckoutForm) []domain.FieldError {
	err := v.Struct(form)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []domain.FieldError{{Field: "form", Message: "invalid form"}}
	}
	out := make([]domain.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		msg := checkoutMessages[fe.Field()]
		if msg == "" {
			msg = "This field is required"
		}
		out = append(out, domain.FieldError{Field: fe.Field(), Message: msg})
	}
	return out
}

// ID validates a product identifier.
func ID(s string) (string, bool) {
	s = strings.TrimSpace(s)
	return s, s != "" && reID.MatchString(s)
}

// Size validates a size label (S, M, L, XL, ...).
func Size(s string) (string, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	return s, reSize.MatchString(s)
}

// Qty parses a quantity, clamped to [1,50].
func Qty(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return 1
	}
	if n > 50 {
		return 50
	}
	return n
}
