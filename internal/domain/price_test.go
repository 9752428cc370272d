package domain

import (
	"errors"
	"testing"
)

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"29.99 EGP", 29.99},
		{"EGP 34.99", 34.99},
		{"24.99EGP", 24.99},
		{"  39.99 EGP  ", 39.99},
		{"0.00 EGP", 0},
	}
	for _, c := range cases {
		got, err := ParsePrice(c.in)
		if err != nil {
			t.Fatalf("ParsePrice(%q): %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParsePrice(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParsePriceMalformed(t *testing.T) {
	for _, in := range []string{"", "EGP", "abc EGP", "29.99 USD"} {
		if _, err := ParsePrice(in); !errors.Is(err, ErrBadPrice) {
			t.Fatalf("ParsePrice(%q): want ErrBadPrice, got %v", in, err)
		}
	}
}

func TestFormatPrice(t *testing.T) {
	if got := FormatPrice(59.98); got != "59.98 EGP" {
		t.Fatalf("got %q", got)
	}
	if got := FormatPrice(0); got != "0.00 EGP" {
		t.Fatalf("got %q", got)
	}
}

func TestStockKey(t *testing.T) {
	if got := StockKey("3", "L"); got != "3-L" {
		t.Fatalf("got %q", got)
	}
}
