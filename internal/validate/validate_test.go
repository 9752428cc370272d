package validate

import (
	"testing"

	"github.com/Mohamedtamer-1/Icaro/internal/domain"
)

func validForm() domain.CheckoutForm {
	return domain.CheckoutForm{
		FirstName:     "Mona",
		LastName:      "Hassan",
		Email:         "mona@example.com",
		Phone:         "01012345678",
		Address:       "12 Tahrir St",
		Governorate:   "cairo",
		PaymentMethod: "Cash on Delivery",
		AgreeTerms:    true,
		AgreePolicy:   true,
	}
}

func hasField(errs []domain.FieldError, field string) bool {
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

func TestCheckoutValid(t *testing.T) {
	if errs := Checkout(validForm()); len(errs) != 0 {
		t.Fatalf("want no errors, got %+v", errs)
	}
}

func TestCheckoutPhonePrefix(t *testing.T) {
	f := validForm()
	f.Phone = "0212345678" // landline prefix, not 01
	errs := Checkout(f)
	if !hasField(errs, "phone") {
		t.Fatalf("want phone error, got %+v", errs)
	}

	f.Phone = "010 1234 5678" // spaces are tolerated
	if errs := Checkout(f); hasField(errs, "phone") {
		t.Fatalf("spaced phone should pass, got %+v", errs)
	}

	f.Phone = "01o12345678"
	if errs := Checkout(f); !hasField(errs, "phone") {
		t.Fatalf("non-digit phone should fail, got %+v", errs)
	}
}

func TestCheckoutAgreements(t *testing.T) {
	f := validForm()
	f.AgreeTerms = false
	if errs := Checkout(f); !hasField(errs, "agreeTerms") {
		t.Fatalf("want agreeTerms error, got %+v", errs)
	}
	f = validForm()
	f.AgreePolicy = false
	if errs := Checkout(f); !hasField(errs, "agreePolicy") {
		t.Fatalf("want agreePolicy error, got %+v", errs)
	}
}

func TestCheckoutRequiredFields(t *testing.T) {
	f := validForm()
	f.FirstName = ""
	f.Email = "not-an-email"
	errs := Checkout(f)
	if !hasField(errs, "firstName") || !hasField(errs, "email") {
		t.Fatalf("want firstName and email errors, got %+v", errs)
	}
}

func TestID(t *testing.T) {
	if _, ok := ID("gbc-001"); !ok {
		t.Fatal("plain id should pass")
	}
	if _, ok := ID("  3 "); !ok {
		t.Fatal("trimmed numeric id should pass")
	}
	if _, ok := ID("<script>"); ok {
		t.Fatal("markup should fail")
	}
	if _, ok := ID(""); ok {
		t.Fatal("empty should fail")
	}
}

func TestSize(t *testing.T) {
	if s, ok := Size("xl"); !ok || s != "XL" {
		t.Fatalf("got %q %v", s, ok)
	}
	if _, ok := Size("XXXXXL"); ok {
		t.Fatal("overlong size should fail")
	}
}

func TestQtyClamp(t *testing.T) {
	if Qty("3") != 3 || Qty("0") != 1 || Qty("junk") != 1 || Qty("999") != 50 {
		t.Fatal("clamping broken")
	}
}
