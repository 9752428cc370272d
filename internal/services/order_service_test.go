package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Mohamedtamer-1/Icaro/internal/domain"
	"github.com/Mohamedtamer-1/Icaro/internal/repos"
	"github.com/Mohamedtamer-1/Icaro/internal/services"
)

type fakeSender struct {
	params map[string]string
	err    error
	calls  int
}

func (f *fakeSender) Send(_ context.Context, params map[string]string) error {
	f.calls++
	f.params = params
	return f.err
}

func checkoutForm() domain.CheckoutForm {
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

func orderFixture(t *testing.T) (*services.OrderService, *services.CartService, *fakeSender, *repos.OrderRepo) {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	kv := repos.NewKVRepo(db)
	stock := services.NewStockService()
	stock.Update(testSnapshot())
	carts := services.NewCartService(kv, stock, map[string]float64{"cairo": 50})
	orders := repos.NewOrderRepo(db)
	sender := &fakeSender{}
	return services.NewOrderService(carts, orders, sender), carts, sender, orders
}

func TestPlaceOrder(t *testing.T) {
	svc, carts, sender, orders := orderFixture(t)
	sid := "shopper-1"
	if _, err := carts.Add(sid, "1", "M", 2); err != nil {
		t.Fatal(err)
	}

	orderNumber, err := svc.Place(context.Background(), sid, checkoutForm())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(orderNumber, "ICARU-") {
		t.Fatalf("bad order number %q", orderNumber)
	}

	// payload carries the itemized cart and the computed total
	if sender.params["customer_name"] != "Mona Hassan" {
		t.Fatalf("customer: %q", sender.params["customer_name"])
	}
	if !strings.Contains(sender.params["order_items"], "Classic Comfort (Size: M) x2") {
		t.Fatalf("items: %q", sender.params["order_items"])
	}
	if sender.params["total_amount"] != "109.98 EGP" { // 2*29.99 + 50 shipping
		t.Fatalf("total: %q", sender.params["total_amount"])
	}

	// acceptance clears the cart and archives the order
	items, _ := carts.Items(sid)
	if len(items) != 0 {
		t.Fatalf("cart not cleared: %+v", items)
	}
	o, lines, err := orders.Get(orderNumber)
	if err != nil {
		t.Fatal(err)
	}
	if o.Total != 109.98 || o.Shipping != 50 || len(lines) != 1 || lines[0].Qty != 2 {
		t.Fatalf("archived order wrong: %+v %+v", o, lines)
	}
}

func TestPlaceOrderRejectionKeepsCart(t *testing.T) {
	svc, carts, sender, _ := orderFixture(t)
	sid := "shopper-2"
	if _, err := carts.Add(sid, "1", "M", 1); err != nil {
		t.Fatal(err)
	}
	sender.err = errors.New("notification rejected: quota exceeded")

	_, err := svc.Place(context.Background(), sid, checkoutForm())
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("provider text not surfaced: %v", err)
	}
	items, _ := carts.Items(sid)
	if len(items) != 1 {
		t.Fatalf("rejection must leave the cart untouched: %+v", items)
	}
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	svc, _, sender, _ := orderFixture(t)
	if _, err := svc.Place(context.Background(), "nobody", checkoutForm()); !errors.Is(err, services.ErrEmptyCart) {
		t.Fatalf("want ErrEmptyCart, got %v", err)
	}
	if sender.calls != 0 {
		t.Fatal("empty cart must not reach the notifier")
	}
}
