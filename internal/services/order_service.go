package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Mohamedtamer-1/Icaro/internal/domain"
	applog "github.com/Mohamedtamer-1/Icaro/internal/log"
	"github.com/Mohamedtamer-1/Icaro/internal/notify"
	"github.com/Mohamedtamer-1/Icaro/internal/repos"
)

var ErrEmptyCart = errors.New("cart is empty")

// OrderService assembles the checkout payload and hands it to the
// notification endpoint. Acceptance clears the cart; rejection leaves
// cart and form untouched so the shopper can retry.
type OrderService struct {
	Carts  *CartService
	Orders *repos.OrderRepo
	Notify notify.Sender
}

func NewOrderService(carts *CartService, orders *repos.OrderRepo, sender notify.Sender) *OrderService {
	return &OrderService{Carts: carts, Orders: orders, Notify: sender}
}

// Place submits the order. The returned string is the order number
// ("ICARU-<ms>"); an error from the notifier carries the provider's
// rejection text.
func (s *OrderService) Place(ctx context.Context, sessionID string, form domain.CheckoutForm) (string, error) {
	items, err := s.Carts.Items(sessionID)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", ErrEmptyCart
	}

	totals, err := s.Carts.Totals(items, form.Governorate)
	if err != nil {
		return "", err
	}

	orderNumber := fmt.Sprintf("ICARU-%d", time.Now().UnixMilli())
	customer := strings.TrimSpace(form.FirstName + " " + form.LastName)

	params := map[string]string{
		"order_number":   orderNumber,
		"customer_name":  customer,
		"customer_email": form.Email,
		"phone":          form.Phone,
		"address":        form.Address,
		"governorate":    form.Governorate,
		"payment_method": form.PaymentMethod,
		"order_items":    itemizeLines(items),
		"subtotal":       domain.FormatPrice(totals.Subtotal),
		"shipping":       domain.FormatPrice(totals.Shipping),
		"total_amount":   domain.FormatPrice(totals.Total),
	}

	if err := s.Notify.Send(ctx, params); err != nil {
		return "", err
	}

	// The order is accepted the moment the notification goes through;
	// archiving is bookkeeping and must not fail the checkout.
	unitPrices := make([]float64, len(items))
	for i, it := range items {
		unitPrices[i], _ = domain.ParsePrice(it.Price)
	}
	if err := s.Orders.Create(domain.Order{
		ID:            orderNumber,
		SessionID:     sessionID,
		CustomerName:  customer,
		CustomerEmail: form.Email,
		Phone:         form.Phone,
		Address:       form.Address,
		Governorate:   form.Governorate,
		PaymentMethod: form.PaymentMethod,
		Subtotal:      totals.Subtotal,
		Shipping:      totals.Shipping,
		Total:         totals.Total,
	}, items, unitPrices); err != nil {
		applog.Fail("order.archive", err, map[string]any{"order": orderNumber})
	}

	if err := s.Carts.Clear(sessionID); err != nil {
		applog.Fail("order.cart.clear", err, map[string]any{"order": orderNumber})
	}
	return orderNumber, nil
}

// itemizeLines renders the cart as the plain-text block the email
// template expects.
func itemizeLines(items []domain.CartLineItem) string {
	var b strings.Builder
	for _, it := range items {
		line := fmt.Sprintf("- %s (Size: %s) x%d", it.Name, it.Size, it.Quantity)
		if unit, err := domain.ParsePrice(it.Price); err == nil {
			line += " - " + domain.FormatPrice(unit*float64(it.Quantity))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
