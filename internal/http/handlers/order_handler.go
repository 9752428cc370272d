package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Mohamedtamer-1/Icaro/internal/domain"
	applog "github.com/Mohamedtamer-1/Icaro/internal/log"
	"github.com/Mohamedtamer-1/Icaro/internal/services"
	"github.com/Mohamedtamer-1/Icaro/internal/validate"
)

type OrderHandler struct {
	Order *services.OrderService
}

// Place validates the checkout form, submits the order through the
// notification endpoint, and reports either the order number or the
// provider's rejection text. Validation failures never mutate state.
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	sid := ensureSID(c)

	var form domain.CheckoutForm
	if err := c.BodyParser(&form); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad request body"})
	}

	fieldErrs := validate.Checkout(form)
	items, err := h.Order.Carts.Items(sid)
	if err != nil {
		applog.Error(c, "order.cart.read", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load cart"})
	}
	if len(items) == 0 {
		fieldErrs = append(fieldErrs, domain.FieldError{Field: "cart", Message: "Your cart is empty"})
	}
	if len(fieldErrs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": fieldErrs})
	}

	orderNumber, err := h.Order.Place(c.Context(), sid, form)
	switch {
	case errors.Is(err, services.ErrEmptyCart):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": []domain.FieldError{{Field: "cart", Message: "Your cart is empty"}},
		})
	case errors.Is(err, domain.ErrBadPrice):
		applog.Error(c, "order.place", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not compute order total"})
	case err != nil:
		// Provider rejection: surfaced verbatim, cart and form untouched.
		applog.Error(c, "order.notify", err, nil)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
	}

	applog.Audit(c, "order.place", map[string]any{"order": orderNumber})
	return c.JSON(fiber.Map{"orderNumber": orderNumber})
}
