package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/Mohamedtamer-1/Icaro/internal/domain"
	applog "github.com/Mohamedtamer-1/Icaro/internal/log"
	"github.com/Mohamedtamer-1/Icaro/internal/services"
	"github.com/Mohamedtamer-1/Icaro/internal/validate"
)

type CartHandler struct {
	Cart *services.CartService
}

func (h *CartHandler) view(c *fiber.Ctx, sid string) error {
	items, err := h.Cart.Items(sid)
	if err != nil {
		applog.Error(c, "cart.view", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load cart"})
	}
	totals, err := h.Cart.Totals(items, c.Query("governorate"))
	if err != nil {
		applog.Error(c, "cart.totals", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not compute totals"})
	}
	if items == nil {
		items = []domain.CartLineItem{}
	}
	return c.JSON(fiber.Map{
		"items":    items,
		"subtotal": domain.FormatPrice(totals.Subtotal),
		"shipping": domain.FormatPrice(totals.Shipping),
		"total":    domain.FormatPrice(totals.Total),
	})
}

func (h *CartHandler) View(c *fiber.Ctx) error {
	return h.view(c, ensureSID(c))
}

type addReq struct {
	ProductID string `json:"productId" form:"productId"`
	Size      string `json:"size" form:"size"`
	Qty       int    `json:"qty" form:"qty"`
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var req addReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad request body"})
	}
	productID, ok := validate.ID(req.ProductID)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing productId"})
	}
	size, ok := validate.Size(req.Size)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "please select a size"})
	}
	if req.Qty < 1 {
		req.Qty = 1
	}

	line, err := h.Cart.Add(sid, productID, size, req.Qty)
	switch {
	case errors.Is(err, services.ErrOutOfStock):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "This size just went out of stock"})
	case errors.Is(err, services.ErrUnknownProduct):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
	case err != nil:
		applog.Error(c, "cart.add", err, map[string]any{"product": productID, "size": size})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not add to cart"})
	}
	applog.Info(c, "cart.add", map[string]any{"product": productID, "size": size, "qty": req.Qty})
	return c.JSON(fiber.Map{"item": line})
}

type lineReq struct {
	Index int `json:"index" form:"index"`
	Delta int `json:"delta" form:"delta"`
}

func (h *CartHandler) UpdateQuantity(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var req lineReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad request body"})
	}
	if err := h.Cart.UpdateQuantity(sid, req.Index, req.Delta); err != nil {
		if errors.Is(err, services.ErrBadIndex) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no such cart line"})
		}
		applog.Error(c, "cart.quantity", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not update cart"})
	}
	return h.view(c, sid)
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	sid := ensureSID(c)
	var req lineReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad request body"})
	}
	if err := h.Cart.Remove(sid, req.Index); err != nil {
		if errors.Is(err, services.ErrBadIndex) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no such cart line"})
		}
		applog.Error(c, "cart.remove", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not update cart"})
	}
	return h.view(c, sid)
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	sid := ensureSID(c)
	if err := h.Cart.Clear(sid); err != nil {
		applog.Error(c, "cart.clear", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not clear cart"})
	}
	return c.JSON(fiber.Map{"ok": true})
}
