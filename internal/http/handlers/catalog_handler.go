package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Mohamedtamer-1/Icaro/internal/services"
	"github.com/Mohamedtamer-1/Icaro/internal/validate"
)

type CatalogHandler struct {
	Stock *services.StockService
}

// Page renders the storefront products page. The rendered markup carries
// the same data attributes the scrape fallback reads back.
func (h *CatalogHandler) Page(c *fiber.Ctx) error {
	return c.Render("products", fiber.Map{
		"Products": h.Stock.VisibleProducts(""),
	})
}

// List returns visible products, optionally filtered by category.
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	category := c.Query("category")
	return c.JSON(fiber.Map{"products": h.Stock.VisibleProducts(category)})
}

// Availability reports the per-size stock gate. This is the same check
// the cart add path re-runs at confirm time.
func (h *CatalogHandler) Availability(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.Query("productId"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing productId"})
	}
	size, ok := validate.Size(c.Query("size"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "enter a valid size"})
	}

	p, found := h.Stock.Product(productID)
	if !found || !h.Stock.Visible(productID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
	}
	declared := false
	for _, sz := range p.Sizes {
		if sz == size {
			declared = true
			break
		}
	}
	if !declared {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "no such size for this product"})
	}

	return c.JSON(fiber.Map{
		"productId": productID,
		"size":      size,
		"available": h.Stock.Available(productID, size),
	})
}

// Sizes returns the full size-selector state for one product.
func (h *CatalogHandler) Sizes(c *fiber.Ctx) error {
	productID, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing product id"})
	}
	if !h.Stock.Visible(productID) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
	}
	states := h.Stock.SizeStates(productID)
	if states == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
	}
	return c.JSON(fiber.Map{"productId": productID, "sizes": states})
}
