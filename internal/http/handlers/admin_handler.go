package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	applog "github.com/Mohamedtamer-1/Icaro/internal/log"
	"github.com/Mohamedtamer-1/Icaro/internal/repos"
	"github.com/Mohamedtamer-1/Icaro/internal/services"
	"github.com/Mohamedtamer-1/Icaro/internal/validate"
)

type AdminHandler struct {
	Admin  *services.AdminService
	KV     *repos.KVRepo
	Orders *repos.OrderRepo
}

type loginReq struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// POST /admin/login
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req loginReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad request body"})
	}
	if !h.Admin.Authenticate(req.Username, req.Password) {
		applog.Security(c, "admin.login.fail", map[string]any{"username": req.Username})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid username or password"})
	}

	sid := uuid.NewString()
	// The login flag persists with no expiry; the cookie just names the
	// session that set it.
	if err := h.KV.Put(repos.KeyAdminLogin, "true"); err != nil {
		applog.Error(c, "admin.login.persist", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not start session"})
	}
	if err := h.KV.Put(repos.KeyAdminSession, sid); err != nil {
		applog.Error(c, "admin.login.persist", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not start session"})
	}
	c.Cookie(&fiber.Cookie{Name: "admin_sid", Value: sid, Path: "/", HTTPOnly: true})
	applog.Audit(c, "admin.login", nil)
	return c.JSON(fiber.Map{"ok": true})
}

// POST /admin/logout
func (h *AdminHandler) Logout(c *fiber.Ctx) error {
	_ = h.KV.Delete(repos.KeyAdminLogin)
	_ = h.KV.Delete(repos.KeyAdminSession)
	c.Cookie(&fiber.Cookie{Name: "admin_sid", Value: "", Path: "/", HTTPOnly: true, Expires: time.Unix(0, 0)})
	applog.Audit(c, "admin.logout", nil)
	return c.JSON(fiber.Map{"ok": true})
}

// GET /admin/changes
func (h *AdminHandler) Changes(c *fiber.Ctx) error {
	pending := h.Admin.Pending()
	return c.JSON(fiber.Map{"pending": pending, "count": len(pending)})
}

// POST /admin/products/:id/delete
func (h *AdminHandler) StageDelete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing product id"})
	}
	if err := h.Admin.StageDelete(id); err != nil {
		if errors.Is(err, services.ErrUnknownProduct) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
		}
		applog.Error(c, "admin.stage.delete", err, map[string]any{"product": id})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not stage change"})
	}
	applog.Audit(c, "admin.stage.delete", map[string]any{"product": id})
	return c.JSON(fiber.Map{"count": len(h.Admin.Pending())})
}

type stockReq struct {
	ProductID string `json:"productId" form:"productId"`
	Size      string `json:"size" form:"size"`
}

// POST /admin/stock
func (h *AdminHandler) StageStock(c *fiber.Ctx) error {
	var req stockReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "bad request body"})
	}
	id, ok := validate.ID(req.ProductID)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing productId"})
	}
	size, ok := validate.Size(req.Size)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "enter a valid size"})
	}
	if err := h.Admin.StageStockToggle(id, size); err != nil {
		if errors.Is(err, services.ErrUnknownProduct) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "product not found"})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	applog.Audit(c, "admin.stage.stock", map[string]any{"product": id, "size": size})
	return c.JSON(fiber.Map{"count": len(h.Admin.Pending())})
}

// POST /admin/commit
func (h *AdminHandler) Commit(c *fiber.Ctx) error {
	staged := len(h.Admin.Pending())
	snap, err := h.Admin.Commit(c.Context())
	if err != nil {
		applog.Error(c, "admin.commit", err, map[string]any{"changes": staged})
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not save changes"})
	}
	applog.Audit(c, "admin.commit", map[string]any{"changes": staged, "products": len(snap.Products)})
	return c.JSON(snap)
}

// GET /admin/snapshot
func (h *AdminHandler) Snapshot(c *fiber.Ctx) error {
	return c.JSON(h.Admin.Snapshot())
}

// GET /admin/orders
func (h *AdminHandler) OrdersPage(c *fiber.Ctx) error {
	ords, err := h.Orders.ListLatest(100)
	if err != nil {
		applog.Error(c, "admin.orders.list", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not load orders"})
	}
	return c.JSON(fiber.Map{"orders": ords})
}
