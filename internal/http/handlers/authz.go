package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	applog "github.com/Mohamedtamer-1/Icaro/internal/log"
	"github.com/Mohamedtamer-1/Icaro/internal/repos"
)

// RequireAdmin gates curation routes on the persisted login flag and the
// issued session cookie. There is a single admin; no roles, no expiry.
func RequireAdmin(kv *repos.KVRepo) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sid := c.Cookies("admin_sid")
		if sid == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "admin login required"})
		}
		flag, _, err := kv.Get(repos.KeyAdminLogin)
		if err != nil {
			applog.Error(c, "authz.admin.read", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not verify session"})
		}
		known, _, err := kv.Get(repos.KeyAdminSession)
		if err != nil {
			applog.Error(c, "authz.admin.read", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not verify session"})
		}
		if flag != "true" || known != sid {
			applog.Security(c, "access.denied.admin", map[string]any{"sid": sid})
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "admin login required"})
		}
		return c.Next()
	}
}

// ensureSID gives every shopper a session cookie; carts are keyed by it.
func ensureSID(c *fiber.Ctx) string {
	sid := c.Cookies("sid")
	if sid == "" {
		sid = uuid.NewString()
		c.Cookie(&fiber.Cookie{Name: "sid", Value: sid, Path: "/", HTTPOnly: true})
	}
	return sid
}
