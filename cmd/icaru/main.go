package main

import (
	"context"
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"

	"github.com/Mohamedtamer-1/Icaro/internal/bus"
	"github.com/Mohamedtamer-1/Icaro/internal/config"
	"github.com/Mohamedtamer-1/Icaro/internal/http/handlers"
	applog "github.com/Mohamedtamer-1/Icaro/internal/log"
	"github.com/Mohamedtamer-1/Icaro/internal/notify"
	"github.com/Mohamedtamer-1/Icaro/internal/remote"
	"github.com/Mohamedtamer-1/Icaro/internal/repos"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			log.SetOutput(io.MultiWriter(os.Stdout, f))
		}
	}

	db, err := repos.OpenDB(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	// The remote store is optional: a failed dial downgrades to
	// local-only persistence, it never blocks startup.
	var rem *remote.Store
	if cfg.MongoURI != "" {
		dialCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		rem, err = remote.Dial(dialCtx, cfg.MongoURI, cfg.MongoDB)
		cancel()
		if err != nil {
			applog.Fail("remote.dial", err, nil)
			rem = nil
		}
	}

	b := bus.New()
	sender := notify.NewEmailClient(cfg.EmailEndpoint, cfg.EmailServiceID, cfg.EmailTemplateID, cfg.EmailPublicKey)
	deps := handlers.NewDeps(db, cfg, rem, b, sender)

	bootCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	deps.Bootstrap(bootCtx)
	cancel()

	// Remote change events replay through the same broadcast path as a
	// local commit.
	if rem != nil && cfg.RemoteWatch {
		go func() {
			err := rem.Watch(context.Background(), func() {
				snap, err := rem.FetchSnapshot(context.Background())
				if err != nil {
					applog.Fail("remote.watch.fetch", err, nil)
					return
				}
				b.Publish(snap)
			})
			if err != nil {
				applog.Fail("remote.watch", err, nil)
			}
		}()
	}

	engine := html.New(cfg.TemplatesDir, ".html")
	app := fiber.New(fiber.Config{
		Views: engine,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Something went wrong. Please try again.",
			})
		},
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{Max: 60, Expiration: time.Minute}))

	// Storefront
	app.Get("/", deps.CatalogHandler.Page)
	api := app.Group("/api/v1")
	api.Get("/products", deps.CatalogHandler.List)
	api.Get("/products/:id/sizes", deps.CatalogHandler.Sizes)
	api.Get("/availability", deps.CatalogHandler.Availability)

	// Cart
	api.Get("/cart", deps.CartHandler.View)
	api.Post("/cart", deps.CartHandler.Add)
	api.Post("/cart/quantity", deps.CartHandler.UpdateQuantity)
	api.Post("/cart/remove", deps.CartHandler.Remove)
	api.Post("/cart/clear", deps.CartHandler.Clear)

	// Checkout
	api.Post("/orders", deps.OrderHandler.Place)

	// Admin (login throttled)
	app.Post("/admin/login", limiter.New(limiter.Config{
		Max:        5,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "Too many attempts. Please try again later."})
		},
	}), deps.AdminHandler.Login)

	admin := app.Group("/admin", handlers.RequireAdmin(deps.KV))
	admin.Post("/logout", deps.AdminHandler.Logout)
	admin.Get("/changes", deps.AdminHandler.Changes)
	admin.Get("/snapshot", deps.AdminHandler.Snapshot)
	admin.Get("/orders", deps.AdminHandler.OrdersPage)
	admin.Post("/products/:id/delete", deps.AdminHandler.StageDelete)
	admin.Post("/stock", deps.AdminHandler.StageStock)
	admin.Post("/commit", deps.AdminHandler.Commit)

	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Page not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
