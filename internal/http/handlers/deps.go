package handlers

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/Mohamedtamer-1/Icaro/internal/bus"
	"github.com/Mohamedtamer-1/Icaro/internal/config"
	"github.com/Mohamedtamer-1/Icaro/internal/notify"
	"github.com/Mohamedtamer-1/Icaro/internal/remote"
	"github.com/Mohamedtamer-1/Icaro/internal/repos"
	"github.com/Mohamedtamer-1/Icaro/internal/services"
)

type Deps struct {
	CatalogHandler *CatalogHandler
	CartHandler    *CartHandler
	AdminHandler   *AdminHandler
	OrderHandler   *OrderHandler

	KV      *repos.KVRepo
	Catalog *services.CatalogService
	Stock   *services.StockService
	Admin   *services.AdminService
}

func NewDeps(db *sqlx.DB, cfg config.Config, rem *remote.Store, b *bus.Bus, sender notify.Sender) *Deps {
	kv := repos.NewKVRepo(db)
	orderRepo := repos.NewOrderRepo(db)

	stock := services.NewStockService()
	catalog := services.NewCatalogService(kv, rem, cfg.StorefrontPage, cfg.RemoteEmptyIsEmpty)
	admin := services.NewAdminService(cfg.AdminUser, cfg.AdminPassHash, kv, rem, b)
	carts := services.NewCartService(kv, stock, cfg.ShippingFees)
	orders := services.NewOrderService(carts, orderRepo, sender)

	// Every commit broadcast re-projects the shopper-side view.
	b.Subscribe(stock.Update)

	return &Deps{
		CatalogHandler: &CatalogHandler{Stock: stock},
		CartHandler:    &CartHandler{Cart: carts},
		AdminHandler:   &AdminHandler{Admin: admin, KV: kv, Orders: orderRepo},
		OrderHandler:   &OrderHandler{Order: orders},

		KV:      kv,
		Catalog: catalog,
		Stock:   stock,
		Admin:   admin,
	}
}

// Bootstrap resolves the initial snapshot and installs it on both the
// shopper projection and the admin working state.
func (d *Deps) Bootstrap(ctx context.Context) {
	snap := d.Catalog.Load(ctx)
	d.Stock.Update(snap)
	d.Admin.Seed(snap)
}
