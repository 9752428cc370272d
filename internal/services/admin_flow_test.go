package services_test

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/Mohamedtamer-1/Icaro/internal/bus"
	"github.com/Mohamedtamer-1/Icaro/internal/domain"
	"github.com/Mohamedtamer-1/Icaro/internal/repos"
	"github.com/Mohamedtamer-1/Icaro/internal/services"
)

func newAdmin(t *testing.T, kv *repos.KVRepo, b *bus.Bus) *services.AdminService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("@ICARU5#shop5"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	a := services.NewAdminService("ICARUstore@5", hash, kv, nil, b)
	a.Seed(domain.Snapshot{Products: services.DefaultProducts()})
	return a
}

func TestAuthenticate(t *testing.T) {
	admin := newAdmin(t, memKV(t), bus.New())
	if !admin.Authenticate("ICARUstore@5", "@ICARU5#shop5") {
		t.Fatal("valid pair rejected")
	}
	if admin.Authenticate("ICARUstore@5", "wrong") {
		t.Fatal("bad password accepted")
	}
	if admin.Authenticate("someone", "@ICARU5#shop5") {
		t.Fatal("bad username accepted")
	}
}

func TestStageDeleteThenCommit(t *testing.T) {
	kv := memKV(t)
	b := bus.New()
	stock := services.NewStockService()
	b.Subscribe(stock.Update)

	admin := newAdmin(t, kv, b)
	stock.Update(admin.Snapshot())

	if err := admin.StageDelete("3"); err != nil {
		t.Fatal(err)
	}
	if n := len(admin.Pending()); n != 1 {
		t.Fatalf("want 1 pending change, got %d", n)
	}
	// optimistic on the admin side only: the shopper projection moves on
	// commit, not on staging
	if !stock.Visible("3") {
		t.Fatal("staging must not touch the live projection")
	}

	snap, err := admin.Commit(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(admin.Pending()) != 0 {
		t.Fatal("pending changes must clear after commit")
	}
	for _, p := range snap.Products {
		if p.ID == "3" {
			t.Fatal("deleted product still in committed snapshot")
		}
	}
	if stock.Visible("3") {
		t.Fatal("broadcast did not reach the projection")
	}

	// the persisted snapshot also excludes it
	var persisted domain.Snapshot
	if ok, err := kv.GetJSON(repos.KeyProductsPageData, &persisted); err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	for _, p := range persisted.Products {
		if p.ID == "3" {
			t.Fatal("deleted product in persisted snapshot")
		}
	}
	found := false
	for _, id := range persisted.DeletedProducts {
		if id == "3" {
			found = true
		}
	}
	if !found {
		t.Fatal("soft delete marker missing from persisted snapshot")
	}

	// a fresh load resolves from the local blob and stays filtered
	catalog := services.NewCatalogService(kv, nil, "no-such-page.html", false)
	loaded := catalog.Load(context.Background())
	if len(loaded.Products) != 3 {
		t.Fatalf("fresh load: want 3 products, got %d", len(loaded.Products))
	}
}

func TestStockToggleTwiceRestores(t *testing.T) {
	kv := memKV(t)
	b := bus.New()
	stock := services.NewStockService()
	b.Subscribe(stock.Update)
	admin := newAdmin(t, kv, b)

	if err := admin.StageStockToggle("3", "L"); err != nil {
		t.Fatal(err)
	}
	if _, err := admin.Commit(context.Background()); err != nil {
		t.Fatal(err)
	}
	if stock.Available("3", "L") {
		t.Fatal("toggle did not mark out of stock")
	}
	if stock.Available("3", "M") {
		// M untouched
	} else {
		t.Fatal("unrelated size affected")
	}

	if err := admin.StageStockToggle("3", "L"); err != nil {
		t.Fatal(err)
	}
	if _, err := admin.Commit(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !stock.Available("3", "L") {
		t.Fatal("second toggle did not restore stock")
	}
}

func TestStageValidation(t *testing.T) {
	admin := newAdmin(t, memKV(t), bus.New())
	if err := admin.StageDelete("99"); err == nil {
		t.Fatal("unknown product should not stage")
	}
	if err := admin.StageStockToggle("1", "XXL"); err == nil {
		t.Fatal("undeclared size should not stage")
	}
	if n := len(admin.Pending()); n != 0 {
		t.Fatalf("failed staging left %d pending changes", n)
	}
}

func TestCatalogLoadFallsBackToDefaults(t *testing.T) {
	kv := memKV(t)
	catalog := services.NewCatalogService(kv, nil, "no-such-page.html", false)
	snap := catalog.Load(context.Background())
	if len(snap.Products) != 4 {
		t.Fatalf("want default catalog, got %d products", len(snap.Products))
	}
	// the recovered snapshot is persisted back so future loads skip the
	// fallback chain
	var persisted domain.Snapshot
	if ok, err := kv.GetJSON(repos.KeyProductsPageData, &persisted); err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
	if len(persisted.Products) != 4 {
		t.Fatalf("persist-back missing: %d", len(persisted.Products))
	}
}
