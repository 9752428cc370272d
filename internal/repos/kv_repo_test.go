package repos

import (
	"sort"
	"testing"

	"github.com/Mohamedtamer-1/Icaro/internal/domain"
)

func memdb(t *testing.T) *KVRepo {
	t.Helper()
	db, err := OpenDB(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	return NewKVRepo(db)
}

func TestKVPutGet(t *testing.T) {
	kv := memdb(t)

	if _, ok, err := kv.Get("missing"); err != nil || ok {
		t.Fatalf("missing key: ok=%v err=%v", ok, err)
	}

	if err := kv.Put("icaruAdminLogin", "true"); err != nil {
		t.Fatal(err)
	}
	v, ok, err := kv.Get("icaruAdminLogin")
	if err != nil || !ok || v != "true" {
		t.Fatalf("got %q ok=%v err=%v", v, ok, err)
	}

	// overwrite
	if err := kv.Put("icaruAdminLogin", "false"); err != nil {
		t.Fatal(err)
	}
	v, _, _ = kv.Get("icaruAdminLogin")
	if v != "false" {
		t.Fatalf("overwrite failed: %q", v)
	}

	if err := kv.Delete("icaruAdminLogin"); err != nil {
		t.Fatal(err)
	}
	if _, ok, _ := kv.Get("icaruAdminLogin"); ok {
		t.Fatal("delete failed")
	}
}

func TestKVJSONBadBlob(t *testing.T) {
	kv := memdb(t)
	if err := kv.Put(KeyProductsPageData, "{not json"); err != nil {
		t.Fatal(err)
	}
	var snap domain.Snapshot
	if _, err := kv.GetJSON(KeyProductsPageData, &snap); err == nil {
		t.Fatal("corrupt blob should error, not silently reset")
	}
}

// Round-trip contract: the reloaded snapshot is set-equal on the two
// membership slices and identical on products.
func TestSnapshotRoundTrip(t *testing.T) {
	kv := memdb(t)

	in := domain.Snapshot{
		Products: []domain.Product{
			{ID: "1", Name: "Classic Comfort", Price: "29.99 EGP", Sizes: []string{"S", "M"}},
			{ID: "2", Name: "Sport Style", Price: "34.99 EGP", Sizes: []string{"M", "L"}},
		},
		OutOfStock:      []string{"2-M", "1-S"},
		DeletedProducts: []string{"7"},
		LastUpdated:     "2025-01-02T03:04:05Z",
	}
	if err := kv.PutJSON(KeyProductsPageData, in); err != nil {
		t.Fatal(err)
	}

	var out domain.Snapshot
	ok, err := kv.GetJSON(KeyProductsPageData, &out)
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}

	if len(out.Products) != 2 || out.Products[0].Name != "Classic Comfort" {
		t.Fatalf("products mangled: %+v", out.Products)
	}
	if out.LastUpdated != in.LastUpdated {
		t.Fatalf("lastUpdated mangled: %q", out.LastUpdated)
	}
	sort.Strings(in.OutOfStock)
	sort.Strings(out.OutOfStock)
	if len(out.OutOfStock) != 2 || out.OutOfStock[0] != in.OutOfStock[0] || out.OutOfStock[1] != in.OutOfStock[1] {
		t.Fatalf("outOfStock set mangled: %v", out.OutOfStock)
	}
	if len(out.DeletedProducts) != 1 || out.DeletedProducts[0] != "7" {
		t.Fatalf("deletedProducts set mangled: %v", out.DeletedProducts)
	}
}
