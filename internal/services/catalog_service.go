package services

import (
	"context"
	"os"
	"time"

	"github.com/Mohamedtamer-1/Icaro/internal/domain"
	applog "github.com/Mohamedtamer-1/Icaro/internal/log"
	"github.com/Mohamedtamer-1/Icaro/internal/remote"
	"github.com/Mohamedtamer-1/Icaro/internal/repos"
	"github.com/Mohamedtamer-1/Icaro/internal/scrape"
)

// CatalogService resolves the catalog snapshot through the fallback
// chain: remote store, local blob, rendered-markup scrape, hardcoded
// defaults. Every step's failure is logged and swallowed; Load always
// yields a usable snapshot.
type CatalogService struct {
	KV     *repos.KVRepo
	Remote *remote.Store // nil when the remote store is disabled

	// PagePath is the rendered products markup for the scrape fallback.
	PagePath string
	// RemoteEmptyIsEmpty accepts an empty remote collection as a
	// genuinely empty catalog instead of falling through.
	RemoteEmptyIsEmpty bool
}

func NewCatalogService(kv *repos.KVRepo, rem *remote.Store, pagePath string, remoteEmptyIsEmpty bool) *CatalogService {
	return &CatalogService{KV: kv, Remote: rem, PagePath: pagePath, RemoteEmptyIsEmpty: remoteEmptyIsEmpty}
}

func (s *CatalogService) Load(ctx context.Context) domain.Snapshot {
	if s.Remote != nil {
		snap, err := s.Remote.FetchSnapshot(ctx)
		switch {
		case err != nil:
			applog.Fail("catalog.remote.fetch", err, nil)
		case len(snap.Products) > 0 || s.RemoteEmptyIsEmpty:
			applog.Event("catalog.load", map[string]any{"source": "remote", "products": len(snap.Products)})
			return snap
		default:
			applog.Event("catalog.remote.empty", nil)
		}
	}

	// Local blob. Used only when it actually holds products; an empty
	// blob may still carry the stock/deleted sets forward.
	var local domain.Snapshot
	ok, err := s.KV.GetJSON(repos.KeyProductsPageData, &local)
	if err != nil {
		applog.Fail("catalog.local.read", err, nil)
	}
	if ok && len(local.Products) > 0 {
		applog.Event("catalog.load", map[string]any{"source": "local", "products": len(local.Products)})
		return local
	}

	if snap, ok := s.scrapePage(local); ok {
		s.persistBack(ctx, snap, "scrape")
		return snap
	}

	snap := defaultSnapshot(local)
	s.persistBack(ctx, snap, "defaults")
	return snap
}

func (s *CatalogService) scrapePage(carried domain.Snapshot) (domain.Snapshot, bool) {
	f, err := os.Open(s.PagePath)
	if err != nil {
		applog.Fail("catalog.scrape.open", err, map[string]any{"page": s.PagePath})
		return domain.Snapshot{}, false
	}
	defer f.Close()

	products, err := scrape.Products(f)
	if err != nil || len(products) == 0 {
		if err != nil {
			applog.Fail("catalog.scrape.parse", err, nil)
		}
		return domain.Snapshot{}, false
	}
	applog.Event("catalog.load", map[string]any{"source": "scrape", "products": len(products)})
	return domain.Snapshot{
		Products:        products,
		OutOfStock:      carried.OutOfStock,
		DeletedProducts: carried.DeletedProducts,
		LastUpdated:     time.Now().UTC().Format(time.RFC3339),
	}, true
}

// persistBack writes a recovered snapshot so future loads skip the
// fallback, and opportunistically mirrors it to the remote store.
func (s *CatalogService) persistBack(ctx context.Context, snap domain.Snapshot, source string) {
	if err := s.KV.PutJSON(repos.KeyProductsPageData, snap); err != nil {
		applog.Fail("catalog.local.write", err, map[string]any{"source": source})
	}
	if s.Remote != nil {
		if err := s.Remote.MirrorSnapshot(ctx, snap); err != nil {
			applog.Fail("catalog.remote.mirror", err, map[string]any{"source": source})
		}
	}
}

// defaultSnapshot is the seed catalog, used only when nothing else
// yields products.
func defaultSnapshot(carried domain.Snapshot) domain.Snapshot {
	return domain.Snapshot{
		Products:        DefaultProducts(),
		OutOfStock:      carried.OutOfStock,
		DeletedProducts: carried.DeletedProducts,
		LastUpdated:     time.Now().UTC().Format(time.RFC3339),
	}
}

func DefaultProducts() []domain.Product {
	return []domain.Product{
		{
			ID: "1", Name: "Classic Comfort", Price: "29.99 EGP", Category: "classic",
			Sizes:       []string{"S", "M", "L", "XL"},
			Description: "Premium cotton blend with perfect fit",
			Image:       "Images/design1.jpg",
			Thumbnails:  []string{"Images/design1a.jpg", "Images/design1b.jpg", "Images/design1c.jpg"},
			Material:    "100% Cotton", Fit: "Regular Fit", Badge: "Best Seller",
		},
		{
			ID: "2", Name: "Sport Style", Price: "34.99 EGP", Category: "sport",
			Sizes:       []string{"S", "M", "L", "XL"},
			Description: "Lightweight and breathable for active lifestyle",
			Image:       "Images/design2.jpg",
			Thumbnails:  []string{"Images/design2a.jpg", "Images/design2b.jpg", "Images/design2c.jpg"},
			Material:    "Polyester Blend", Fit: "Athletic Fit", Badge: "New",
		},
		{
			ID: "3", Name: "Premium Fit", Price: "39.99 EGP", Category: "premium",
			Sizes:       []string{"M", "L", "XL"},
			Description: "Luxury comfort with superior craftsmanship",
			Image:       "Images/design3.jpg",
			Thumbnails:  []string{"Images/design3a.jpg", "Images/design3b.jpg", "Images/design3c.jpg"},
			Material:    "Organic Cotton", Fit: "Slim Fit", Badge: "Premium",
		},
		{
			ID: "4", Name: "Casual Comfort", Price: "24.99 EGP", Category: "casual",
			Sizes:       []string{"S", "M", "L"},
			Description: "Perfect for everyday wear and relaxation",
			Image:       "Images/design4.jpg",
			Thumbnails:  []string{"Images/design4a.jpg", "Images/design4b.jpg", "Images/design4c.jpg"},
			Material:    "Cotton Blend", Fit: "Relaxed Fit", Badge: "",
		},
	}
}
