package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Mohamedtamer-1/Icaro/internal/bus"
	"github.com/Mohamedtamer-1/Icaro/internal/domain"
	applog "github.com/Mohamedtamer-1/Icaro/internal/log"
	"github.com/Mohamedtamer-1/Icaro/internal/remote"
	"github.com/Mohamedtamer-1/Icaro/internal/repos"
)

var ErrUnknownProduct = fmt.Errorf("unknown product")

// AdminService is the curation side: it authenticates the single admin,
// stages mutations optimistically, and commits the full snapshot with
// the local store as the durability floor.
type AdminService struct {
	user     string
	passHash []byte

	kv     *repos.KVRepo
	remote *remote.Store // nil when disabled
	bus    *bus.Bus

	mu       sync.Mutex
	products []domain.Product
	stock    map[string]struct{}
	deleted  map[string]struct{}
	pending  []domain.PendingChange
}

func NewAdminService(user string, passHash []byte, kv *repos.KVRepo, rem *remote.Store, b *bus.Bus) *AdminService {
	return &AdminService{
		user:     user,
		passHash: passHash,
		kv:       kv,
		remote:   rem,
		bus:      b,
		stock:    map[string]struct{}{},
		deleted:  map[string]struct{}{},
	}
}

// Seed installs the loaded snapshot as the working state.
func (s *AdminService) Seed(snap domain.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append([]domain.Product(nil), snap.Products...)
	s.stock = make(map[string]struct{}, len(snap.OutOfStock))
	for _, k := range snap.OutOfStock {
		s.stock[k] = struct{}{}
	}
	s.deleted = make(map[string]struct{}, len(snap.DeletedProducts))
	for _, id := range snap.DeletedProducts {
		s.deleted[id] = struct{}{}
	}
}

// Authenticate checks the configured credential pair.
func (s *AdminService) Authenticate(username, password string) bool {
	if username != s.user {
		return false
	}
	return bcrypt.CompareHashAndPassword(s.passHash, []byte(password)) == nil
}

func (s *AdminService) find(productID string) (domain.Product, bool) {
	for _, p := range s.products {
		if p.ID == productID {
			return p, true
		}
	}
	return domain.Product{}, false
}

// StageDelete marks a product deleted in memory and records the pending
// change. The mutation is optimistic; nothing is persisted until Commit.
func (s *AdminService) StageDelete(productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.find(productID)
	if !ok {
		return ErrUnknownProduct
	}
	s.deleted[productID] = struct{}{}
	s.stage(fmt.Sprintf("Deleted product: %s", p.Name))
	return nil
}

// StageStockToggle flips a size's out-of-stock membership. Toggling
// twice returns the size to stock.
func (s *AdminService) StageStockToggle(productID, size string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.find(productID)
	if !ok {
		return ErrUnknownProduct
	}
	declared := false
	for _, sz := range p.Sizes {
		if sz == size {
			declared = true
			break
		}
	}
	if !declared {
		return fmt.Errorf("product %s has no size %s", productID, size)
	}

	key := domain.StockKey(productID, size)
	if _, out := s.stock[key]; out {
		delete(s.stock, key)
		s.stage(fmt.Sprintf("Marked %s (size %s) back in stock", p.Name, size))
	} else {
		s.stock[key] = struct{}{}
		s.stage(fmt.Sprintf("Marked %s (size %s) out of stock", p.Name, size))
	}
	return nil
}

func (s *AdminService) stage(description string) {
	now := time.Now()
	s.pending = append(s.pending, domain.PendingChange{
		ID:          now.UnixMilli(),
		Description: description,
		Timestamp:   now.UTC().Format(time.RFC3339),
	})
}

func (s *AdminService) Pending() []domain.PendingChange {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.PendingChange(nil), s.pending...)
}

// Snapshot renders the current working state: active products only, the
// deleted set retained alongside (soft delete).
func (s *AdminService) Snapshot() domain.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *AdminService) snapshotLocked() domain.Snapshot {
	snap := domain.Snapshot{LastUpdated: time.Now().UTC().Format(time.RFC3339)}
	for _, p := range s.products {
		if _, del := s.deleted[p.ID]; del {
			continue
		}
		snap.Products = append(snap.Products, p)
	}
	for k := range s.stock {
		snap.OutOfStock = append(snap.OutOfStock, k)
	}
	for id := range s.deleted {
		snap.DeletedProducts = append(snap.DeletedProducts, id)
	}
	sort.Strings(snap.OutOfStock)
	sort.Strings(snap.DeletedProducts)
	return snap
}

// Commit persists the snapshot. The local write must succeed (durability
// floor); the remote mirror may fail and is downgraded silently to
// local-only. The broadcast goes out before pending changes clear, so
// every open view re-renders from the committed state.
func (s *AdminService) Commit(ctx context.Context) (domain.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshotLocked()
	if err := s.kv.PutJSON(repos.KeyProductsPageData, snap); err != nil {
		return domain.Snapshot{}, err
	}
	if s.remote != nil {
		if err := s.remote.MirrorSnapshot(ctx, snap); err != nil {
			applog.Fail("admin.commit.remote", err, map[string]any{"changes": len(s.pending)})
		}
	}
	s.bus.Publish(snap)
	s.pending = nil
	return snap, nil
}
