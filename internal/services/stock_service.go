package services

import (
	"sync"

	"github.com/Mohamedtamer-1/Icaro/internal/domain"
)

// StockService is the shopper-side projection of the latest known
// catalog state. It answers per-size availability and card visibility
// and is refreshed from every commit broadcast or remote change event.
type StockService struct {
	mu       sync.RWMutex
	order    []string
	products map[string]domain.Product
	stock    map[string]struct{} // out-of-stock keys
	deleted  map[string]struct{}
}

func NewStockService() *StockService {
	return &StockService{
		products: map[string]domain.Product{},
		stock:    map[string]struct{}{},
		deleted:  map[string]struct{}{},
	}
}

// Update replaces the projection with a fresh snapshot.
func (s *StockService) Update(snap domain.Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = s.order[:0]
	s.products = make(map[string]domain.Product, len(snap.Products))
	for _, p := range snap.Products {
		s.order = append(s.order, p.ID)
		s.products[p.ID] = p
	}
	s.stock = make(map[string]struct{}, len(snap.OutOfStock))
	for _, k := range snap.OutOfStock {
		s.stock[k] = struct{}{}
	}
	s.deleted = make(map[string]struct{}, len(snap.DeletedProducts))
	for _, id := range snap.DeletedProducts {
		s.deleted[id] = struct{}{}
	}
}

func (s *StockService) Available(productID, size string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, out := s.stock[domain.StockKey(productID, size)]
	return !out
}

func (s *StockService) Visible(productID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, del := s.deleted[productID]
	return !del
}

func (s *StockService) Product(id string) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[id]
	return p, ok
}

// VisibleProducts lists non-deleted products in catalog order,
// optionally filtered by category.
func (s *StockService) VisibleProducts(category string) []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Product, 0, len(s.order))
	for _, id := range s.order {
		if _, del := s.deleted[id]; del {
			continue
		}
		p := s.products[id]
		if category != "" && p.Category != category {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SizeStates reports availability per declared size, for the
// size-selector rendering.
func (s *StockService) SizeStates(productID string) map[string]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.products[productID]
	if !ok {
		return nil
	}
	states := make(map[string]bool, len(p.Sizes))
	for _, sz := range p.Sizes {
		_, out := s.stock[domain.StockKey(productID, sz)]
		states[sz] = !out
	}
	return states
}
