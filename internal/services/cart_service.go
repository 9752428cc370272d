package services

import (
	"errors"
	"strings"
	"time"

	"github.com/Mohamedtamer-1/Icaro/internal/domain"
	"github.com/Mohamedtamer-1/Icaro/internal/repos"
)

var (
	ErrOutOfStock = errors.New("selected size is out of stock")
	ErrBadIndex   = errors.New("no such cart line")
)

// Stock gates cart eligibility: availability is rechecked at the moment
// an add is confirmed, not when the selector was rendered.
type Stock interface {
	Available(productID, size string) bool
	Visible(productID string) bool
	Product(id string) (domain.Product, bool)
}

type Totals struct {
	Subtotal float64
	Shipping float64
	Total    float64
}

// CartService keeps one ordered line-item list per session, persisted in
// full on every mutation.
type CartService struct {
	KV    *repos.KVRepo
	Stock Stock
	// Fees maps governorate to delivery fee; unlisted governorates (and
	// the empty choice) ship at 0.
	Fees map[string]float64
}

func NewCartService(kv *repos.KVRepo, stock Stock, fees map[string]float64) *CartService {
	return &CartService{KV: kv, Stock: stock, Fees: fees}
}

func (s *CartService) key(sessionID string) string {
	return repos.KeyCartPrefix + sessionID
}

func (s *CartService) Items(sessionID string) ([]domain.CartLineItem, error) {
	var items []domain.CartLineItem
	if _, err := s.KV.GetJSON(s.key(sessionID), &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (s *CartService) persist(sessionID string, items []domain.CartLineItem) error {
	return s.KV.PutJSON(s.key(sessionID), items)
}

// Add confirms a product/size into the cart. The deleted and
// out-of-stock sets are consulted here, at confirm time, so an admin
// toggle racing the shopper resolves in favor of the latest stock state.
// Lines merge by name+size.
func (s *CartService) Add(sessionID, productID, size string, qty int) (domain.CartLineItem, error) {
	if qty < 1 {
		qty = 1
	}
	p, ok := s.Stock.Product(productID)
	if !ok || !s.Stock.Visible(productID) {
		return domain.CartLineItem{}, ErrUnknownProduct
	}
	declared := false
	for _, sz := range p.Sizes {
		if sz == size {
			declared = true
			break
		}
	}
	if !declared {
		return domain.CartLineItem{}, errors.New("no such size for this product")
	}
	if !s.Stock.Available(productID, size) {
		return domain.CartLineItem{}, ErrOutOfStock
	}

	items, err := s.Items(sessionID)
	if err != nil {
		return domain.CartLineItem{}, err
	}
	for i := range items {
		if items[i].Name == p.Name && items[i].Size == size {
			items[i].Quantity += qty
			if err := s.persist(sessionID, items); err != nil {
				return domain.CartLineItem{}, err
			}
			return items[i], nil
		}
	}

	line := domain.CartLineItem{
		ID:       time.Now().UnixMilli(),
		Name:     p.Name,
		Price:    p.Price,
		Size:     size,
		Quantity: qty,
		Image:    p.Image,
	}
	items = append(items, line)
	if err := s.persist(sessionID, items); err != nil {
		return domain.CartLineItem{}, err
	}
	return line, nil
}

// UpdateQuantity shifts a line's quantity by delta; a result of zero or
// below removes the line.
func (s *CartService) UpdateQuantity(sessionID string, index, delta int) error {
	items, err := s.Items(sessionID)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(items) {
		return ErrBadIndex
	}
	items[index].Quantity += delta
	if items[index].Quantity <= 0 {
		items = append(items[:index], items[index+1:]...)
	}
	return s.persist(sessionID, items)
}

func (s *CartService) Remove(sessionID string, index int) error {
	items, err := s.Items(sessionID)
	if err != nil {
		return err
	}
	if index < 0 || index >= len(items) {
		return ErrBadIndex
	}
	items = append(items[:index], items[index+1:]...)
	return s.persist(sessionID, items)
}

func (s *CartService) Clear(sessionID string) error {
	return s.KV.Delete(s.key(sessionID))
}

// Totals recomputes eagerly from the lines; nothing is cached. A line
// whose price no longer parses aborts the computation.
func (s *CartService) Totals(items []domain.CartLineItem, governorate string) (Totals, error) {
	var t Totals
	for _, it := range items {
		unit, err := domain.ParsePrice(it.Price)
		if err != nil {
			return Totals{}, err
		}
		qty := it.Quantity
		if qty < 1 {
			qty = 1
		}
		t.Subtotal += unit * float64(qty)
	}
	t.Shipping = s.Fees[strings.ToLower(strings.TrimSpace(governorate))]
	t.Total = t.Subtotal + t.Shipping
	return t, nil
}
