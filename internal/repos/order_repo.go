package repos

import (
	"github.com/jmoiron/sqlx"

	"github.com/Mohamedtamer-1/Icaro/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

type OrderItemRow struct {
	Name      string  `db:"name"`
	Size      string  `db:"size"`
	Qty       int     `db:"qty"`
	UnitPrice float64 `db:"unit_price"`
}

// Create archives an accepted order with its lines in one transaction.
func (r *OrderRepo) Create(o domain.Order, items []domain.CartLineItem, unitPrices []float64) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
	  INSERT INTO orders
	    (id, session_id, customer_name, customer_email, phone, address, governorate,
	     payment_method, subtotal, shipping, total, status, created_at)
	  VALUES (?,?,?,?,?,?,?,?,?,?,?,'SUBMITTED',CURRENT_TIMESTAMP)
	`, o.ID, o.SessionID, o.CustomerName, o.CustomerEmail, o.Phone, o.Address,
		o.Governorate, o.PaymentMethod, o.Subtotal, o.Shipping, o.Total); err != nil {
		return err
	}
	for i, it := range items {
		if _, err := tx.Exec(`
		  INSERT INTO order_items(order_id, name, size, qty, unit_price)
		  VALUES(?,?,?,?,?)
		  ON CONFLICT(order_id, name, size) DO UPDATE SET qty = qty + excluded.qty
		`, o.ID, it.Name, it.Size, it.Quantity, unitPrices[i]); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *OrderRepo) Get(orderID string) (domain.Order, []OrderItemRow, error) {
	var o domain.Order
	if err := r.db.Get(&o, `
		SELECT id, session_id, customer_name, customer_email, phone, address,
		       governorate, payment_method, subtotal, shipping, total, status, created_at
		FROM orders WHERE id = ?
	`, orderID); err != nil {
		return domain.Order{}, nil, err
	}
	var items []OrderItemRow
	if err := r.db.Select(&items, `
		SELECT name, size, qty, unit_price FROM order_items
		WHERE order_id = ? ORDER BY name, size
	`, orderID); err != nil {
		return domain.Order{}, nil, err
	}
	return o, items, nil
}

func (r *OrderRepo) ListLatest(limit int) ([]domain.Order, error) {
	if limit <= 0 {
		limit = 100
	}
	var out []domain.Order
	err := r.db.Select(&out, `
		SELECT id, session_id, customer_name, customer_email, phone, address,
		       governorate, payment_method, subtotal, shipping, total, status, created_at
		FROM orders
		ORDER BY datetime(created_at) DESC
		LIMIT ?
	`, limit)
	return out, err
}
