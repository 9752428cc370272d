package domain

// Product is a catalog record. Price stays a display string ("29.99 EGP")
// end to end; parsing happens only where a total is computed.
type Product struct {
	ID          string   `json:"id" bson:"_id"`
	Name        string   `json:"name" bson:"name"`
	Price       string   `json:"price" bson:"price"`
	Category    string   `json:"category" bson:"category"`
	Sizes       []string `json:"sizes" bson:"sizes"`
	Description string   `json:"description" bson:"description"`
	Image       string   `json:"image" bson:"image"`
	Thumbnails  []string `json:"thumbnails" bson:"thumbnails"`
	Material    string   `json:"material" bson:"material"`
	Fit         string   `json:"fit" bson:"fit"`
	Badge       string   `json:"badge" bson:"badge"`
}

// Snapshot is the persisted catalog state: active products plus the
// out-of-stock and soft-deleted membership sets. OutOfStock holds stock
// keys ("<productId>-<size>"), DeletedProducts holds product ids.
// The two slices carry set semantics; their order is irrelevant.
type Snapshot struct {
	Products        []Product `json:"products"`
	OutOfStock      []string  `json:"outOfStock"`
	DeletedProducts []string  `json:"deletedProducts"`
	LastUpdated     string    `json:"lastUpdated"`
}

// PendingChange is a staged admin mutation. It is UI feedback only
// ("Save Changes (N)"); it is not replayed or rolled back.
type PendingChange struct {
	ID          int64  `json:"id"` // unix milliseconds at staging time
	Description string `json:"description"`
	Timestamp   string `json:"timestamp"`
}

// CartLineItem is one ordered cart line. Lines match products by name,
// not id, as the storefront always has.
type CartLineItem struct {
	ID       int64  `json:"id"` // unix milliseconds at creation
	Name     string `json:"name"`
	Price    string `json:"price"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
	Image    string `json:"image"`
}

// CheckoutForm carries the checkout fields as submitted.
type CheckoutForm struct {
	FirstName     string `json:"firstName" validate:"required"`
	LastName      string `json:"lastName" validate:"required"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"required,egmobile"`
	Address       string `json:"address" validate:"required"`
	Governorate   string `json:"governorate" validate:"required"`
	PaymentMethod string `json:"paymentMethod" validate:"required"`
	AgreeTerms    bool   `json:"agreeTerms" validate:"eq=true"`
	AgreePolicy   bool   `json:"agreePolicy" validate:"eq=true"`
}

// FieldError is a structured validation failure for one form field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Order is a submitted checkout, archived once the notification
// endpoint accepts it.
type Order struct {
	ID            string  `db:"id"` // "ICARU-<unix ms>"
	SessionID     string  `db:"session_id"`
	CustomerName  string  `db:"customer_name"`
	CustomerEmail string  `db:"customer_email"`
	Phone         string  `db:"phone"`
	Address       string  `db:"address"`
	Governorate   string  `db:"governorate"`
	PaymentMethod string  `db:"payment_method"`
	Subtotal      float64 `db:"subtotal"`
	Shipping      float64 `db:"shipping"`
	Total         float64 `db:"total"`
	Status        string  `db:"status"`
	CreatedAt     string  `db:"created_at"`
}
