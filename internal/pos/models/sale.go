// Package models defines the POS entities held in the local store and
// exchanged with the remote backends.
package models

import "time"

// PaymentMethod identifies how a sale was paid.
type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "cash"
	PaymentCard  PaymentMethod = "card"
	PaymentVenmo PaymentMethod = "venmo"
	PaymentOther PaymentMethod = "other"
)

// LineItem is a single product line inside a sale.
type LineItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Size      string  `json:"size,omitempty"`
}

// Sale is an immutable transaction record created at checkout. The only
// field mutated afterwards is Synced; the row is physically deleted only
// once the sale is both synced and referenced by a close-out.
type Sale struct {
	ID            string        `json:"id"`
	RecordedAt    time.Time     `json:"recorded_at"`
	Items         []LineItem    `json:"items"`
	Total         float64       `json:"total"`
	Collected     float64       `json:"collected"`
	PaymentMethod PaymentMethod `json:"payment_method"`
	Discount      float64       `json:"discount,omitempty"`
	Tip           float64       `json:"tip,omitempty"`
	Synced        bool          `json:"synced"`
}
