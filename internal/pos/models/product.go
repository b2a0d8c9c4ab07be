package models

// DefaultSizeKey is the inventory key for products without sizes.
const DefaultSizeKey = "default"

// Product is a mutable catalog entry. Inventory is keyed by size, or by
// DefaultSizeKey for unsized products. CurrencyPrices optionally overrides
// Price per currency code.
type Product struct {
	ID             string             `json:"id"`
	Name           string             `json:"name"`
	Price          float64            `json:"price"`
	Category       string             `json:"category"`
	Sizes          []string           `json:"sizes,omitempty"`
	Inventory      map[string]int     `json:"inventory"`
	CurrencyPrices map[string]float64 `json:"currency_prices,omitempty"`
	Synced         bool               `json:"synced"`
}

// StockFor returns the on-hand quantity for a size (or the default key when
// size is empty).
func (p *Product) StockFor(size string) int {
	if size == "" {
		size = DefaultSizeKey
	}
	return p.Inventory[size]
}

// Adjust changes inventory for the given size by delta, never below zero.
func (p *Product) Adjust(size string, delta int) {
	if size == "" {
		size = DefaultSizeKey
	}
	if p.Inventory == nil {
		p.Inventory = map[string]int{}
	}
	q := p.Inventory[size] + delta
	if q < 0 {
		q = 0
	}
	p.Inventory[size] = q
}
