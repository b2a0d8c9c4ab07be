package models

import "time"

// ProductTally is the per-product breakdown inside a close-out.
type ProductTally struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// CloseOut is an append-only aggregate over a contiguous span of sales since
// the previous close-out. Once created, only operator-entered metadata
// (name, location, notes, actual cash) may change. It also gates local
// deletion of synced sales: a sale may be removed only after some close-out
// lists its id.
type CloseOut struct {
	ID           string                    `json:"id"`
	CreatedAt    time.Time                 `json:"created_at"`
	Name         string                    `json:"name,omitempty"`
	Location     string                    `json:"location,omitempty"`
	Notes        string                    `json:"notes,omitempty"`
	SaleCount    int                       `json:"sale_count"`
	ItemCount    int                       `json:"item_count"`
	Revenue      float64                   `json:"revenue"`
	Discounts    float64                   `json:"discounts"`
	Tips         float64                   `json:"tips"`
	ByPayment    map[PaymentMethod]float64 `json:"by_payment"`
	ByProduct    map[string]ProductTally   `json:"by_product"`
	ExpectedCash float64                   `json:"expected_cash"`
	ActualCash   float64                   `json:"actual_cash"`
	SaleIDs      []string                  `json:"sale_ids"`
}

// BuildCloseOut aggregates the given sales into a new close-out. The caller
// supplies the id and timestamp so the aggregation itself stays pure.
func BuildCloseOut(id string, createdAt time.Time, sales []Sale) *CloseOut {
	c := &CloseOut{
		ID:        id,
		CreatedAt: createdAt,
		ByPayment: map[PaymentMethod]float64{},
		ByProduct: map[string]ProductTally{},
	}

	for _, s := range sales {
		c.SaleCount++
		c.Revenue += s.Collected
		c.Discounts += s.Discount
		c.Tips += s.Tip
		c.ByPayment[s.PaymentMethod] += s.Collected
		if s.PaymentMethod == PaymentCash {
			c.ExpectedCash += s.Collected
		}
		for _, item := range s.Items {
			c.ItemCount += item.Quantity
			tally := c.ByProduct[item.ProductID]
			tally.Name = item.Name
			tally.Quantity += item.Quantity
			tally.Revenue += float64(item.Quantity) * item.UnitPrice
			c.ByProduct[item.ProductID] = tally
		}
		c.SaleIDs = append(c.SaleIDs, s.ID)
	}

	return c
}
