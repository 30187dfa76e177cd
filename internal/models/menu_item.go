package models

import "github.com/shopspring/decimal"

// MenuItem is catalog reference data. It is never mutated after load.
type MenuItem struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Rating      decimal.Decimal `json:"rating"`
	Time        string          `json:"time"` // prep-time estimate, e.g. "25-30 min"
	Category    string          `json:"category"`
	Image       string          `json:"image"`
	Popular     bool            `json:"popular,omitempty"`
}

// CartLine converts the item into a fresh line with quantity 1.
func (m MenuItem) CartLine() CartLine {
	return CartLine{
		ID:       m.ID,
		Name:     m.Name,
		Price:    m.Price,
		Quantity: 1,
		Image:    m.Image,
	}
}
