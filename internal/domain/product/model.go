// Package product provides the product catalog.
package product

import (
	"time"

	"github.com/shopspring/decimal"
)

// Material describes one raw-material line of a product recipe.
type Material struct {
	Name     string          `json:"name"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit,omitempty"`
}

// Product is a sellable item.
type Product struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Image     string          `json:"image,omitempty"`
	Price     decimal.Decimal `json:"price"`
	Weight    decimal.Decimal `json:"weight"`
	Materials []Material      `json:"materials"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}
