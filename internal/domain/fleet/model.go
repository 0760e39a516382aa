// Package fleet holds delivery drivers and the truck type catalog used
// when dispatching shipments.
package fleet

import (
	"time"

	"github.com/shopspring/decimal"
)

// Driver is one delivery driver.
type Driver struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// TruckType is one vehicle class with its load window in tons. At most
// one type is the default.
type TruckType struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	MinWeight decimal.Decimal `json:"minWeight"`
	MaxWeight decimal.Decimal `json:"maxWeight"`
	IsDefault bool            `json:"isDefault"`
	CreatedAt time.Time       `json:"createdAt"`
}
