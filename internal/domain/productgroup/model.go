// Package productgroup provides named sets of equal-weight products that
// can be addressed as a single unit in targets, promotions and gifts.
package productgroup

import "time"

// Group is a named set of products sharing identical weight.
type Group struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ProductIDs  []string  `json:"productIds"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
