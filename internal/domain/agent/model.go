// Package agent provides the distributor directory and its balance cache.
package agent

import (
	"encoding/json"
	"time"

	"nomur/internal/core/types"
)

// TargetValue is one yearly target entry. The legacy column stores either
// a bare number (plain product target, keyed by product id) or a
// GroupTarget object.
type TargetValue struct {
	IsGroup  bool           `json:"-"`
	Target   types.Quantity `json:"target"`
	Products []string       `json:"products,omitempty"`
	GroupID  string         `json:"groupId,omitempty"`
}

// UnmarshalJSON accepts a bare number, a numeric string, or a
// GroupTarget object.
func (t *TargetValue) UnmarshalJSON(data []byte) error {
	// Object form: group target.
	var obj struct {
		Products []string       `json:"products"`
		Target   types.Quantity `json:"target"`
		GroupID  string         `json:"groupId"`
	}
	if err := json.Unmarshal(data, &obj); err == nil && len(obj.Products) > 0 {
		t.IsGroup = true
		t.Target = obj.Target
		t.Products = obj.Products
		t.GroupID = obj.GroupID
		return nil
	}

	// Scalar form: plain product target. Quantity handles both number
	// and string encodings.
	var q types.Quantity
	if err := q.UnmarshalJSON(data); err != nil {
		return err
	}
	*t = TargetValue{Target: q}
	return nil
}

// MarshalJSON writes the stored form back: bare number for plain
// targets, object for group targets.
func (t TargetValue) MarshalJSON() ([]byte, error) {
	if !t.IsGroup {
		return t.Target.MarshalJSON()
	}
	return json.Marshal(struct {
		Products []string       `json:"products"`
		Target   types.Quantity `json:"target"`
		GroupID  string         `json:"groupId,omitempty"`
	}{Products: t.Products, Target: t.Target, GroupID: t.GroupID})
}

// Agent is a distributor with a running balance. The balance column is a
// cache of the transaction ledger sum and only moves inside the same
// transaction as a ledger write.
type Agent struct {
	ID            string                 `json:"id"`
	Avatar        string                 `json:"avatar,omitempty"`
	Name          string                 `json:"name"`
	Phone1        string                 `json:"phone1,omitempty"`
	Phone2        string                 `json:"phone2,omitempty"`
	Address       string                 `json:"address,omitempty"`
	YearlyTargets map[string]TargetValue `json:"yearlyTargets"`
	Balance       types.Money            `json:"balance"`
	SortOrder     int                    `json:"sortOrder"`
	CreatedAt     time.Time              `json:"createdAt"`
	UpdatedAt     time.Time              `json:"updatedAt"`
}
