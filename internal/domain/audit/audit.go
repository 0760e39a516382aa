// Package audit defines the audit trail contract for privileged
// mutations. Entries are written inside the caller's transaction so the
// trail never disagrees with the ledger.
package audit

import "context"

// Action is the kind of audited operation.
type Action string

const (
	ActionCreate   Action = "create"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
	ActionRecharge Action = "recharge"
	ActionDeduct   Action = "deduct"
	ActionTransfer Action = "transfer"
	ActionStatus   Action = "status"
)

// Trail records privileged mutations. The acting admin is taken from the
// request context.
type Trail interface {
	LogChange(ctx context.Context, entityType, entityID string, action Action, changes map[string]any) error
}

// NopTrail discards entries. Used in tests.
type NopTrail struct{}

func (NopTrail) LogChange(context.Context, string, string, Action, map[string]any) error {
	return nil
}
