// Package payment provides payment accounts. An account's effective
// balance is computed, not stored: the stored column is an opening
// balance and the ledger entries referencing the account are summed on
// top of it.
package payment

import (
	"time"

	"nomur/internal/core/types"
)

// Account is one receiving account.
type Account struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	AccountNo string      `json:"accountNo,omitempty"`
	BankName  string      `json:"bankName,omitempty"`
	QRCode    string      `json:"qrCode,omitempty"`
	Balance   types.Money `json:"balance"`
	IsActive  bool        `json:"isActive"`
	CreatedAt time.Time   `json:"createdAt"`
}
