// Package admin holds the back-office user directory and the phone based
// sign-in check the mini program uses.
package admin

import "time"

// Roles an admin row can carry. Both grant privileged routes.
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// Admin is one back-office user. Phone is unique across the table.
type Admin struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

// VerifyResult is the auth check response. Authorized false is a normal
// outcome, not an error.
type VerifyResult struct {
	Authorized bool    `json:"authorized"`
	UserType   string  `json:"userType,omitempty"`
	UserID     string  `json:"userId,omitempty"`
	UserName   string  `json:"userName,omitempty"`
	Role       string  `json:"role,omitempty"`
	Balance    float64 `json:"balance,omitempty"`
	Message    string  `json:"message,omitempty"`
}
