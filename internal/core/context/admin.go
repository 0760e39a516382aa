// Package context provides request-scoped values extraction.
package context

import (
	"context"
)

// Admin roles recognized by the platform.
const (
	RoleAdmin      = "admin"
	RoleSuperAdmin = "super_admin"
)

// AdminContext contains the authenticated administrator for privileged routes.
type AdminContext struct {
	AdminID string
	Name    string
	Role    string
}

type adminContextKey struct{}

// WithAdmin adds AdminContext to context.
func WithAdmin(ctx context.Context, admin *AdminContext) context.Context {
	return context.WithValue(ctx, adminContextKey{}, admin)
}

// GetAdmin returns AdminContext from context.
func GetAdmin(ctx context.Context) *AdminContext {
	if v, ok := ctx.Value(adminContextKey{}).(*AdminContext); ok {
		return v
	}
	return nil
}

// GetAdminID returns the admin ID from context or empty string.
func GetAdminID(ctx context.Context) string {
	if a := GetAdmin(ctx); a != nil {
		return a.AdminID
	}
	return ""
}

// IsPrivilegedRole reports whether role may use privileged routes.
func IsPrivilegedRole(role string) bool {
	return role == RoleAdmin || role == RoleSuperAdmin
}
