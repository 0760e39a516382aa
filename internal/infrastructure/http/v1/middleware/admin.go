package middleware

import (
	"github.com/gin-gonic/gin"

	appctx "nomur/internal/core/context"
	"nomur/internal/domain/admin"
)

const (
	HeaderAdminID   = "admin-id"
	HeaderAdminRole = "admin-role"
)

func adminCredentials(c *gin.Context) (string, string) {
	adminID := c.GetHeader(HeaderAdminID)
	if adminID == "" {
		adminID = c.Query("adminId")
	}
	role := c.GetHeader(HeaderAdminRole)
	if role == "" {
		role = c.Query("adminRole")
	}
	return adminID, role
}

// RequireAdmin guards destructive routes: the caller must present valid
// admin credentials in headers (or query parameters, a legacy client
// fallback). The verified admin lands in the request context.
func RequireAdmin(admins *admin.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminID, role := adminCredentials(c)

		a, err := admins.CheckPrivileged(c.Request.Context(), adminID, role)
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}

		ctx := appctx.WithAdmin(c.Request.Context(), &appctx.AdminContext{
			AdminID: a.ID,
			Name:    a.Name,
			Role:    a.Role,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// OptionalAdmin attaches the acting admin to the context when valid
// credentials are present, and silently continues otherwise. Delivery
// bookkeeping records the actor when one is known.
func OptionalAdmin(admins *admin.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminID, role := adminCredentials(c)
		if adminID != "" {
			if a, err := admins.CheckPrivileged(c.Request.Context(), adminID, role); err == nil {
				ctx := appctx.WithAdmin(c.Request.Context(), &appctx.AdminContext{
					AdminID: a.ID,
					Name:    a.Name,
					Role:    a.Role,
				})
				c.Request = c.Request.WithContext(ctx)
			}
		}
		c.Next()
	}
}
