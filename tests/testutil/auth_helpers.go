package testutil

import (
	"github.com/gin-gonic/gin"
)

// SetMockAdminContext marks a Gin context as an authenticated admin,
// bypassing token verification for handler-level tests
func SetMockAdminContext(c *gin.Context, adminID uint, email string) {
	c.Set("admin_id", adminID)
	c.Set("admin_email", email)
	c.Set("admin_role", "admin")
}

// MockAdminMiddleware returns a middleware that simulates an
// authenticated admin session
func MockAdminMiddleware(adminID uint, email string) gin.HandlerFunc {
	return func(c *gin.Context) {
		SetMockAdminContext(c, adminID, email)
		c.Next()
	}
}
