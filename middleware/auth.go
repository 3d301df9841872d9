package middleware

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/swathoops/swathoops-api/config"
	"github.com/swathoops/swathoops-api/models"
)

// AdminCookieName is the cookie the admin session token is stored in
const AdminCookieName = "admin_token"

// AdminClaims contains the custom claims carried by an admin session token
type AdminClaims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Validate satisfies the validator.CustomClaims interface
func (c *AdminClaims) Validate(ctx context.Context) error {
	if c.Role == "" {
		return &AuthError{Code: "MISSING_ROLE", Message: "Token has no role claim"}
	}
	return nil
}

// GenerateToken signs an admin session token with the shared secret.
// The payload carries the admin's id, email and role plus an expiry.
func GenerateToken(admin *models.Admin, cfg *config.Config) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   strconv.FormatUint(uint64(admin.ID), 10),
		"email": admin.Email,
		"role":  admin.Role,
		"iss":   cfg.JWTIssuer,
		"aud":   cfg.JWTAudience,
		"exp":   now.Add(time.Duration(cfg.JWTExpiryHours) * time.Hour).Unix(),
		"iat":   now.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(cfg.JWTSecret))
}

// newAdminValidator builds a JWT validator bound to the shared HS256 secret
func newAdminValidator(cfg *config.Config) (*validator.Validator, error) {
	keyFunc := func(ctx context.Context) (interface{}, error) {
		return []byte(cfg.JWTSecret), nil
	}
	return validator.New(
		keyFunc,
		validator.HS256,
		cfg.JWTIssuer,
		[]string{cfg.JWTAudience},
		validator.WithCustomClaims(func() validator.CustomClaims {
			return &AdminClaims{}
		}),
		validator.WithAllowedClockSkew(time.Minute),
	)
}

// extractToken pulls the session token from the Authorization header or,
// failing that, the admin session cookie.
func extractToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return parts[1]
		}
	}
	if cookie, err := c.Cookie(AdminCookieName); err == nil {
		return cookie
	}
	return ""
}

// RequireAdmin verifies the admin session token and aborts with 401 before
// any handler runs. On success the admin identity is stored in the context.
func RequireAdmin(cfg *config.Config) gin.HandlerFunc {
	jwtValidator, err := newAdminValidator(cfg)

	return func(c *gin.Context) {
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "AUTH_SETUP_ERROR",
					"message": "Authentication is not configured",
				},
			})
			c.Abort()
			return
		}

		token := extractToken(c)
		if token == "" {
			unauthorized(c, "Missing admin session token")
			return
		}

		claims, err := jwtValidator.ValidateToken(c.Request.Context(), token)
		if err != nil {
			unauthorized(c, "Invalid or expired session token")
			return
		}

		validated, ok := claims.(*validator.ValidatedClaims)
		if !ok {
			unauthorized(c, "Invalid session token")
			return
		}
		adminClaims, ok := validated.CustomClaims.(*AdminClaims)
		if !ok {
			unauthorized(c, "Invalid session token")
			return
		}

		adminID, err := strconv.ParseUint(validated.RegisteredClaims.Subject, 10, 64)
		if err != nil {
			unauthorized(c, "Invalid session token")
			return
		}

		c.Set("admin_id", uint(adminID))
		c.Set("admin_email", adminClaims.Email)
		c.Set("admin_role", adminClaims.Role)
		c.Next()
	}
}

func unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "UNAUTHORIZED",
			"message": message,
		},
	})
	c.Abort()
}

// GetAdminID extracts the authenticated admin's id from the Gin context
func GetAdminID(c *gin.Context) (uint, error) {
	adminID, exists := c.Get("admin_id")
	if !exists {
		return 0, &AuthError{Code: "MISSING_ADMIN_ID", Message: "Admin ID not found in context"}
	}
	id, ok := adminID.(uint)
	if !ok {
		return 0, &AuthError{Code: "INVALID_ADMIN_ID", Message: "Admin ID is not a uint"}
	}
	return id, nil
}

// GetAdminEmail extracts the authenticated admin's email from the Gin context
func GetAdminEmail(c *gin.Context) (string, error) {
	email, exists := c.Get("admin_email")
	if !exists {
		return "", &AuthError{Code: "MISSING_ADMIN_EMAIL", Message: "Admin email not found in context"}
	}
	emailStr, ok := email.(string)
	if !ok {
		return "", &AuthError{Code: "INVALID_ADMIN_EMAIL", Message: "Admin email is not a string"}
	}
	return emailStr, nil
}

// AuthError represents an authentication error
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}
