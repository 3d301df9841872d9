package controllers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/swathoops/swathoops-api/config"
	"github.com/swathoops/swathoops-api/middleware"
	"github.com/swathoops/swathoops-api/models"
	"github.com/swathoops/swathoops-api/services"
)

// LoginRequest represents the admin login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /api/v1/admin/login - verifies credentials against
// the stored bcrypt hash and issues a session token as an httpOnly cookie
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Email and password are required",
			},
		})
		return
	}

	db := config.GetDB()
	var admin models.Admin
	if err := db.Where("email = ?", req.Email).First(&admin).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_CREDENTIALS",
				"message": "Invalid credentials",
			},
		})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_CREDENTIALS",
				"message": "Invalid credentials",
			},
		})
		return
	}

	cfg := config.GetConfig()
	token, err := middleware.GenerateToken(&admin, cfg)
	if err != nil {
		log.Printf("Failed to generate admin token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "TOKEN_ERROR",
				"message": "Login failed",
			},
		})
		return
	}

	maxAge := cfg.JWTExpiryHours * 3600
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AdminCookieName, token, maxAge, "/", "", cfg.IsProduction(), true)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"token": token,
			"admin": gin.H{
				"id":    admin.ID,
				"email": admin.Email,
				"role":  admin.Role,
			},
		},
	})
}

// Logout handles POST /api/v1/admin/logout - clears the session cookie.
// The token itself stays valid until its natural expiry; no server-side
// revocation list is kept.
func Logout(c *gin.Context) {
	cfg := config.GetConfig()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AdminCookieName, "", -1, "/", "", cfg.IsProduction(), true)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
	})
}

// Me handles GET /api/v1/admin/me - reports the authenticated admin
func Me(c *gin.Context) {
	adminID, err := middleware.GetAdminID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "UNAUTHORIZED",
				"message": "Could not extract admin identity",
			},
		})
		return
	}
	email, _ := middleware.GetAdminEmail(c)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"id":    adminID,
			"email": email,
			"role":  c.GetString("admin_role"),
		},
	})
}

// GetStats handles GET /api/v1/admin/stats - dashboard summary
func GetStats(c *gin.Context) {
	stats, err := services.ComputeDashboardStats(config.GetDB())
	if err != nil {
		log.Printf("Failed to compute dashboard stats: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch stats",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    stats,
	})
}

// CustomerSummary is one row of the admin customer listing
type CustomerSummary struct {
	ID          uint            `json:"id"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
	CreatedAt   string          `json:"created_at"`
	TotalOrders int             `json:"total_orders"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
	Orders      []models.Order  `json:"orders"`
}

// ListCustomers handles GET /api/v1/admin/customers - customers with their
// order history and lifetime spend
func ListCustomers(c *gin.Context) {
	db := config.GetDB()

	query := db.Model(&models.User{}).
		Preload("Orders", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Order("created_at DESC")

	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where(
			"LOWER(name) LIKE LOWER(?) OR LOWER(email) LIKE LOWER(?) OR phone LIKE ?",
			pattern, pattern, pattern,
		)
	}

	var customers []models.User
	if err := query.Find(&customers).Error; err != nil {
		log.Printf("Failed to list customers: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch customers",
			},
		})
		return
	}

	summaries := make([]CustomerSummary, 0, len(customers))
	for _, customer := range customers {
		totalSpent := decimal.Zero
		for _, order := range customer.Orders {
			totalSpent = totalSpent.Add(order.TotalAmount)
		}
		summaries = append(summaries, CustomerSummary{
			ID:          customer.ID,
			Name:        customer.Name,
			Email:       customer.Email,
			Phone:       customer.Phone,
			CreatedAt:   customer.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			TotalOrders: len(customer.Orders),
			TotalSpent:  totalSpent,
			Orders:      customer.Orders,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    summaries,
	})
}

// GetSettings handles GET /api/v1/admin/settings - all settings as a map
func GetSettings(c *gin.Context) {
	var settings []models.SiteSetting
	if err := config.GetDB().Find(&settings).Error; err != nil {
		log.Printf("Failed to fetch settings: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch settings",
			},
		})
		return
	}

	settingsMap := make(map[string]string, len(settings))
	for _, s := range settings {
		settingsMap[s.Key] = s.Value
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    settingsMap,
	})
}

// UpdateSettings handles PUT /api/v1/admin/settings - key/value upsert.
// Keys are validated against the known settings schema; unknown keys are
// rejected rather than silently stored.
func UpdateSettings(c *gin.Context) {
	var body map[string]string
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
			},
		})
		return
	}

	for key := range body {
		if !models.IsKnownSettingKey(key) {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "UNKNOWN_SETTING",
					"message": "Unknown setting key: " + key,
				},
			})
			return
		}
	}

	db := config.GetDB()
	for key, value := range body {
		var setting models.SiteSetting
		err := db.Where("key = ?", key).First(&setting).Error
		switch {
		case err == nil:
			if err := db.Model(&setting).Update("value", value).Error; err != nil {
				log.Printf("Failed to update setting %s: %v", key, err)
				c.JSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "DATABASE_ERROR",
						"message": "Failed to update settings",
					},
				})
				return
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			setting = models.SiteSetting{Key: key, Value: value}
			if err := db.Create(&setting).Error; err != nil {
				log.Printf("Failed to create setting %s: %v", key, err)
				c.JSON(http.StatusInternalServerError, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "DATABASE_ERROR",
						"message": "Failed to update settings",
					},
				})
				return
			}
		default:
			log.Printf("Failed to look up setting %s: %v", key, err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update settings",
				},
			})
			return
		}
	}

	GetSettings(c)
}
