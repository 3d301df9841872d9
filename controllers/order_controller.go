package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/swathoops/swathoops-api/config"
	"github.com/swathoops/swathoops-api/models"
	"github.com/swathoops/swathoops-api/services"
)

// respondOrderError maps workflow errors onto the API error envelope.
// Unexpected failures are logged server-side and surfaced as a generic
// message so internals never leak to the caller.
func respondOrderError(c *gin.Context, err error) {
	var validationErr *services.ValidationError
	var stockErr *services.InsufficientStockError
	var transitionErr *services.InvalidTransitionError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": validationErr.Message,
			},
		})
	case errors.As(err, &stockErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INSUFFICIENT_STOCK",
				"message": stockErr.Error(),
			},
		})
	case errors.As(err, &transitionErr):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "INVALID_STATUS_TRANSITION",
				"message": transitionErr.Error(),
			},
		})
	case errors.Is(err, services.ErrProductNotFound):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "PRODUCT_NOT_FOUND",
				"message": "Product not found",
			},
		})
	case errors.Is(err, services.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Order not found",
			},
		})
	case errors.Is(err, services.ErrVerificationFailed):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VERIFICATION_FAILED",
				"message": "Payment verification failed",
			},
		})
	case errors.Is(err, services.ErrGatewayFailure):
		log.Printf("Payment gateway call failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "GATEWAY_ERROR",
				"message": "Payment gateway is unavailable",
			},
		})
	default:
		log.Printf("Order operation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to process order",
			},
		})
	}
}

// CreateOrder handles POST /api/v1/orders - cash-on-delivery checkout
func CreateOrder(c *gin.Context) {
	var req services.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	order, err := services.PlaceOrder(config.GetDB(), config.GetConfig(), &req)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    order,
	})
}

// ListOrders handles GET /api/v1/orders - admin listing with filters
func ListOrders(c *gin.Context) {
	db := config.GetDB()

	query := db.Model(&models.Order{}).
		Preload("User").Preload("Items.Product").Preload("Address").
		Order("orders.created_at DESC")

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.
			Joins("JOIN users ON users.id = orders.user_id").
			Where("CAST(orders.id AS TEXT) LIKE ? OR LOWER(users.name) LIKE LOWER(?) OR LOWER(users.email) LIKE LOWER(?) OR users.phone LIKE ?",
				pattern, pattern, pattern, pattern)
	}

	var orders []models.Order
	if err := query.Find(&orders).Error; err != nil {
		log.Printf("Failed to list orders: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    orders,
	})
}

// GetOrder handles GET /api/v1/orders/:id - admin order detail
func GetOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Order not found",
			},
		})
		return
	}

	var order models.Order
	result := config.GetDB().
		Preload("User").Preload("Items.Product").Preload("Address").
		First(&order, uint(orderID))
	if result.Error != nil {
		respondOrderError(c, services.ErrOrderNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// UpdateOrder handles PUT /api/v1/orders/:id - admin fulfillment update
func UpdateOrder(c *gin.Context) {
	orderID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondOrderError(c, services.ErrOrderNotFound)
		return
	}

	var req services.OrderUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	order, err := services.UpdateOrder(config.GetDB(), uint(orderID), &req)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// TrackOrder handles GET /api/v1/orders/track?orderId=&phone= - public,
// phone-gated order status
func TrackOrder(c *gin.Context) {
	orderIDParam := c.Query("orderId")
	phone := c.Query("phone")

	if orderIDParam == "" || phone == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Order ID and phone number are required",
			},
		})
		return
	}

	orderID, err := strconv.ParseUint(orderIDParam, 10, 64)
	if err != nil {
		respondOrderError(c, services.ErrOrderNotFound)
		return
	}

	tracked, err := services.TrackOrder(config.GetDB(), uint(orderID), phone)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    tracked,
	})
}
