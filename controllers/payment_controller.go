package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swathoops/swathoops-api/config"
	"github.com/swathoops/swathoops-api/models"
	"github.com/swathoops/swathoops-api/services"
)

// VerifyPaymentRequest carries the gateway callback fields
type VerifyPaymentRequest struct {
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
	OrderID           uint   `json:"order_id" binding:"required"`
}

// CreatePaymentOrder handles POST /api/v1/payment/create-order - online
// payment checkout. Returns the payment handle the checkout page needs to
// open the gateway widget.
func CreatePaymentOrder(c *gin.Context) {
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

	handle, err := services.PlaceOrderViaGateway(config.GetDB(), config.GetConfig(), &req)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    handle,
	})
}

// VerifyPayment handles POST /api/v1/payment/verify - gateway callback
// signature verification
func VerifyPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Missing payment verification parameters",
			},
		})
		return
	}

	order, err := services.VerifyPayment(
		config.GetDB(),
		req.RazorpayOrderID,
		req.RazorpayPaymentID,
		req.RazorpaySignature,
		req.OrderID,
	)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    order,
	})
}

// GetCheckoutSettings handles GET /api/v1/checkout/settings - public
// payment-method toggles for the checkout page
func GetCheckoutSettings(c *gin.Context) {
	var setting models.SiteSetting
	codEnabled := false
	err := config.GetDB().Where("key = ?", models.SettingCODEnabled).First(&setting).Error
	if err == nil {
		codEnabled = setting.Value == "true"
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"cod_enabled":      codEnabled,
			"razorpay_enabled": true,
		},
	})
}
