package controllers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/swathoops/swathoops-api/config"
	"github.com/swathoops/swathoops-api/models"
)

// setupControllerTest prepares an in-memory database and test configuration
// for handler tests
func setupControllerTest(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "Failed to connect to test database")

	err = db.AutoMigrate(
		&models.Product{},
		&models.ProductVariant{},
		&models.User{},
		&models.Address{},
		&models.Order{},
		&models.OrderItem{},
		&models.SiteSetting{},
		&models.Admin{},
	)
	require.NoError(t, err, "Failed to migrate test database")

	config.SetDB(db)
	config.SetConfig(&config.Config{
		GoEnv:             "test",
		JWTSecret:         "test-jwt-secret",
		JWTExpiryHours:    1,
		JWTIssuer:         "swathoops-api",
		JWTAudience:       "swathoops-admin",
		BcryptCost:        4,
		RazorpayKeyID:     "rzp_test_key",
		RazorpayKeySecret: "rzp_test_secret",
		Currency:          "INR",
		DefaultCountry:    "India",
		MaxUploadSize:     5 * 1024 * 1024,
	})
	return db
}

func seedCatalogProduct(t *testing.T, db *gorm.DB, name string, price int64, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		Name:        name,
		Slug:        name,
		SKU:         "SKU-" + name,
		Price:       decimal.NewFromInt(price),
		Description: "Test product",
		Material:    "Leather",
		Sizes:       []int{7, 8, 9},
		Stock:       stock,
		IsActive:    true,
		Images:      []string{"/images/" + name + ".jpg"},
	}
	require.NoError(t, db.Create(product).Error, "Failed to seed product")
	return product
}

// performJSON sends a JSON request through the router and returns the recorder
func performJSON(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		encoded, _ := json.Marshal(body)
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// decodeBody parses a response envelope into a generic map
func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), "Failed to decode response body")
	return body
}

// errorCode extracts the error code from a failed response envelope
func errorCode(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	body := decodeBody(t, w)
	errObj, ok := body["error"].(map[string]interface{})
	require.True(t, ok, "response has no error object: %s", w.Body.String())
	code, _ := errObj["code"].(string)
	return code
}

// checkoutBody builds a valid checkout request body for one product
func checkoutBody(productID uint, quantity int) map[string]interface{} {
	return map[string]interface{}{
		"customer": map[string]interface{}{
			"name":  "Asha Rao",
			"email": "asha@example.com",
			"phone": "9876543210",
		},
		"address": map[string]interface{}{
			"address_line1": "12 MG Road",
			"city":          "Bengaluru",
			"state":         "Karnataka",
			"pincode":       "560001",
		},
		"items": []map[string]interface{}{
			{"product_id": productID, "quantity": quantity, "size": 8},
		},
	}
}
