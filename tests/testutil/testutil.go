package testutil

import (
	"testing"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/swathoops/swathoops-api/config"
	"github.com/swathoops/swathoops-api/models"
)

// SetupTestDB creates an in-memory sqlite database with all models
// migrated and installs it as the global database handle
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Product{},
		&models.ProductVariant{},
		&models.User{},
		&models.Address{},
		&models.Order{},
		&models.OrderItem{},
		&models.SiteSetting{},
		&models.Admin{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	config.SetDB(db)
	return db
}

// TestConfig returns a configuration suitable for tests
func TestConfig() *config.Config {
	return &config.Config{
		DatabaseURL:       "sqlite::memory:",
		Port:              "8080",
		GoEnv:             "test",
		JWTSecret:         "test-jwt-secret",
		JWTExpiryHours:    1,
		JWTIssuer:         "swathoops-api",
		JWTAudience:       "swathoops-admin",
		BcryptCost:        bcrypt.MinCost,
		RazorpayKeyID:     "rzp_test_key",
		RazorpayKeySecret: "rzp_test_secret",
		Currency:          "INR",
		DefaultCountry:    "India",
		AdminEmail:        "admin@test.com",
		MaxUploadSize:     5242880,
	}
}

// CreateTestProduct inserts a product with the given price and stock
func CreateTestProduct(t *testing.T, db *gorm.DB, name string, price int64, stock int) *models.Product {
	t.Helper()

	product := &models.Product{
		Name:         name,
		Slug:         name,
		SKU:          "SKU-" + name,
		Price:        decimal.NewFromInt(price),
		Description:  "Test product",
		Material:     "Leather",
		Sizes:        []int{7, 8, 9},
		Stock:        stock,
		IsOutOfStock: stock <= 0,
		IsActive:     true,
		Images:       []string{"/images/" + name + ".jpg"},
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("Failed to create test product: %v", err)
	}
	return product
}

// CreateTestAdmin inserts an admin with a bcrypt-hashed password
func CreateTestAdmin(t *testing.T, db *gorm.DB, email, password string) *models.Admin {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("Failed to hash test password: %v", err)
	}

	admin := &models.Admin{
		Email:    email,
		Password: string(hashed),
		Role:     "admin",
	}
	if err := db.Create(admin).Error; err != nil {
		t.Fatalf("Failed to create test admin: %v", err)
	}
	return admin
}
