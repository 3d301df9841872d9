package services

import (
	"errors"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"github.com/swathoops/swathoops-api/models"
)

// FindAvailable looks up a product and checks it can cover the requested
// quantity. The gate is aggregate stock; per-size stock is informational
// for display only.
func FindAvailable(db *gorm.DB, productID uint, quantity int) (*models.Product, error) {
	var product models.Product
	if err := db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("find product %d: %w", productID, err)
	}

	if product.IsOutOfStock || product.Stock < quantity {
		return nil, &InsufficientStockError{ProductName: product.Name}
	}

	return &product, nil
}

// DecrementStock atomically reduces a product's aggregate stock. The
// conditional UPDATE guarantees stock never goes negative: if the product
// cannot cover the quantity the update matches no rows and the caller gets
// an insufficient stock error. The out-of-stock flag is set in the same
// transaction when stock reaches zero.
func DecrementStock(tx *gorm.DB, productID uint, quantity int) error {
	result := tx.Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		UpdateColumn("stock", gorm.Expr("stock - ?", quantity))
	if result.Error != nil {
		return fmt.Errorf("decrement stock for product %d: %w", productID, result.Error)
	}
	if result.RowsAffected == 0 {
		var product models.Product
		if err := tx.First(&product, productID).Error; err != nil {
			return ErrProductNotFound
		}
		return &InsufficientStockError{ProductName: product.Name}
	}

	result = tx.Model(&models.Product{}).
		Where("id = ? AND stock <= 0", productID).
		UpdateColumn("is_out_of_stock", true)
	if result.Error != nil {
		return fmt.Errorf("flag product %d out of stock: %w", productID, result.Error)
	}

	return nil
}

// ReplaceVariants replaces a product's size/stock matrix wholesale and
// recomputes the aggregate stock, the sizes list and the out-of-stock flag
// from the new set. Callers must submit the complete desired variant set.
func ReplaceVariants(db *gorm.DB, productID uint, variants []models.ProductVariant) (*models.Product, error) {
	var product models.Product

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return fmt.Errorf("find product %d: %w", productID, err)
		}

		if err := tx.Where("product_id = ?", productID).
			Delete(&models.ProductVariant{}).Error; err != nil {
			return fmt.Errorf("delete variants: %w", err)
		}

		totalStock := 0
		sizes := make([]int, 0, len(variants))
		seen := make(map[int]bool, len(variants))
		for i := range variants {
			if seen[variants[i].Size] {
				return &ValidationError{Field: "variants", Message: fmt.Sprintf("Duplicate variant size %d", variants[i].Size)}
			}
			seen[variants[i].Size] = true
			variants[i].ID = 0
			variants[i].ProductID = productID
			variants[i].IsOutOfStock = variants[i].Stock <= 0
			totalStock += variants[i].Stock
			sizes = append(sizes, variants[i].Size)
		}
		sort.Ints(sizes)

		if len(variants) > 0 {
			if err := tx.Create(&variants).Error; err != nil {
				return fmt.Errorf("insert variants: %w", err)
			}
		}

		product.Sizes = sizes
		product.Stock = totalStock
		product.IsOutOfStock = totalStock <= 0
		// Struct-based update so the json serializer applies to sizes
		if err := tx.Model(&product).
			Select("stock", "is_out_of_stock", "sizes").
			Updates(&product).Error; err != nil {
			return fmt.Errorf("update product stock: %w", err)
		}

		product.Variants = variants
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &product, nil
}
