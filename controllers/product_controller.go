package controllers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/swathoops/swathoops-api/config"
	"github.com/swathoops/swathoops-api/models"
	"github.com/swathoops/swathoops-api/services"
	"github.com/swathoops/swathoops-api/utils"
)

// VariantInput is one row of the size/stock matrix submitted by an admin
type VariantInput struct {
	Size  int `json:"size" binding:"required"`
	Stock int `json:"stock"`
}

// CreateProductRequest represents the request body for creating a product
type CreateProductRequest struct {
	Name            string           `json:"name" binding:"required"`
	SKU             string           `json:"sku" binding:"required"`
	Price           decimal.Decimal  `json:"price" binding:"required"`
	DiscountPrice   *decimal.Decimal `json:"discount_price"`
	Description     string           `json:"description" binding:"required"`
	LongDescription *string          `json:"long_description"`
	Material        string           `json:"material" binding:"required"`
	Sole            *string          `json:"sole"`
	Quality         *string          `json:"quality"`
	Color           *string          `json:"color"`
	ColorCode       *string          `json:"color_code"`
	Category        *string          `json:"category"`
	Images          []string         `json:"images"`
	IsActive        *bool            `json:"is_active"`
	IsFeatured      bool             `json:"is_featured"`
	IsOnSale        bool             `json:"is_on_sale"`
	Variants        []VariantInput   `json:"variants"`
}

// UpdateProductRequest is the whitelist of product fields an admin may change
type UpdateProductRequest struct {
	Name            *string          `json:"name"`
	Price           *decimal.Decimal `json:"price"`
	DiscountPrice   *decimal.Decimal `json:"discount_price"`
	Description     *string          `json:"description"`
	LongDescription *string          `json:"long_description"`
	Material        *string          `json:"material"`
	Sole            *string          `json:"sole"`
	Quality         *string          `json:"quality"`
	Color           *string          `json:"color"`
	ColorCode       *string          `json:"color_code"`
	Category        *string          `json:"category"`
	Stock           *int             `json:"stock"`
	IsOutOfStock    *bool            `json:"is_out_of_stock"`
	IsActive        *bool            `json:"is_active"`
	IsFeatured      *bool            `json:"is_featured"`
	IsOnSale        *bool            `json:"is_on_sale"`
	Images          []string         `json:"images"`
	Sizes           []int            `json:"sizes"`
	Variants        []VariantInput   `json:"variants"`
}

// ListProducts handles GET /api/v1/products - catalog listing with filters
func ListProducts(c *gin.Context) {
	db := config.GetDB()

	query := db.Model(&models.Product{}).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("size ASC")
		}).
		Order("created_at ASC")

	if c.Query("activeOnly") != "false" {
		query = query.Where("is_active = ?", true)
	}
	if search := c.Query("search"); search != "" {
		pattern := "%" + search + "%"
		query = query.Where(
			"LOWER(name) LIKE LOWER(?) OR LOWER(sku) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)",
			pattern, pattern, pattern,
		)
	}
	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	switch c.Query("stockStatus") {
	case "in-stock":
		query = query.Where("is_out_of_stock = ?", false)
	case "out-of-stock":
		query = query.Where("is_out_of_stock = ?", true)
	}
	if c.Query("featured") == "true" {
		query = query.Where("is_featured = ?", true)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		log.Printf("Failed to list products: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to fetch products",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    products,
	})
}

// GetProduct handles GET /api/v1/products/:id - lookup by slug, falling
// back to numeric id
func GetProduct(c *gin.Context) {
	db := config.GetDB()
	param := c.Param("id")

	variantsBySize := func(db *gorm.DB) *gorm.DB {
		return db.Order("size ASC")
	}

	var product models.Product
	err := db.Preload("Variants", variantsBySize).
		Where("slug = ?", param).First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		// Fresh query for the fallback; the slug condition must not carry over
		if id, parseErr := strconv.ParseUint(param, 10, 64); parseErr == nil {
			err = db.Preload("Variants", variantsBySize).First(&product, uint(id)).Error
		}
	}
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Product not found",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    product,
	})
}

// CreateProduct handles POST /api/v1/products - admin product creation
func CreateProduct(c *gin.Context) {
	var req CreateProductRequest
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

	db := config.GetDB()
	slug := utils.Slugify(req.Name)

	var existing models.Product
	err := db.Where("slug = ? OR sku = ?", slug, req.SKU).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DUPLICATE_PRODUCT",
				"message": "Product with this name or SKU already exists",
			},
		})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("Failed to check product uniqueness: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create product",
			},
		})
		return
	}

	variants := make([]models.ProductVariant, 0, len(req.Variants))
	totalStock := 0
	sizes := make([]int, 0, len(req.Variants))
	seenSizes := make(map[int]bool, len(req.Variants))
	for _, v := range req.Variants {
		if seenSizes[v.Size] {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "VALIDATION_ERROR",
					"message": fmt.Sprintf("Duplicate variant size %d", v.Size),
				},
			})
			return
		}
		seenSizes[v.Size] = true
		variants = append(variants, models.ProductVariant{
			Size:         v.Size,
			Stock:        v.Stock,
			IsOutOfStock: v.Stock <= 0,
		})
		totalStock += v.Stock
		sizes = append(sizes, v.Size)
	}
	sort.Ints(sizes)
	if len(sizes) == 0 {
		sizes = []int{6, 7, 8, 9, 10, 11}
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}
	images := req.Images
	if images == nil {
		images = []string{}
	}

	product := models.Product{
		Name:            req.Name,
		Slug:            slug,
		SKU:             req.SKU,
		Price:           req.Price,
		DiscountPrice:   req.DiscountPrice,
		Description:     req.Description,
		LongDescription: req.LongDescription,
		Material:        req.Material,
		Sole:            req.Sole,
		Quality:         req.Quality,
		Color:           req.Color,
		ColorCode:       req.ColorCode,
		Category:        req.Category,
		Sizes:           sizes,
		Stock:           totalStock,
		IsOutOfStock:    totalStock <= 0,
		IsActive:        isActive,
		IsFeatured:      req.IsFeatured,
		IsOnSale:        req.IsOnSale,
		Images:          images,
		Variants:        variants,
	}

	if err := db.Create(&product).Error; err != nil {
		log.Printf("Failed to create product: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create product",
			},
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    product,
	})
}

// UpdateProduct handles PUT /api/v1/products/:id - admin product update,
// including the variant replace + stock recompute behavior
func UpdateProduct(c *gin.Context) {
	productID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Product not found",
			},
		})
		return
	}

	var req UpdateProductRequest
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

	db := config.GetDB()

	var product models.Product
	if err := db.First(&product, uint(productID)).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "NOT_FOUND",
				"message": "Product not found",
			},
		})
		return
	}

	// Struct patch with an explicit column list so the json serializer
	// applies to sizes and images
	var patch models.Product
	columns := make([]string, 0)
	if req.Name != nil {
		patch.Name = *req.Name
		columns = append(columns, "name")
	}
	if req.Price != nil {
		patch.Price = *req.Price
		columns = append(columns, "price")
	}
	if req.DiscountPrice != nil {
		patch.DiscountPrice = req.DiscountPrice
		columns = append(columns, "discount_price")
	}
	if req.Description != nil {
		patch.Description = *req.Description
		columns = append(columns, "description")
	}
	if req.LongDescription != nil {
		patch.LongDescription = req.LongDescription
		columns = append(columns, "long_description")
	}
	if req.Material != nil {
		patch.Material = *req.Material
		columns = append(columns, "material")
	}
	if req.Sole != nil {
		patch.Sole = req.Sole
		columns = append(columns, "sole")
	}
	if req.Quality != nil {
		patch.Quality = req.Quality
		columns = append(columns, "quality")
	}
	if req.Color != nil {
		patch.Color = req.Color
		columns = append(columns, "color")
	}
	if req.ColorCode != nil {
		patch.ColorCode = req.ColorCode
		columns = append(columns, "color_code")
	}
	if req.Category != nil {
		patch.Category = req.Category
		columns = append(columns, "category")
	}
	if req.IsOutOfStock != nil {
		patch.IsOutOfStock = *req.IsOutOfStock
		columns = append(columns, "is_out_of_stock")
	}
	if req.IsActive != nil {
		patch.IsActive = *req.IsActive
		columns = append(columns, "is_active")
	}
	if req.IsFeatured != nil {
		patch.IsFeatured = *req.IsFeatured
		columns = append(columns, "is_featured")
	}
	if req.IsOnSale != nil {
		patch.IsOnSale = *req.IsOnSale
		columns = append(columns, "is_on_sale")
	}
	if req.Images != nil {
		patch.Images = req.Images
		columns = append(columns, "images")
	}

	// The variant matrix is authoritative for stock and sizes when
	// submitted; direct stock/sizes edits only apply without it.
	if req.Variants != nil {
		variants := make([]models.ProductVariant, 0, len(req.Variants))
		for _, v := range req.Variants {
			variants = append(variants, models.ProductVariant{
				Size:  v.Size,
				Stock: v.Stock,
			})
		}
		if _, err := services.ReplaceVariants(db, uint(productID), variants); err != nil {
			var validationErr *services.ValidationError
			if errors.As(err, &validationErr) {
				c.JSON(http.StatusBadRequest, gin.H{
					"success": false,
					"error": gin.H{
						"code":    "VALIDATION_ERROR",
						"message": validationErr.Message,
					},
				})
				return
			}
			log.Printf("Failed to replace variants for product %d: %v", productID, err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update product",
				},
			})
			return
		}
	} else {
		if req.Stock != nil {
			patch.Stock = *req.Stock
			columns = append(columns, "stock")
			if *req.Stock <= 0 {
				patch.IsOutOfStock = true
				columns = append(columns, "is_out_of_stock")
			}
		}
		if req.Sizes != nil {
			patch.Sizes = req.Sizes
			columns = append(columns, "sizes")
		}
	}

	if len(columns) > 0 {
		if err := db.Model(&product).Select(columns).Updates(&patch).Error; err != nil {
			log.Printf("Failed to update product %d: %v", productID, err)
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to update product",
				},
			})
			return
		}
	}

	var updated models.Product
	if err := db.Preload("Variants", func(db *gorm.DB) *gorm.DB {
		return db.Order("size ASC")
	}).First(&updated, uint(productID)).Error; err != nil {
		log.Printf("Failed to reload product %d: %v", productID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update product",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    updated,
	})
}
