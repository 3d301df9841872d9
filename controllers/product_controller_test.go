package controllers

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swathoops/swathoops-api/models"
)

func productTestRouter() *gin.Engine {
	router := gin.New()
	router.GET("/products", ListProducts)
	router.GET("/products/:id", GetProduct)
	router.POST("/products", CreateProduct)
	router.PUT("/products/:id", UpdateProduct)
	return router
}

func TestListProductsEndpoint(t *testing.T) {
	db := setupControllerTest(t)
	router := productTestRouter()

	seedCatalogProduct(t, db, "court-classic", 2499, 5)
	runner := seedCatalogProduct(t, db, "street-runner", 3499, 0)
	require.NoError(t, db.Model(runner).Update("is_out_of_stock", true).Error)
	hidden := seedCatalogProduct(t, db, "retired-model", 1999, 3)
	require.NoError(t, db.Model(hidden).Update("is_active", false).Error)
	featured := seedCatalogProduct(t, db, "flagship", 4999, 8)
	require.NoError(t, db.Model(featured).Update("is_featured", true).Error)

	// Storefront default hides inactive products
	w := performJSON(router, http.MethodGet, "/products", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["data"].([]interface{}), 3)

	// Admin view includes them
	w = performJSON(router, http.MethodGet, "/products?activeOnly=false", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["data"].([]interface{}), 4)

	w = performJSON(router, http.MethodGet, "/products?search=runner", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "street-runner", data[0].(map[string]interface{})["name"])

	w = performJSON(router, http.MethodGet, "/products?stockStatus=out-of-stock", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["data"].([]interface{}), 1)

	w = performJSON(router, http.MethodGet, "/products?stockStatus=in-stock", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeBody(t, w)["data"].([]interface{}), 2)

	w = performJSON(router, http.MethodGet, "/products?featured=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data = decodeBody(t, w)["data"].([]interface{})
	require.Len(t, data, 1)
	assert.Equal(t, "flagship", data[0].(map[string]interface{})["name"])
}

func TestGetProductEndpoint(t *testing.T) {
	db := setupControllerTest(t)
	product := seedCatalogProduct(t, db, "court-classic", 2499, 5)
	router := productTestRouter()

	// By slug
	w := performJSON(router, http.MethodGet, "/products/court-classic", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "court-classic", data["name"])

	// By numeric id
	w = performJSON(router, http.MethodGet, fmt.Sprintf("/products/%d", product.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = performJSON(router, http.MethodGet, "/products/no-such-shoe", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, w))
}

func TestCreateProductEndpoint(t *testing.T) {
	db := setupControllerTest(t)
	router := productTestRouter()

	w := performJSON(router, http.MethodPost, "/products", map[string]interface{}{
		"name":        "Street Runner 2.0",
		"sku":         "SR-200",
		"price":       3499,
		"description": "Lightweight everyday runner",
		"material":    "Mesh",
		"images":      []string{"/images/sr200.jpg"},
		"variants": []map[string]interface{}{
			{"size": 9, "stock": 4},
			{"size": 7, "stock": 0},
			{"size": 8, "stock": 2},
		},
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "street-runner-2-0", data["slug"])
	assert.Equal(t, float64(6), data["stock"], "aggregate stock from variants")
	assert.Equal(t, false, data["is_out_of_stock"])
	assert.Equal(t, []interface{}{float64(7), float64(8), float64(9)}, data["sizes"].([]interface{}),
		"sizes are sorted even when variants arrive out of order")

	var variantCount int64
	db.Model(&models.ProductVariant{}).Count(&variantCount)
	assert.Equal(t, int64(3), variantCount)
}

func TestCreateProductEndpointDefaults(t *testing.T) {
	setupControllerTest(t)
	router := productTestRouter()

	// No variants: zero stock, flagged out of stock, default size run
	w := performJSON(router, http.MethodPost, "/products", map[string]interface{}{
		"name":        "Court Classic",
		"sku":         "CC-100",
		"price":       2499,
		"description": "Clean court shoe",
		"material":    "Leather",
	})

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(0), data["stock"])
	assert.Equal(t, true, data["is_out_of_stock"])
	assert.Len(t, data["sizes"].([]interface{}), 6)
}

func TestCreateProductEndpointDuplicate(t *testing.T) {
	db := setupControllerTest(t)
	seedCatalogProduct(t, db, "court-classic", 2499, 5)
	router := productTestRouter()

	w := performJSON(router, http.MethodPost, "/products", map[string]interface{}{
		"name":        "Court Classic",
		"sku":         "CC-NEW",
		"price":       2499,
		"description": "Duplicate slug",
		"material":    "Leather",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "DUPLICATE_PRODUCT", errorCode(t, w))

	w = performJSON(router, http.MethodPost, "/products", map[string]interface{}{
		"name":        "Different Name",
		"sku":         "SKU-court-classic",
		"price":       2499,
		"description": "Duplicate sku",
		"material":    "Leather",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "DUPLICATE_PRODUCT", errorCode(t, w))
}

func TestCreateProductEndpointValidation(t *testing.T) {
	setupControllerTest(t)
	router := productTestRouter()

	w := performJSON(router, http.MethodPost, "/products", map[string]interface{}{
		"name": "No Price",
		"sku":  "NP-1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))
}

func TestCreateProductEndpointDuplicateSize(t *testing.T) {
	db := setupControllerTest(t)
	router := productTestRouter()

	w := performJSON(router, http.MethodPost, "/products", map[string]interface{}{
		"name":        "Street Runner 2.0",
		"sku":         "SR-200",
		"price":       3499,
		"description": "Lightweight everyday runner",
		"material":    "Mesh",
		"variants": []map[string]interface{}{
			{"size": 8, "stock": 2},
			{"size": 8, "stock": 4},
		},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))

	var count int64
	db.Model(&models.Product{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestUpdateProductEndpoint(t *testing.T) {
	db := setupControllerTest(t)
	product := seedCatalogProduct(t, db, "court-classic", 2499, 5)
	router := productTestRouter()

	w := performJSON(router, http.MethodPut, fmt.Sprintf("/products/%d", product.ID), map[string]interface{}{
		"price":       2799,
		"is_featured": true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "2799", data["price"])
	assert.Equal(t, true, data["is_featured"])
}

func TestUpdateProductEndpointVariantsAuthoritative(t *testing.T) {
	db := setupControllerTest(t)
	product := seedCatalogProduct(t, db, "court-classic", 2499, 5)
	router := productTestRouter()

	// Variants submitted alongside a direct stock edit: the matrix wins
	w := performJSON(router, http.MethodPut, fmt.Sprintf("/products/%d", product.ID), map[string]interface{}{
		"stock": 99,
		"variants": []map[string]interface{}{
			{"size": 8, "stock": 3},
			{"size": 9, "stock": 1},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(4), data["stock"])
	assert.Len(t, data["variants"].([]interface{}), 2)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 4, reloaded.Stock)
	assert.Equal(t, []int{8, 9}, reloaded.Sizes)
}

func TestUpdateProductEndpointDuplicateVariantSize(t *testing.T) {
	db := setupControllerTest(t)
	product := seedCatalogProduct(t, db, "court-classic", 2499, 5)
	router := productTestRouter()

	w := performJSON(router, http.MethodPut, fmt.Sprintf("/products/%d", product.ID), map[string]interface{}{
		"variants": []map[string]interface{}{
			{"size": 9, "stock": 1},
			{"size": 9, "stock": 2},
		},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "VALIDATION_ERROR", errorCode(t, w))

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, 5, reloaded.Stock, "rejected matrix leaves stock untouched")
}

func TestUpdateProductEndpointImagesAndSizes(t *testing.T) {
	db := setupControllerTest(t)
	product := seedCatalogProduct(t, db, "court-classic", 2499, 5)
	router := productTestRouter()

	w := performJSON(router, http.MethodPut, fmt.Sprintf("/products/%d", product.ID), map[string]interface{}{
		"images": []string{"/images/cc-front.jpg", "/images/cc-side.jpg"},
		"sizes":  []int{6, 7, 8},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Len(t, data["images"].([]interface{}), 2)

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.Equal(t, []string{"/images/cc-front.jpg", "/images/cc-side.jpg"}, reloaded.Images)
	assert.Equal(t, []int{6, 7, 8}, reloaded.Sizes)
}

func TestUpdateProductEndpointDirectStock(t *testing.T) {
	db := setupControllerTest(t)
	product := seedCatalogProduct(t, db, "court-classic", 2499, 5)
	router := productTestRouter()

	w := performJSON(router, http.MethodPut, fmt.Sprintf("/products/%d", product.ID), map[string]interface{}{
		"stock": 0,
	})
	require.Equal(t, http.StatusOK, w.Code)
	data := decodeBody(t, w)["data"].(map[string]interface{})
	assert.Equal(t, float64(0), data["stock"])
	assert.Equal(t, true, data["is_out_of_stock"], "zero stock flips the flag")

	var reloaded models.Product
	require.NoError(t, db.First(&reloaded, product.ID).Error)
	assert.True(t, reloaded.IsOutOfStock)
}

func TestUpdateProductEndpointNotFound(t *testing.T) {
	setupControllerTest(t)
	router := productTestRouter()

	w := performJSON(router, http.MethodPut, "/products/424242", map[string]interface{}{
		"stock": 1,
	})
	assert.Equal(t, http.StatusNotFound, w.Code)
}
