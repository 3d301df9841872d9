package services

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swathoops/swathoops-api/models"
)

func TestComputeDashboardStatsEmpty(t *testing.T) {
	db := setupServiceTestDB(t)

	stats, err := ComputeDashboardStats(db)
	require.NoError(t, err)

	assert.Equal(t, int64(0), stats.TotalProducts)
	assert.Equal(t, int64(0), stats.TotalOrders)
	assert.Equal(t, int64(0), stats.TotalCustomers)
	assert.True(t, stats.TotalRevenue.IsZero())
	assert.True(t, stats.MonthlyRevenue.IsZero())
	assert.Empty(t, stats.TopSelling)
}

func TestComputeDashboardStats(t *testing.T) {
	db := setupServiceTestDB(t)
	cfg := serviceTestConfig()

	runner := seedProduct(t, db, "street-runner", 3499, 20)
	classic := seedProduct(t, db, "court-classic", 2499, 20)

	// Three orders: two for the runner (3 units), one for the classic
	first, err := PlaceOrder(db, cfg, checkoutRequest(runner.ID, 2))
	require.NoError(t, err)
	_, err = PlaceOrder(db, cfg, checkoutRequest(runner.ID, 1))
	require.NoError(t, err)
	third, err := PlaceOrder(db, cfg, checkoutRequest(classic.ID, 1))
	require.NoError(t, err)

	require.NoError(t, db.Model(first).Update("status", models.OrderStatusShipped).Error)
	require.NoError(t, db.Model(third).Update("status", models.OrderStatusDelivered).Error)

	stats, err := ComputeDashboardStats(db)
	require.NoError(t, err)

	assert.Equal(t, int64(2), stats.TotalProducts)
	assert.Equal(t, int64(3), stats.TotalOrders)
	assert.Equal(t, int64(1), stats.TotalCustomers, "same shopper across all orders")
	assert.Equal(t, int64(1), stats.PendingOrders)
	assert.Equal(t, int64(1), stats.ShippedOrders)
	assert.Equal(t, int64(1), stats.DeliveredOrders)
	assert.Equal(t, int64(0), stats.CancelledOrders)

	// 2*3499 + 1*3499 + 1*2499
	wantRevenue := decimal.NewFromInt(12996)
	assert.True(t, stats.TotalRevenue.Equal(wantRevenue), "got %s", stats.TotalRevenue)
	assert.True(t, stats.MonthlyRevenue.Equal(wantRevenue), "all orders placed this month")

	require.Len(t, stats.TopSelling, 2)
	assert.Equal(t, runner.ID, stats.TopSelling[0].ProductID)
	assert.Equal(t, 3, stats.TopSelling[0].TotalSold)
	assert.Equal(t, "street-runner", stats.TopSelling[0].Name)
	assert.Equal(t, "/images/street-runner.jpg", stats.TopSelling[0].Image)
	assert.Equal(t, classic.ID, stats.TopSelling[1].ProductID)
	assert.Equal(t, 1, stats.TopSelling[1].TotalSold)
}
