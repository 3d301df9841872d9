package services

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/swathoops/swathoops-api/models"
)

// TopSellingProduct is one row of the dashboard's best-seller list
type TopSellingProduct struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Image     string `json:"image"`
	TotalSold int    `json:"total_sold"`
}

// DashboardStats is the admin dashboard summary
type DashboardStats struct {
	TotalProducts   int64               `json:"total_products"`
	TotalOrders     int64               `json:"total_orders"`
	PendingOrders   int64               `json:"pending_orders"`
	ConfirmedOrders int64               `json:"confirmed_orders"`
	ShippedOrders   int64               `json:"shipped_orders"`
	DeliveredOrders int64               `json:"delivered_orders"`
	CancelledOrders int64               `json:"cancelled_orders"`
	TotalRevenue    decimal.Decimal     `json:"total_revenue"`
	MonthlyRevenue  decimal.Decimal     `json:"monthly_revenue"`
	TotalCustomers  int64               `json:"total_customers"`
	TopSelling      []TopSellingProduct `json:"top_selling"`
}

// ComputeDashboardStats aggregates order, product and customer figures for
// the admin dashboard
func ComputeDashboardStats(db *gorm.DB) (*DashboardStats, error) {
	stats := &DashboardStats{
		TotalRevenue:   decimal.Zero,
		MonthlyRevenue: decimal.Zero,
		TopSelling:     []TopSellingProduct{},
	}

	if err := db.Model(&models.Product{}).Count(&stats.TotalProducts).Error; err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	if err := db.Model(&models.User{}).Count(&stats.TotalCustomers).Error; err != nil {
		return nil, fmt.Errorf("count customers: %w", err)
	}
	if err := db.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}

	statusCounts := map[string]*int64{
		models.OrderStatusPending:   &stats.PendingOrders,
		models.OrderStatusConfirmed: &stats.ConfirmedOrders,
		models.OrderStatusShipped:   &stats.ShippedOrders,
		models.OrderStatusDelivered: &stats.DeliveredOrders,
		models.OrderStatusCancelled: &stats.CancelledOrders,
	}
	for status, target := range statusCounts {
		if err := db.Model(&models.Order{}).Where("status = ?", status).Count(target).Error; err != nil {
			return nil, fmt.Errorf("count %s orders: %w", status, err)
		}
	}

	var totalRevenue decimal.NullDecimal
	if err := db.Model(&models.Order{}).
		Select("SUM(total_amount)").Scan(&totalRevenue).Error; err != nil {
		return nil, fmt.Errorf("sum revenue: %w", err)
	}
	if totalRevenue.Valid {
		stats.TotalRevenue = totalRevenue.Decimal
	}

	now := time.Now()
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	var monthlyRevenue decimal.NullDecimal
	if err := db.Model(&models.Order{}).
		Where("created_at >= ?", firstOfMonth).
		Select("SUM(total_amount)").Scan(&monthlyRevenue).Error; err != nil {
		return nil, fmt.Errorf("sum monthly revenue: %w", err)
	}
	if monthlyRevenue.Valid {
		stats.MonthlyRevenue = monthlyRevenue.Decimal
	}

	type sellingRow struct {
		ProductID uint
		TotalSold int
	}
	var rows []sellingRow
	if err := db.Model(&models.OrderItem{}).
		Select("product_id, SUM(quantity) AS total_sold").
		Group("product_id").
		Order("total_sold DESC").
		Limit(5).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("rank top selling: %w", err)
	}

	if len(rows) > 0 {
		ids := make([]uint, 0, len(rows))
		for _, row := range rows {
			ids = append(ids, row.ProductID)
		}
		var products []models.Product
		if err := db.Where("id IN ?", ids).Find(&products).Error; err != nil {
			return nil, fmt.Errorf("load top selling products: %w", err)
		}
		byID := make(map[uint]models.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}
		for _, row := range rows {
			entry := TopSellingProduct{
				ProductID: row.ProductID,
				Name:      "Unknown",
				TotalSold: row.TotalSold,
			}
			if p, ok := byID[row.ProductID]; ok {
				entry.Name = p.Name
				if len(p.Images) > 0 {
					entry.Image = p.Images[0]
				}
			}
			stats.TopSelling = append(stats.TopSelling, entry)
		}
	}

	return stats, nil
}
