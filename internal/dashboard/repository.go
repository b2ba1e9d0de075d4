package dashboard

import (
	"context"

	"github.com/google/uuid"
	"github.com/lmorales/shopworks-backend/pkg/db/models"
	"github.com/lmorales/shopworks-backend/pkg/enums"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// LowStockRow is one variant sitting at or below the low stock threshold.
type LowStockRow struct {
	ProductID   uuid.UUID `gorm:"column:product_id"`
	ProductName string    `gorm:"column:product_name"`
	ColorName   string    `gorm:"column:color_name"`
	ColorHex    string    `gorm:"column:color_hex"`
	Stock       int       `gorm:"column:stock"`
}

const lowStockQuery = `
SELECT pc.product_id,
       p.name AS product_name,
       pc.name AS color_name,
       pc.hex AS color_hex,
       pc.stock
FROM product_colors pc
JOIN products p ON p.id = pc.product_id
WHERE pc.stock <= ?
ORDER BY pc.stock ASC, pc.updated_at DESC
LIMIT ?
`

// Repository runs the read-only aggregates behind the admin dashboard.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CountOrders returns the total number of orders.
func (r *Repository) CountOrders(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&count).Error
	return count, err
}

// OrdersByStatus returns order counts grouped by status.
func (r *Repository) OrdersByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string `gorm:"column:status"`
		Count  int64  `gorm:"column:count"`
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// Revenue sums order totals, excluding cancelled orders.
func (r *Repository) Revenue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COALESCE(SUM(total_amount), 0)").
		Where("status <> ?", enums.OrderStatusCancelled).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// CountUsers returns the total number of accounts.
func (r *Repository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}

// LowStock lists variants at or below the threshold with their product names.
func (r *Repository) LowStock(ctx context.Context, threshold, limit int) ([]LowStockRow, error) {
	var rows []LowStockRow
	err := r.db.WithContext(ctx).Raw(lowStockQuery, threshold, limit).Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// RecentOrders returns the newest orders with their items.
func (r *Repository) RecentOrders(ctx context.Context, limit int) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}
