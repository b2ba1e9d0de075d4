package dashboard

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lmorales/shopworks-backend/internal/orders"
	"github.com/lmorales/shopworks-backend/pkg/config"
	pkgerrors "github.com/lmorales/shopworks-backend/pkg/errors"
	"go.uber.org/multierr"
)

// LowStockItem is the API shape of one low-stock variant.
type LowStockItem struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	ColorName   string    `json:"color_name"`
	ColorHex    string    `json:"color_hex"`
	Stock       int       `json:"stock"`
}

// Summary is the admin dashboard payload.
type Summary struct {
	TotalOrders    int64             `json:"total_orders"`
	Revenue        string            `json:"revenue"`
	OrdersByStatus map[string]int64  `json:"orders_by_status"`
	UserCount      int64             `json:"user_count"`
	LowStock       []LowStockItem    `json:"low_stock"`
	RecentOrders   []orders.OrderDTO `json:"recent_orders"`
}

// Service exposes the admin dashboard read.
type Service interface {
	Summary(ctx context.Context) (*Summary, error)
}

type service struct {
	repo *Repository
	cfg  config.DashboardConfig
}

// NewService constructs a dashboard service instance.
func NewService(repo *Repository, cfg config.DashboardConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("dashboard repository required")
	}
	return &service{repo: repo, cfg: cfg}, nil
}

// Summary gathers the dashboard aggregates. The queries are independent, so
// failures are collected and reported together.
func (s *service) Summary(ctx context.Context) (*Summary, error) {
	summary := &Summary{
		OrdersByStatus: map[string]int64{},
		LowStock:       []LowStockItem{},
		RecentOrders:   []orders.OrderDTO{},
	}

	var errs error

	if total, err := s.repo.CountOrders(ctx); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("count orders: %w", err))
	} else {
		summary.TotalOrders = total
	}

	if revenue, err := s.repo.Revenue(ctx); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("sum revenue: %w", err))
	} else {
		summary.Revenue = revenue.StringFixed(2)
	}

	if byStatus, err := s.repo.OrdersByStatus(ctx); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("orders by status: %w", err))
	} else {
		summary.OrdersByStatus = byStatus
	}

	if userCount, err := s.repo.CountUsers(ctx); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("count users: %w", err))
	} else {
		summary.UserCount = userCount
	}

	if rows, err := s.repo.LowStock(ctx, s.cfg.LowStockThreshold, 50); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("low stock: %w", err))
	} else {
		for _, row := range rows {
			summary.LowStock = append(summary.LowStock, LowStockItem(row))
		}
	}

	if recent, err := s.repo.RecentOrders(ctx, s.cfg.RecentOrdersLimit); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("recent orders: %w", err))
	} else {
		for i := range recent {
			summary.RecentOrders = append(summary.RecentOrders, *orders.ToOrderDTO(&recent[i]))
		}
	}

	if errs != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "db: dashboard aggregates")
	}
	return summary, nil
}
