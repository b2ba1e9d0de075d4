package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lmorales/shopworks-backend/pkg/enums"
	pkgerrors "github.com/lmorales/shopworks-backend/pkg/errors"
	"github.com/lmorales/shopworks-backend/pkg/pagination"
	"gorm.io/gorm"
)

// Service exposes order history reads and the admin status mutation.
type Service interface {
	ListMyOrders(ctx context.Context, userID uuid.UUID, input ListInput) (*OrderListResult, error)
	GetMyOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error)
	ListOrders(ctx context.Context, input ListInput) (*OrderListResult, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*OrderDTO, error)
}

// ListInput holds pagination and filter values for order listings.
type ListInput struct {
	Status string
	Limit  int
	Cursor string
}

type service struct {
	repo *Repository
}

// NewService constructs an orders service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo}, nil
}

// ListMyOrders pages through the caller's own orders, newest first.
func (s *service) ListMyOrders(ctx context.Context, userID uuid.UUID, input ListInput) (*OrderListResult, error) {
	return s.list(ctx, &userID, input)
}

// GetMyOrder loads one order and enforces ownership. A foreign order reads
// as NOT_FOUND rather than FORBIDDEN so order IDs are not probeable.
func (s *service) GetMyOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderDTO, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load order")
	}
	if order.UserID != userID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
	}
	return ToOrderDTO(order), nil
}

// ListOrders pages through every order for admins, optionally by status.
func (s *service) ListOrders(ctx context.Context, input ListInput) (*OrderListResult, error) {
	return s.list(ctx, nil, input)
}

// UpdateStatus sets any valid status value; transitions are unrestricted.
func (s *service) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*OrderDTO, error) {
	parsed, err := enums.ParseOrderStatus(status)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
	}

	if err := s.repo.UpdateStatus(ctx, orderID, parsed); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update order status")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: reload order")
	}
	return ToOrderDTO(order), nil
}

func (s *service) list(ctx context.Context, userID *uuid.UUID, input ListInput) (*OrderListResult, error) {
	cursor, err := pagination.ParseCursor(input.Cursor)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid cursor")
	}

	filter := ListFilter{
		UserID: userID,
		Limit:  pagination.NormalizeLimit(input.Limit),
		Cursor: cursor,
	}
	if input.Status != "" {
		parsed, err := enums.ParseOrderStatus(input.Status)
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, err.Error())
		}
		filter.Status = &parsed
	}

	rows, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list orders")
	}

	result := &OrderListResult{Orders: make([]OrderDTO, 0, len(rows))}
	hasMore := len(rows) > filter.Limit
	if hasMore {
		rows = rows[:filter.Limit]
	}
	for i := range rows {
		result.Orders = append(result.Orders, *ToOrderDTO(&rows[i]))
	}
	if hasMore {
		last := rows[len(rows)-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: last.CreatedAt,
			ID:        last.ID,
		})
	}
	return result, nil
}
