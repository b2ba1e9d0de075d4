package settings

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/lmorales/shopworks-backend/pkg/db/models"
	pkgerrors "github.com/lmorales/shopworks-backend/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SettingsDTO is the API-facing shape of the store configuration.
type SettingsDTO struct {
	StoreName       string `json:"store_name"`
	SupportEmail    string `json:"support_email"`
	CurrencyCode    string `json:"currency_code"`
	ShippingFlatFee string `json:"shipping_flat_fee"`
	Maintenance     bool   `json:"maintenance"`
}

// UpdateInput holds optional settings mutations.
type UpdateInput struct {
	StoreName       *string
	SupportEmail    *string
	CurrencyCode    *string
	ShippingFlatFee *decimal.Decimal
	Maintenance     *bool
}

// Service exposes the singleton store configuration.
type Service interface {
	Get(ctx context.Context) (*SettingsDTO, error)
	Update(ctx context.Context, input UpdateInput) (*SettingsDTO, error)
}

type service struct {
	repo *Repository
}

// NewService constructs a settings service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	return &service{repo: repo}, nil
}

// Get returns the store configuration. The row is seeded by migration, so a
// missing row is an internal problem, not a 404.
func (s *service) Get(ctx context.Context) (*SettingsDTO, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeInternal, "store settings row is missing")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load settings")
	}
	return toDTO(settings), nil
}

// Update applies the provided fields and saves the singleton row.
func (s *service) Update(ctx context.Context, input UpdateInput) (*SettingsDTO, error) {
	settings, err := s.repo.Get(ctx)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load settings")
	}
	if settings == nil {
		settings = &models.StoreSettings{}
	}

	if input.StoreName != nil {
		name := strings.TrimSpace(*input.StoreName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "store_name cannot be empty")
		}
		settings.StoreName = name
	}
	if input.SupportEmail != nil {
		email := strings.TrimSpace(*input.SupportEmail)
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid support_email")
		}
		settings.SupportEmail = email
	}
	if input.CurrencyCode != nil {
		code := strings.ToUpper(strings.TrimSpace(*input.CurrencyCode))
		if len(code) != 3 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "currency_code must be a 3-letter code")
		}
		settings.CurrencyCode = code
	}
	if input.ShippingFlatFee != nil {
		if input.ShippingFlatFee.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "shipping_flat_fee cannot be negative")
		}
		settings.ShippingFlatFee = input.ShippingFlatFee.Round(2)
	}
	if input.Maintenance != nil {
		settings.Maintenance = *input.Maintenance
	}

	if err := s.repo.Save(ctx, settings); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save settings")
	}
	return toDTO(settings), nil
}

func toDTO(settings *models.StoreSettings) *SettingsDTO {
	return &SettingsDTO{
		StoreName:       settings.StoreName,
		SupportEmail:    settings.SupportEmail,
		CurrencyCode:    settings.CurrencyCode,
		ShippingFlatFee: settings.ShippingFlatFee.StringFixed(2),
		Maintenance:     settings.Maintenance,
	}
}
