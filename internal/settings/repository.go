package settings

import (
	"context"

	"github.com/lmorales/shopworks-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists the singleton store settings row.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Get loads the settings row.
func (r *Repository) Get(ctx context.Context) (*models.StoreSettings, error) {
	var settings models.StoreSettings
	if err := r.db.WithContext(ctx).First(&settings, "id = ?", models.StoreSettingsID).Error; err != nil {
		return nil, err
	}
	return &settings, nil
}

// Save writes the settings row back.
func (r *Repository) Save(ctx context.Context, settings *models.StoreSettings) error {
	settings.ID = models.StoreSettingsID
	return r.db.WithContext(ctx).Save(settings).Error
}
