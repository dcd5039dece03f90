package shipping

import (
	"context"
	"errors"

	"github.com/angelmondragon/storefront-checkout/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const settingRowID = 1

// Repository reads the single shipping_settings row.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Current returns the configured setting, or nil when none is stored.
func (r *Repository) Current(ctx context.Context) (*Setting, error) {
	var row models.ShippingSetting
	err := r.db.WithContext(ctx).Where("id = ?", settingRowID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &Setting{
		Enabled:               row.Enabled,
		FlatFee:               row.FlatFee,
		PerItemFee:            row.PerItemFee,
		FreeShippingThreshold: row.FreeShippingThreshold,
		MaxFee:                row.MaxFee,
		EstimatedDays:         row.EstimatedDays,
	}, nil
}

// Save stores setting as the current row.
func (r *Repository) Save(ctx context.Context, setting Setting) error {
	row := models.ShippingSetting{
		ID:                    settingRowID,
		Enabled:               setting.Enabled,
		FlatFee:               setting.FlatFee,
		PerItemFee:            setting.PerItemFee,
		FreeShippingThreshold: setting.FreeShippingThreshold,
		MaxFee:                setting.MaxFee,
		EstimatedDays:         setting.EstimatedDays,
	}
	if row.EstimatedDays == "" {
		row.EstimatedDays = DefaultEstimatedDays
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error
}
