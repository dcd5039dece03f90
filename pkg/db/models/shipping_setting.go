package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ShippingSetting is the single-row delivery fee configuration.
type ShippingSetting struct {
	ID                    int             `gorm:"column:id;primaryKey"`
	Enabled               bool            `gorm:"column:enabled;not null"`
	FlatFee               decimal.Decimal `gorm:"column:flat_fee;type:numeric(12,2);not null;default:0"`
	PerItemFee            decimal.Decimal `gorm:"column:per_item_fee;type:numeric(12,2);not null;default:0"`
	FreeShippingThreshold decimal.Decimal `gorm:"column:free_shipping_threshold;type:numeric(12,2);not null;default:0"`
	MaxFee                decimal.Decimal `gorm:"column:max_fee;type:numeric(12,2);not null;default:0"`
	EstimatedDays         string          `gorm:"column:estimated_days;not null;default:'2-5'"`
	UpdatedAt             time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (ShippingSetting) TableName() string { return "shipping_settings" }
