package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog listing the storefront can sell.
type Product struct {
	ID        string          `gorm:"column:id;type:text;primaryKey"`
	Name      string          `gorm:"column:name;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(12,2);not null;default:0"`
	Image     string          `gorm:"column:image;not null;default:''"`
	Brand     string          `gorm:"column:brand;not null;default:''"`
	IsActive  bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (Product) TableName() string { return "products" }
