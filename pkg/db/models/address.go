package models

import (
	"time"

	"github.com/google/uuid"
)

// Address is a saved delivery address owned by a Firebase user.
type Address struct {
	ID        uuid.UUID `gorm:"column:id;type:text;primaryKey"`
	UserID    string    `gorm:"column:user_id;not null;index:idx_addresses_user_created,priority:1"`
	Name      string    `gorm:"column:name;not null"`
	Email     string    `gorm:"column:email;not null;default:''"`
	Phone     string    `gorm:"column:phone;not null"`
	PhoneCode string    `gorm:"column:phone_code;not null;default:''"`
	Street    string    `gorm:"column:street;not null"`
	City      string    `gorm:"column:city;not null"`
	District  string    `gorm:"column:district;not null;default:''"`
	State     string    `gorm:"column:state;not null;default:''"`
	Country   string    `gorm:"column:country;not null;default:''"`
	Zip       string    `gorm:"column:zip;not null;default:''"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime;index:idx_addresses_user_created,priority:2"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Address) TableName() string { return "addresses" }
