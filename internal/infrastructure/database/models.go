package database

import (
	"time"

	"gorm.io/datatypes"
)

// productRow is the persisted product cache row.
type productRow struct {
	Barcode  string    `gorm:"primaryKey;type:text"`
	Name     string    `gorm:"type:text;not null"`
	Data     string    `gorm:"type:text;not null"`
	CachedAt time.Time `gorm:"not null"`
}

func (productRow) TableName() string { return "products" }

// profileRow is the persisted single-tenant user profile.
type profileRow struct {
	ID           uint `gorm:"primaryKey"`
	Diet         *string
	Allergies    datatypes.JSONSlice[string]
	Restrictions datatypes.JSONSlice[string]
	Age          *int
	Weight       *float64
	Goals        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (profileRow) TableName() string { return "profiles" }
