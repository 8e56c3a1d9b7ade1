package models

import "github.com/shopspring/decimal"

type Category struct {
	Base
	Name        string `gorm:"size:255;uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
}

// Product stock is only ever lowered by order placement.
type Product struct {
	Base
	Name        string          `gorm:"size:255;not null;index" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Price       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	CategoryID  uint            `gorm:"not null;index" json:"category_id"`
	Category    *Category       `gorm:"constraint:OnDelete:RESTRICT" json:"category,omitempty"`
	ImagePath   string          `gorm:"size:512" json:"image_path,omitempty"`
	ImageURL    string          `gorm:"-" json:"image_url,omitempty"`
}
