package models

import "gorm.io/gorm"

const DefaultCountry = "GE"

type Address struct {
	Base
	UserID       uint           `gorm:"not null;index" json:"user_id"`
	AddressLine1 string         `gorm:"size:255;not null" json:"address_line1"`
	AddressLine2 string         `gorm:"size:255" json:"address_line2,omitempty"`
	City         string         `gorm:"size:50;not null" json:"city"`
	State        string         `gorm:"size:50;not null" json:"state"`
	ZipCode      string         `gorm:"size:20;not null" json:"zip_code"`
	Country      string         `gorm:"size:50;not null;default:GE" json:"country"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}
