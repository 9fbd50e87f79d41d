package models

import "gorm.io/gorm"

type Store struct {
	gorm.Model

	Name    string `gorm:"not null"`
	Email   string `gorm:"not null"`
	Address string
	OwnerID uint `gorm:"not null;index"`

	// Relationships
	Owner   User     `gorm:"foreignKey:OwnerID"`
	Ratings []Rating `gorm:"foreignKey:StoreID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
