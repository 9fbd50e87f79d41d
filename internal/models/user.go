package models

import "gorm.io/gorm"

// Role is the closed set of account roles. Authorization sites switch on it
// exhaustively; anything outside the three constants is rejected up front.
type Role string

const (
	RoleAdministrator Role = "administrator"
	RoleNormalUser    Role = "normal_user"
	RoleStoreOwner    Role = "store_owner"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdministrator, RoleNormalUser, RoleStoreOwner:
		return true
	}
	return false
}

type User struct {
	gorm.Model

	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Address      string
	Role         Role `gorm:"type:varchar(32);not null"`

	// Relationships
	OwnedStore *Store   `gorm:"foreignKey:OwnerID;constraint:OnUpdate:Cascade,OnDelete:SET NULL"`
	Ratings    []Rating `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
