package models

import "gorm.io/gorm"

// Rating holds one user's score for one store. The composite unique index on
// (user_id, store_id) is the backstop for the at-most-one-row invariant;
// resubmissions update the existing row in place.
type Rating struct {
	gorm.Model

	UserID  uint `gorm:"not null;uniqueIndex:idx_ratings_user_store"`
	StoreID uint `gorm:"not null;uniqueIndex:idx_ratings_user_store"`
	Value   int  `gorm:"not null"`
}
