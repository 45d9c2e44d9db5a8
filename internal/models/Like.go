package models

import "gorm.io/gorm"

// Like marks that a user liked a place. One like per user per place,
// enforced by a composite unique index.
type Like struct {
	gorm.Model
	PlaceID uint `json:"place_id" gorm:"uniqueIndex:idx_like_place_user"`
	UserID  uint `json:"user_id" gorm:"uniqueIndex:idx_like_place_user"`
}
