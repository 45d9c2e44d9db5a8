package models

import "gorm.io/gorm"

// Favorite saves a place to a user's personal list.
type Favorite struct {
	gorm.Model
	PlaceID uint `json:"place_id" gorm:"uniqueIndex:idx_fav_place_user"`
	UserID  uint `json:"user_id" gorm:"uniqueIndex:idx_fav_place_user"`

	Place Place `gorm:"foreignKey:PlaceID" json:"place,omitempty"`
}
