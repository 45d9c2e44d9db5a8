package models

import "gorm.io/gorm"

// Comment is a user comment on a place. Comments stay open even for
// rejected places; they are about the content, not the approval state.
type Comment struct {
	gorm.Model
	PlaceID uint   `json:"place_id" gorm:"index"`
	UserID  uint   `json:"user_id" gorm:"index"`
	Text    string `json:"text" binding:"required"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}
