package models

import (
	"gorm.io/gorm"
)

// Place is a single gastronomic spot (cafetería, finca, restaurante).
// It may belong to a route but can also stand alone.
type Place struct {
	gorm.Model

	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Address     string  `json:"address"`
	Phone       string  `json:"phone"`
	Schedule    string  `json:"schedule"`
	ImageURL    string  `json:"image_url"`

	// Moderation fields, same lifecycle as Route.
	Status           Status `json:"status" gorm:"type:varchar(16);default:'pendiente';index"`
	CreatedBy        uint   `json:"created_by" gorm:"index"`
	RejectionComment string `json:"rejection_comment,omitempty"`

	// Optional: a place can stand alone, so the FK must be NULL (not
	// zero) when absent or the constraint from Route.Places rejects it.
	RouteID *uint `json:"route_id,omitempty" gorm:"index"`

	// Associations
	Comments  []Comment  `gorm:"foreignKey:PlaceID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"comments,omitempty"`
	Likes     []Like     `gorm:"foreignKey:PlaceID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"likes,omitempty"`
	Favorites []Favorite `gorm:"foreignKey:PlaceID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"favorites,omitempty"`
}

// ModerationStatus satisfies the moderation entity contract.
func (p Place) ModerationStatus() Status { return p.Status }

// CreatorID satisfies the moderation entity contract.
func (p Place) CreatorID() uint { return p.CreatedBy }
