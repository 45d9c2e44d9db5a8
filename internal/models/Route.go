package models

import (
	"gorm.io/gorm"
)

// Route represents a gastronomic route: an ordered path of places to visit.
// Submitted by a technician, reviewed by an administrator.
type Route struct {
	gorm.Model

	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Schedule    string `json:"schedule"`
	ImageURL    string `json:"image_url"`

	// Moderation fields. Status starts at "pendiente" and only an
	// administrator moves it; CreatedBy never changes after creation.
	Status           Status `json:"status" gorm:"type:varchar(16);default:'pendiente';index"`
	CreatedBy        uint   `json:"created_by" gorm:"index"`
	RejectionComment string `json:"rejection_comment,omitempty"`

	// Geometry stored as a LINESTRING (SRID 4326)
	// When creating, provide GeoJSON; stored as WKB bytes.
	Geometry []byte `gorm:"type:bytea" json:"-"`

	// Associations
	Places []Place `gorm:"foreignKey:RouteID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"places,omitempty"`
}

// ModerationStatus satisfies the moderation entity contract.
func (r Route) ModerationStatus() Status { return r.Status }

// CreatorID satisfies the moderation entity contract.
func (r Route) CreatorID() uint { return r.CreatedBy }
