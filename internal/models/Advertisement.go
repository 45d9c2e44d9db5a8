package models

import (
	"time"

	"gorm.io/gorm"
)

// Advertisement is a promotional banner managed from the admin
// dashboard. Only active ads inside their date window are served
// to the app.
type Advertisement struct {
	gorm.Model
	Title    string `json:"title" binding:"required"`
	Body     string `json:"body"`
	ImageURL string `json:"image_url"`
	LinkURL  string `json:"link_url"`
	Active   bool   `json:"active" gorm:"default:true"`

	StartsAt *time.Time `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`
}
