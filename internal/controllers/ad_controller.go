package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"ruta_cafe/internal/config"
	"ruta_cafe/internal/models"
)

// ListActiveAds serves the banners the app should currently show:
// active flag set and today inside the optional date window.
func ListActiveAds(c *gin.Context) {
	now := time.Now()

	var ads []models.Advertisement
	err := config.DB.
		Where("active = ?", true).
		Where("starts_at IS NULL OR starts_at <= ?", now).
		Where("ends_at IS NULL OR ends_at >= ?", now).
		Order("created_at DESC").
		Find(&ads).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ads": ads})
}

// ListAllAds gives the admin dashboard the full inventory, inactive and
// expired included.
func ListAllAds(c *gin.Context) {
	var ads []models.Advertisement
	if err := config.DB.Order("created_at DESC").Find(&ads).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ads": ads})
}

// CreateAd registers a new advertisement (admin only, enforced by the
// route group).
func CreateAd(c *gin.Context) {
	var input struct {
		Title    string     `json:"title" binding:"required"`
		Body     string     `json:"body"`
		ImageURL string     `json:"image_url"`
		LinkURL  string     `json:"link_url"`
		Active   *bool      `json:"active"`
		StartsAt *time.Time `json:"starts_at"`
		EndsAt   *time.Time `json:"ends_at"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ad := models.Advertisement{
		Title:    input.Title,
		Body:     input.Body,
		ImageURL: input.ImageURL,
		LinkURL:  input.LinkURL,
		Active:   true,
		StartsAt: input.StartsAt,
		EndsAt:   input.EndsAt,
	}
	if input.Active != nil {
		ad.Active = *input.Active
	}

	if err := config.DB.Create(&ad).Error; err != nil {
		logrus.WithError(err).Error("CreateAd: create failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create ad failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"ad": ad})
}

// UpdateAd edits an advertisement.
func UpdateAd(c *gin.Context) {
	aID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ad ID"})
		return
	}

	var ad models.Advertisement
	if err := config.DB.First(&ad, aID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Ad not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	var input struct {
		Title    *string    `json:"title"`
		Body     *string    `json:"body"`
		ImageURL *string    `json:"image_url"`
		LinkURL  *string    `json:"link_url"`
		Active   *bool      `json:"active"`
		StartsAt *time.Time `json:"starts_at"`
		EndsAt   *time.Time `json:"ends_at"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Title != nil {
		ad.Title = *input.Title
	}
	if input.Body != nil {
		ad.Body = *input.Body
	}
	if input.ImageURL != nil {
		ad.ImageURL = *input.ImageURL
	}
	if input.LinkURL != nil {
		ad.LinkURL = *input.LinkURL
	}
	if input.Active != nil {
		ad.Active = *input.Active
	}
	if input.StartsAt != nil {
		ad.StartsAt = input.StartsAt
	}
	if input.EndsAt != nil {
		ad.EndsAt = input.EndsAt
	}

	if err := config.DB.Save(&ad).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ad": ad})
}

// DeleteAd removes an advertisement permanently.
func DeleteAd(c *gin.Context) {
	aID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ad ID"})
		return
	}

	res := config.DB.Unscoped().Delete(&models.Advertisement{}, aID)
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete ad: " + res.Error.Error()})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Ad not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Ad deleted successfully"})
}
