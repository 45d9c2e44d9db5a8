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
	"ruta_cafe/internal/moderation"
)

// PlaceResponse mirrors models.Place. Phone is omitted when the viewer
// is not allowed to see contact details (rejected place, non-admin).
type PlaceResponse struct {
	ID               uint          `json:"ID"`
	CreatedAt        time.Time     `json:"CreatedAt"`
	UpdatedAt        time.Time     `json:"UpdatedAt"`
	Name             string        `json:"name"`
	Description      string        `json:"description"`
	Lat              float64       `json:"lat"`
	Lng              float64       `json:"lng"`
	Address          string        `json:"address"`
	Phone            string        `json:"phone,omitempty"`
	Schedule         string        `json:"schedule"`
	ImageURL         string        `json:"image_url"`
	Status           models.Status `json:"status"`
	CreatedBy        uint          `json:"created_by"`
	RejectionComment string        `json:"rejection_comment,omitempty"`
	RouteID          *uint         `json:"route_id,omitempty"`
	LikeCount        int           `json:"like_count"`
}

func toPlaceResponse(place models.Place, actor moderation.Actor) PlaceResponse {
	resp := PlaceResponse{
		ID:               place.ID,
		CreatedAt:        place.CreatedAt,
		UpdatedAt:        place.UpdatedAt,
		Name:             place.Name,
		Description:      place.Description,
		Lat:              place.Lat,
		Lng:              place.Lng,
		Address:          place.Address,
		Schedule:         place.Schedule,
		ImageURL:         place.ImageURL,
		Status:           place.Status,
		CreatedBy:        place.CreatedBy,
		RejectionComment: place.RejectionComment,
		RouteID:          place.RouteID,
		LikeCount:        len(place.Likes),
	}
	if moderation.CanViewContact(place.Status, actor) {
		resp.Phone = place.Phone
	}
	return resp
}

// CreatePlace lets a technician submit a new place. The pending gate is
// independent from the route gate: a pending route does not block a new
// place.
func CreatePlace(c *gin.Context) {
	var input struct {
		Name        string  `json:"name" binding:"required"`
		Description string  `json:"description"`
		Lat         float64 `json:"lat"`
		Lng         float64 `json:"lng"`
		Address     string  `json:"address"`
		Phone       string  `json:"phone"`
		Schedule    string  `json:"schedule"`
		ImageURL    string  `json:"image_url"`
		RouteID     *uint   `json:"route_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("CreatePlace: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	actor := viewer(c)

	var existing []models.Place
	if err := config.DB.Where("created_by = ?", actor.ID).Find(&existing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		return
	}
	if !moderation.CanCreate(existing, actor.ID) {
		writeModerationError(c, moderation.ErrPendingExists)
		return
	}

	if input.RouteID != nil {
		var route models.Route
		if err := config.DB.First(&route, *input.RouteID).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "route_id does not exist"})
			return
		}
	}

	place := models.Place{
		Name:        input.Name,
		Description: input.Description,
		Lat:         input.Lat,
		Lng:         input.Lng,
		Address:     input.Address,
		Phone:       input.Phone,
		Schedule:    input.Schedule,
		ImageURL:    input.ImageURL,
		RouteID:     input.RouteID,
		Status:      models.StatusPending,
		CreatedBy:   actor.ID,
	}
	if err := config.DB.Create(&place).Error; err != nil {
		logrus.WithError(err).Error("CreatePlace: create failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create place failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"place": toPlaceResponse(place, actor)})
}

// ListPlaces returns the places the caller may see, most recent first.
func ListPlaces(c *gin.Context) {
	var places []models.Place
	if err := config.DB.Preload("Likes").Order("created_at DESC").Find(&places).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		return
	}

	actor := viewer(c)
	visible := moderation.Visible(places, actor)
	placeResponses := make([]PlaceResponse, 0, len(visible))
	for _, p := range visible {
		placeResponses = append(placeResponses, toPlaceResponse(p, actor))
	}
	c.JSON(http.StatusOK, gin.H{"places": placeResponses})
}

// GetPlace returns a single place, subject to visibility rules.
func GetPlace(c *gin.Context) {
	pID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid place ID"})
		return
	}

	var place models.Place
	if err := config.DB.Preload("Likes").First(&place, pID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Place not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	actor := viewer(c)
	if !moderation.CanView(place, actor) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Place not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"place": toPlaceResponse(place, actor)})
}

// UpdatePlace edits content fields. A rejected place stays editable for
// its creator so it can be fixed, but the status itself never moves here.
func UpdatePlace(c *gin.Context) {
	pID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid place ID"})
		return
	}

	var existingPlace models.Place
	if err := config.DB.First(&existingPlace, pID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Place not found"})
		} else {
			logrus.WithError(err).Error("UpdatePlace: Database error fetching place")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	actor := viewer(c)
	if !moderation.CanEdit(existingPlace, actor) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the creator or an administrator can edit this place"})
		return
	}

	var input struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Lat         *float64 `json:"lat"`
		Lng         *float64 `json:"lng"`
		Address     *string  `json:"address"`
		Phone       *string  `json:"phone"`
		Schedule    *string  `json:"schedule"`
		ImageURL    *string  `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("UpdatePlace: Invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if input.Name != nil {
		existingPlace.Name = *input.Name
	}
	if input.Description != nil {
		existingPlace.Description = *input.Description
	}
	if input.Lat != nil {
		existingPlace.Lat = *input.Lat
	}
	if input.Lng != nil {
		existingPlace.Lng = *input.Lng
	}
	if input.Address != nil {
		existingPlace.Address = *input.Address
	}
	if input.Phone != nil {
		existingPlace.Phone = *input.Phone
	}
	if input.Schedule != nil {
		existingPlace.Schedule = *input.Schedule
	}
	if input.ImageURL != nil {
		existingPlace.ImageURL = *input.ImageURL
	}

	if err := config.DB.Save(&existingPlace).Error; err != nil {
		logrus.WithError(err).Error("UpdatePlace: Failed to save updated place")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"place": toPlaceResponse(existingPlace, actor)})
}

// TransitionPlace is the admin approve/reject endpoint for places.
func TransitionPlace(c *gin.Context) {
	pID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid place ID"})
		return
	}

	var input transitionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var place models.Place
	if err := config.DB.First(&place, pID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeModerationError(c, moderation.ErrNotFound)
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	actor := viewer(c)
	decision, err := moderation.Authorize(models.Status(input.Estado), input.Comentario, actor)
	if err != nil {
		writeModerationError(c, err)
		return
	}

	place.Status = decision.Status
	place.RejectionComment = decision.RejectionComment
	if err := config.DB.Model(&place).Updates(map[string]interface{}{
		"status":            place.Status,
		"rejection_comment": place.RejectionComment,
	}).Error; err != nil {
		logrus.WithError(err).Error("TransitionPlace: update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transition failed: " + err.Error()})
		return
	}

	logrus.WithFields(logrus.Fields{
		"place_id": place.ID,
		"status":   place.Status,
	}).Info("place status changed")
	c.JSON(http.StatusOK, gin.H{"place": toPlaceResponse(place, actor)})
}

// DeletePlace removes a place permanently, creator or admin only.
func DeletePlace(c *gin.Context) {
	pID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid place ID"})
		return
	}

	var place models.Place
	if err := config.DB.First(&place, pID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Place not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	if !moderation.CanEdit(place, viewer(c)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the creator or an administrator can delete this place"})
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}

	for _, dep := range []interface{}{&models.Comment{}, &models.Like{}, &models.Favorite{}} {
		if err := tx.Unscoped().Where("place_id = ?", place.ID).Delete(dep).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete place data: " + err.Error()})
			return
		}
	}

	if err := tx.Unscoped().Delete(&place).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete place: " + err.Error()})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction commit failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Place deleted successfully"})
}
