package controllers

import (
	"encoding/binary"
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

	"github.com/twpayne/go-geom"
	gjson "github.com/twpayne/go-geom/encoding/geojson"
	"github.com/twpayne/go-geom/encoding/wkb"
)

// RouteResponse mirrors models.Route but carries Geometry as a GeoJSON
// string for API output.
type RouteResponse struct {
	ID               uint            `json:"ID"`
	CreatedAt        time.Time       `json:"CreatedAt"`
	UpdatedAt        time.Time       `json:"UpdatedAt"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	Schedule         string          `json:"schedule"`
	ImageURL         string          `json:"image_url"`
	Status           models.Status   `json:"status"`
	CreatedBy        uint            `json:"created_by"`
	RejectionComment string          `json:"rejection_comment,omitempty"`
	Geometry         string          `json:"geometry"`
	Places           []PlaceResponse `json:"places,omitempty"`
}

// toRouteResponse serializes a route for the given viewer. The nested
// places go through the same visibility filter and contact masking as
// the place endpoints; an approved route must not smuggle out its
// pending or rejected places.
func toRouteResponse(route models.Route, actor moderation.Actor) RouteResponse {
	jsonGeom, _ := convertWKBToGeoJSON(route.Geometry)

	visiblePlaces := moderation.Visible(route.Places, actor)
	places := make([]PlaceResponse, 0, len(visiblePlaces))
	for _, p := range visiblePlaces {
		places = append(places, toPlaceResponse(p, actor))
	}

	return RouteResponse{
		ID:               route.ID,
		CreatedAt:        route.CreatedAt,
		UpdatedAt:        route.UpdatedAt,
		Name:             route.Name,
		Description:      route.Description,
		Schedule:         route.Schedule,
		ImageURL:         route.ImageURL,
		Status:           route.Status,
		CreatedBy:        route.CreatedBy,
		RejectionComment: route.RejectionComment,
		Geometry:         jsonGeom,
		Places:           places,
	}
}

// parseAndConvertGeometry parses a GeoJSON string into a geom.T and returns WKB bytes
func parseAndConvertGeometry(raw string) ([]byte, error) {
	if raw == "" {
		return nil, nil
	}
	var g geom.T
	err := gjson.Unmarshal([]byte(raw), &g)
	if err != nil {
		return nil, err
	}
	return wkb.Marshal(g, binary.LittleEndian)
}

// convertWKBToGeoJSON converts WKB bytes into a GeoJSON string
func convertWKBToGeoJSON(wkbBytes []byte) (string, error) {
	if len(wkbBytes) == 0 {
		return "", nil
	}
	g, err := wkb.Unmarshal(wkbBytes)
	if err != nil {
		return "", err
	}
	b, err := gjson.Marshal(g)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CreateRoute lets a technician submit a new route. It enters the
// moderation queue as "pendiente"; a second submission is refused while
// one is still pending.
func CreateRoute(c *gin.Context) {
	var input struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		Schedule    string `json:"schedule"`
		ImageURL    string `json:"image_url"`
		Geometry    string `json:"geometry"` // GeoJSON LineString
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("CreateRoute: invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
		return
	}

	actor := viewer(c)

	// Server-side pending gate: the app disables the button, but direct
	// API calls must hit the same wall.
	var existing []models.Route
	if err := config.DB.Where("created_by = ?", actor.ID).Find(&existing).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		return
	}
	if !moderation.CanCreate(existing, actor.ID) {
		writeModerationError(c, moderation.ErrPendingExists)
		return
	}

	wkbGeom, err := parseAndConvertGeometry(input.Geometry)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid geometry: " + err.Error()})
		return
	}

	route := models.Route{
		Name:        input.Name,
		Description: input.Description,
		Schedule:    input.Schedule,
		ImageURL:    input.ImageURL,
		Geometry:    wkbGeom,
		Status:      models.StatusPending,
		CreatedBy:   actor.ID,
	}
	if err := config.DB.Create(&route).Error; err != nil {
		logrus.WithError(err).Error("CreateRoute: create failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Create route failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"route": toRouteResponse(route, actor)})
}

// ListRoutes returns the routes the caller may see, most recent first.
// Visitors and users get approved routes; a technician additionally
// gets their own pending and rejected work; an admin gets everything.
func ListRoutes(c *gin.Context) {
	var routes []models.Route
	if err := config.DB.Preload("Places").Order("created_at DESC").Find(&routes).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		return
	}

	actor := viewer(c)
	visible := moderation.Visible(routes, actor)
	routeResponses := make([]RouteResponse, 0, len(visible))
	for _, r := range visible {
		routeResponses = append(routeResponses, toRouteResponse(r, actor))
	}
	c.JSON(http.StatusOK, gin.H{"routes": routeResponses})
}

// GetRoute returns a single route, subject to the same visibility rules
// as the listing.
func GetRoute(c *gin.Context) {
	rID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid route ID"})
		return
	}

	var route models.Route
	if err := config.DB.Preload("Places").First(&route, rID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	actor := viewer(c)
	if !moderation.CanView(route, actor) {
		// Hidden entities look identical to missing ones.
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"route": toRouteResponse(route, actor)})
}

// UpdateRoute handles editing an existing route. Edits never touch the
// moderation status: a rejected route stays rejected until an admin
// re-reviews it.
func UpdateRoute(c *gin.Context) {
	rID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		logrus.WithError(err).Warn("UpdateRoute: Invalid route ID in parameter")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid route ID"})
		return
	}

	var existingRoute models.Route
	if err := config.DB.First(&existingRoute, rID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		} else {
			logrus.WithError(err).Error("UpdateRoute: Database error fetching route")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	actor := viewer(c)
	if !moderation.CanEdit(existingRoute, actor) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the creator or an administrator can edit this route"})
		return
	}

	var input struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Schedule    *string `json:"schedule"`
		ImageURL    *string `json:"image_url"`
		Geometry    *string `json:"geometry"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		logrus.WithError(err).Warn("UpdateRoute: Invalid input payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := applyRouteUpdates(&existingRoute, &input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := config.DB.Save(&existingRoute).Error; err != nil {
		logrus.WithError(err).Error("UpdateRoute: Failed to save updated route")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"route": toRouteResponse(existingRoute, actor)})
}

// applyRouteUpdates updates the route content fields based on the input.
// Status, created_by and rejection_comment are not reachable from here.
func applyRouteUpdates(route *models.Route, input *struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Schedule    *string `json:"schedule"`
	ImageURL    *string `json:"image_url"`
	Geometry    *string `json:"geometry"`
}) error {
	if input.Name != nil {
		route.Name = *input.Name
	}
	if input.Description != nil {
		route.Description = *input.Description
	}
	if input.Schedule != nil {
		route.Schedule = *input.Schedule
	}
	if input.ImageURL != nil {
		route.ImageURL = *input.ImageURL
	}
	if input.Geometry != nil {
		if *input.Geometry == "" {
			route.Geometry = nil
		} else {
			wkbGeom, err := parseAndConvertGeometry(*input.Geometry)
			if err != nil {
				return errors.New("Invalid geometry: " + err.Error())
			}
			route.Geometry = wkbGeom
		}
	}
	return nil
}

// TransitionRoute is the admin approve/reject endpoint.
func TransitionRoute(c *gin.Context) {
	rID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid route ID"})
		return
	}

	var input transitionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var route models.Route
	if err := config.DB.First(&route, rID).Error; err != nil {
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

	route.Status = decision.Status
	route.RejectionComment = decision.RejectionComment
	if err := config.DB.Model(&route).Updates(map[string]interface{}{
		"status":            route.Status,
		"rejection_comment": route.RejectionComment,
	}).Error; err != nil {
		logrus.WithError(err).Error("TransitionRoute: update failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transition failed: " + err.Error()})
		return
	}

	logrus.WithFields(logrus.Fields{
		"route_id": route.ID,
		"status":   route.Status,
	}).Info("route status changed")
	c.JSON(http.StatusOK, gin.H{"route": toRouteResponse(route, actor)})
}

// DeleteRoute removes a route permanently. Allowed for the creator or
// an administrator; there is no tombstone.
func DeleteRoute(c *gin.Context) {
	rID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid route ID"})
		return
	}

	var route models.Route
	if err := config.DB.First(&route, rID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	if !moderation.CanEdit(route, viewer(c)) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the creator or an administrator can delete this route"})
		return
	}

	if err := config.DB.Unscoped().Delete(&route).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete route: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Route deleted successfully"})
}
