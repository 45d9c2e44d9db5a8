package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"ruta_cafe/internal/config"
	"ruta_cafe/internal/models"
)

// ListUsers returns every account for the admin dashboard.
func ListUsers(c *gin.Context) {
	var users []models.User
	if err := config.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error listing users: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": users})
}

// UpdateUserRole lets an admin promote or demote an account, e.g. turn
// a user into a technician.
func UpdateUserRole(c *gin.Context) {
	uID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var input struct {
		Role *int `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	role := models.Role(*input.Role)
	if !role.Valid() || role == models.RoleVisitor {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
		return
	}

	var user models.User
	if err := config.DB.First(&user, uID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	if err := config.DB.Model(&user).Update("role", role).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Update failed: " + err.Error()})
		return
	}

	logrus.WithFields(logrus.Fields{"user_id": user.ID, "role": role}).Info("user role changed")
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// DeleteUser removes an account permanently, along with its comments,
// likes and favorites. The engagement rows are deleted explicitly in
// one transaction so none of them survive as orphans.
func DeleteUser(c *gin.Context) {
	uID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var user models.User
	if err := config.DB.First(&user, uID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start transaction"})
		return
	}

	for _, dep := range []interface{}{&models.Comment{}, &models.Like{}, &models.Favorite{}} {
		if err := tx.Unscoped().Where("user_id = ?", user.ID).Delete(dep).Error; err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user data: " + err.Error()})
			return
		}
	}

	if err := tx.Unscoped().Delete(&user).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user: " + err.Error()})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transaction commit failed: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// Statistics feeds the dashboard overview: per-status counts for routes
// and places plus engagement totals.
func Statistics(c *gin.Context) {
	type statusCounts struct {
		Pending  int64 `json:"pendiente"`
		Approved int64 `json:"aprobada"`
		Rejected int64 `json:"rechazada"`
	}

	countByStatus := func(model interface{}) (statusCounts, error) {
		var sc statusCounts
		pairs := []struct {
			status models.Status
			dst    *int64
		}{
			{models.StatusPending, &sc.Pending},
			{models.StatusApproved, &sc.Approved},
			{models.StatusRejected, &sc.Rejected},
		}
		for _, p := range pairs {
			if err := config.DB.Model(model).Where("status = ?", p.status).Count(p.dst).Error; err != nil {
				return sc, err
			}
		}
		return sc, nil
	}

	routeCounts, err := countByStatus(&models.Route{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		return
	}
	placeCounts, err := countByStatus(&models.Place{})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
		return
	}

	var users, comments, likes int64
	for _, q := range []struct {
		model interface{}
		dst   *int64
	}{
		{&models.User{}, &users},
		{&models.Comment{}, &comments},
		{&models.Like{}, &likes},
	} {
		if err := config.DB.Model(q.model).Count(q.dst).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "database error: " + err.Error()})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"routes":   routeCounts,
		"places":   placeCounts,
		"users":    users,
		"comments": comments,
		"likes":    likes,
	})
}
