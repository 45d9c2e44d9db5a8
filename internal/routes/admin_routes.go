package routes

import (
	"ruta_cafe/internal/controllers"
	"ruta_cafe/internal/middleware"
	"ruta_cafe/internal/models"

	"github.com/gin-gonic/gin"
)

func AdminRoutes(r *gin.Engine) {
	admin := r.Group("/admin")
	admin.Use(middleware.RequireRole(models.RoleAdministrator))
	{
		// Moderation: approve or reject submitted routes and places.
		admin.PUT("/rutas/:id/estado", controllers.TransitionRoute)
		admin.PUT("/lugares/:id/estado", controllers.TransitionPlace)

		// Account management for the dashboard.
		admin.GET("/usuarios", controllers.ListUsers)
		admin.PUT("/usuarios/:id/rol", controllers.UpdateUserRole)
		admin.DELETE("/usuarios/:id", controllers.DeleteUser)

		// Advertising inventory.
		admin.GET("/publicidad", controllers.ListAllAds)
		admin.POST("/publicidad", controllers.CreateAd)
		admin.PUT("/publicidad/:id", controllers.UpdateAd)
		admin.DELETE("/publicidad/:id", controllers.DeleteAd)

		admin.GET("/estadisticas", controllers.Statistics)
	}
}
