package routes

import (
	"ruta_cafe/internal/controllers"
	"ruta_cafe/internal/middleware"
	"ruta_cafe/internal/models"

	"github.com/gin-gonic/gin"
)

func RouteRoutes(r *gin.Engine) {
	// Listings are public but visibility-filtered: the optional token
	// tells the filter who is asking.
	rutas := r.Group("/rutas")
	rutas.Use(middleware.OptionalAuth())
	{
		rutas.GET("", controllers.ListRoutes)
		rutas.GET("/:id", controllers.GetRoute)
	}

	// Submission and editing are technician work.
	authed := r.Group("/rutas")
	authed.Use(middleware.RequireRole(models.RoleTechnician))
	{
		authed.POST("", controllers.CreateRoute)
	}

	edit := r.Group("/rutas")
	edit.Use(middleware.RequireAuth())
	{
		edit.PUT("/:id", controllers.UpdateRoute)
		edit.DELETE("/:id", controllers.DeleteRoute)
	}
}
