package routes

import (
	"ruta_cafe/internal/controllers"
	"ruta_cafe/internal/middleware"
	"ruta_cafe/internal/models"

	"github.com/gin-gonic/gin"
)

func PlaceRoutes(r *gin.Engine) {
	lugares := r.Group("/lugares")
	lugares.Use(middleware.OptionalAuth())
	{
		lugares.GET("", controllers.ListPlaces)
		lugares.GET("/:id", controllers.GetPlace)
		lugares.GET("/:id/comentarios", controllers.ListComments)
		lugares.GET("/:id/likes", controllers.CountLikes)
	}

	submit := r.Group("/lugares")
	submit.Use(middleware.RequireRole(models.RoleTechnician))
	{
		submit.POST("", controllers.CreatePlace)
	}

	edit := r.Group("/lugares")
	edit.Use(middleware.RequireAuth())
	{
		edit.PUT("/:id", controllers.UpdatePlace)
		edit.DELETE("/:id", controllers.DeletePlace)
	}
}
