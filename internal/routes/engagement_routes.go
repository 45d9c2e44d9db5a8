package routes

import (
	"ruta_cafe/internal/controllers"
	"ruta_cafe/internal/middleware"

	"github.com/gin-gonic/gin"
)

// EngagementRoutes wires likes, comments and favorites. Any
// authenticated role may use them; they work even on rejected places.
func EngagementRoutes(r *gin.Engine) {
	social := r.Group("/lugares")
	social.Use(middleware.RequireAuth())
	{
		social.POST("/:id/comentarios", controllers.CreateComment)
		social.POST("/:id/like", controllers.LikePlace)
		social.DELETE("/:id/like", controllers.UnlikePlace)
		social.POST("/:id/favorito", controllers.FavoritePlace)
		social.DELETE("/:id/favorito", controllers.UnfavoritePlace)
	}

	authed := r.Group("")
	authed.Use(middleware.RequireAuth())
	{
		authed.GET("/favoritos", controllers.ListFavorites)
		authed.DELETE("/comentarios/:id", controllers.DeleteComment)
	}
}
