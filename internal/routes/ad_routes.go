package routes

import (
	"ruta_cafe/internal/controllers"

	"github.com/gin-gonic/gin"
)

func AdRoutes(r *gin.Engine) {
	// The app only ever sees currently active banners.
	r.GET("/publicidad", controllers.ListActiveAds)
}
