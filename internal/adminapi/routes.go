package adminapi

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/jroosing/hydrarelay/internal/adminapi/docs"
)

// RegisterRoutes mounts the admin surface on r.
func RegisterRoutes(r *gin.Engine, h *Handler) {
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.GET("/healthz", h.Healthz)
	r.GET("/stats", h.Stats)
	r.GET("/hosts", h.Hosts)
}
