package leave

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, mw ...gin.HandlerFunc) {
	leaves := r.Group("/leaves")
	leaves.Use(mw...)
	{
		leaves.POST("/sync", handler.Sync)
	}
}
