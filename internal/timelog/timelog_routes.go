package timelog

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, mw ...gin.HandlerFunc) {
	timelogs := r.Group("/timelogs")
	timelogs.Use(mw...)
	{
		timelogs.POST("/sync", handler.Sync)
	}
}
