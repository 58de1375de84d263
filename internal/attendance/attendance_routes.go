package attendance

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	attendances := r.Group("/attendances")
	{
		attendances.POST("/imports", h.Upload)
		attendances.POST("/imports/folder", h.ImportFolder)
	}
}
