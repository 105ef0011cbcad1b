package routes

import (
	"github.com/gin-gonic/gin"

	"schemabridge/internal/handlers"
	"schemabridge/internal/middlewares"
)

type RecordRoutes struct {
	handler *handlers.RecordHandler
}

func NewRecordRoutes(handler *handlers.RecordHandler) *RecordRoutes {
	return &RecordRoutes{handler: handler}
}

func (r *RecordRoutes) RegisterRoutes(router *gin.RouterGroup) {
	records := router.Group("/connections/:id/tables/:table/records")
	records.Use(middlewares.Authenticate)
	{
		records.POST("", r.handler.Create)
		records.GET("", r.handler.List)
		records.GET("/:recordId", r.handler.Get)
		records.PUT("/:recordId", r.handler.Update)
		records.DELETE("/:recordId", r.handler.Delete)
	}
}
