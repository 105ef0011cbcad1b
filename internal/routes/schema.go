package routes

import (
	"github.com/gin-gonic/gin"

	"schemabridge/internal/handlers"
	"schemabridge/internal/middlewares"
)

type SchemaRoutes struct {
	handler *handlers.SchemaHandler
}

func NewSchemaRoutes(handler *handlers.SchemaHandler) *SchemaRoutes {
	return &SchemaRoutes{handler: handler}
}

func (r *SchemaRoutes) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/types", r.handler.Types)
	router.POST("/schemas/validate", r.handler.Validate)

	conn := router.Group("/connections/:id")
	conn.Use(middlewares.Authenticate)
	{
		conn.POST("/schemas", r.handler.Convert)
		conn.GET("/models", r.handler.ListModels)
		conn.GET("/tables", r.handler.ListTables)
		conn.DELETE("/tables/:table", r.handler.DropTable)
	}
}
