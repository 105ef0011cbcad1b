package routes

import (
	"github.com/gin-gonic/gin"

	"schemabridge/internal/handlers"
	"schemabridge/internal/middlewares"
)

type RelationRoutes struct {
	handler *handlers.RelationHandler
}

func NewRelationRoutes(handler *handlers.RelationHandler) *RelationRoutes {
	return &RelationRoutes{handler: handler}
}

func (r *RelationRoutes) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/relations/validate", r.handler.Validate)

	conn := router.Group("/connections/:id")
	conn.Use(middlewares.Authenticate)
	{
		conn.POST("/relations", r.handler.Establish)
	}
}
