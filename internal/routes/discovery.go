package routes

import (
	"github.com/gin-gonic/gin"

	"schemabridge/internal/handlers"
	"schemabridge/internal/middlewares"
)

type DiscoveryRoutes struct {
	handler *handlers.DiscoveryHandler
}

func NewDiscoveryRoutes(handler *handlers.DiscoveryHandler) *DiscoveryRoutes {
	return &DiscoveryRoutes{handler: handler}
}

func (r *DiscoveryRoutes) RegisterRoutes(router *gin.RouterGroup) {
	conn := router.Group("/connections/:id")
	conn.Use(middlewares.Authenticate)
	{
		conn.POST("/discover", r.handler.Discover)
		conn.GET("/discover", r.handler.Snapshot)
	}
}
