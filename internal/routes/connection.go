package routes

import (
	"github.com/gin-gonic/gin"

	"schemabridge/internal/handlers"
	"schemabridge/internal/middlewares"
)

type ConnectionRoutes struct {
	handler *handlers.ConnectionHandler
}

func NewConnectionRoutes(handler *handlers.ConnectionHandler) *ConnectionRoutes {
	return &ConnectionRoutes{handler: handler}
}

func (r *ConnectionRoutes) RegisterRoutes(router *gin.RouterGroup) {
	conns := router.Group("/connections")
	conns.Use(middlewares.Authenticate)
	{
		conns.POST("", r.handler.Register)
		conns.GET("", r.handler.List)
		conns.GET("/:id", r.handler.Get)
		conns.DELETE("/:id", r.handler.Disconnect)
	}
}
