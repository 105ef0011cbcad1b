package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"schemabridge/internal/handlers"
)

func RegisterRoutes(
	router *gin.Engine,
	connectionHandler *handlers.ConnectionHandler,
	schemaHandler *handlers.SchemaHandler,
	relationHandler *handlers.RelationHandler,
	discoveryHandler *handlers.DiscoveryHandler,
	recordHandler *handlers.RecordHandler,
) {
	api := router.Group("/api/v1")

	connectionRoutes := NewConnectionRoutes(connectionHandler)
	connectionRoutes.RegisterRoutes(api)

	schemaRoutes := NewSchemaRoutes(schemaHandler)
	schemaRoutes.RegisterRoutes(api)

	relationRoutes := NewRelationRoutes(relationHandler)
	relationRoutes.RegisterRoutes(api)

	discoveryRoutes := NewDiscoveryRoutes(discoveryHandler)
	discoveryRoutes.RegisterRoutes(api)

	recordRoutes := NewRecordRoutes(recordHandler)
	recordRoutes.RegisterRoutes(api)

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})
}
