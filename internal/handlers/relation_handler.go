package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"schemabridge/internal/models"
	"schemabridge/internal/responses"
	"schemabridge/internal/services"
)

type RelationHandler struct {
	relationService *services.RelationService
	connService     *services.ConnectionService
}

func NewRelationHandler(relationService *services.RelationService, connService *services.ConnectionService) *RelationHandler {
	return &RelationHandler{relationService: relationService, connService: connService}
}

type relationBatch struct {
	Schemas []models.TableSchema `json:"schemas" binding:"required"`
}

// Validate handles POST /api/v1/relations/validate. Pure batch check, no
// models are registered.
func (h *RelationHandler) Validate(c *gin.Context) {
	var batch relationBatch
	if err := c.ShouldBindJSON(&batch); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}
	result := h.relationService.ValidateRelations(batch.Schemas)
	responses.Success(c, http.StatusOK, result, "")
}

// Establish handles POST /api/v1/connections/:id/relations. Registers every
// model in the batch and attaches the declared associations.
func (h *RelationHandler) Establish(c *gin.Context) {
	sess, ok := resolveSession(c, h.connService)
	if !ok {
		return
	}

	var batch relationBatch
	if err := c.ShouldBindJSON(&batch); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	statuses, err := h.relationService.EstablishRelations(sess, batch.Schemas, requestMode(c))
	if err != nil {
		responses.Fail(c, statusForError(err), err, "Failed to establish relations")
		return
	}
	responses.Success(c, http.StatusOK, statuses, "Relations established")
}
