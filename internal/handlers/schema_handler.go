package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"schemabridge/internal/models"
	"schemabridge/internal/responses"
	"schemabridge/internal/services"
)

type SchemaHandler struct {
	schemaService *services.SchemaService
	connService   *services.ConnectionService
}

func NewSchemaHandler(schemaService *services.SchemaService, connService *services.ConnectionService) *SchemaHandler {
	return &SchemaHandler{schemaService: schemaService, connService: connService}
}

// Validate handles POST /api/v1/schemas/validate. Purely structural, no
// database is touched.
func (h *SchemaHandler) Validate(c *gin.Context) {
	var schema models.TableSchema
	if err := c.ShouldBindJSON(&schema); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}
	result := h.schemaService.ValidateSchema(schema, requestMode(c))
	responses.Success(c, http.StatusOK, result, "")
}

// Convert handles POST /api/v1/connections/:id/schemas. With ?sync=true the
// table is also created in the target database.
func (h *SchemaHandler) Convert(c *gin.Context) {
	sess, ok := resolveSession(c, h.connService)
	if !ok {
		return
	}

	var schema models.TableSchema
	if err := c.ShouldBindJSON(&schema); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	sync, _ := strconv.ParseBool(c.DefaultQuery("sync", "false"))
	model, err := h.schemaService.ConvertToModel(c.Request.Context(), sess, schema, requestMode(c), sync)
	if err != nil {
		responses.Fail(c, statusForError(err), err, "Failed to convert schema")
		return
	}
	responses.Success(c, http.StatusCreated, model, "Schema converted successfully")
}

// ListModels handles GET /api/v1/connections/:id/models
func (h *SchemaHandler) ListModels(c *gin.Context) {
	sess, ok := resolveSession(c, h.connService)
	if !ok {
		return
	}
	responses.Success(c, http.StatusOK, sess.Registry.Snapshot(), "")
}

// ListTables handles GET /api/v1/connections/:id/tables
func (h *SchemaHandler) ListTables(c *gin.Context) {
	sess, ok := resolveSession(c, h.connService)
	if !ok {
		return
	}
	tables, err := h.schemaService.ListTables(c.Request.Context(), sess)
	if err != nil {
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to list tables")
		return
	}
	responses.Success(c, http.StatusOK, tables, "")
}

// DropTable handles DELETE /api/v1/connections/:id/tables/:table
func (h *SchemaHandler) DropTable(c *gin.Context) {
	sess, ok := resolveSession(c, h.connService)
	if !ok {
		return
	}
	table := c.Param("table")
	if err := h.schemaService.DropTable(c.Request.Context(), sess, table); err != nil {
		responses.Fail(c, statusForError(err), err, "Failed to drop table")
		return
	}
	responses.Success(c, http.StatusOK, gin.H{"table": table}, "Table dropped")
}

// Types handles GET /api/v1/types
func (h *SchemaHandler) Types(c *gin.Context) {
	responses.Success(c, http.StatusOK, services.AvailableTypes(), "")
}
