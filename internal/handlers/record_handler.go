package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"schemabridge/internal/repositories"
	"schemabridge/internal/responses"
	"schemabridge/internal/services"
)

type RecordHandler struct {
	recordService *services.RecordService
	connService   *services.ConnectionService
}

func NewRecordHandler(recordService *services.RecordService, connService *services.ConnectionService) *RecordHandler {
	return &RecordHandler{recordService: recordService, connService: connService}
}

// Create handles POST /api/v1/connections/:id/tables/:table/records
func (h *RecordHandler) Create(c *gin.Context) {
	sess, ok := resolveSession(c, h.connService)
	if !ok {
		return
	}
	var values map[string]any
	if err := c.ShouldBindJSON(&values); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}
	affected, err := h.recordService.Insert(c.Request.Context(), sess, c.Param("table"), values)
	if err != nil {
		responses.Fail(c, statusForError(err), err, "Failed to create record")
		return
	}
	responses.Success(c, http.StatusCreated, gin.H{"affected": affected}, "Record created")
}

// List handles GET /api/v1/connections/:id/tables/:table/records. Equality
// filters arrive as plain query parameters; order, desc, limit and offset
// are reserved names.
func (h *RecordHandler) List(c *gin.Context) {
	sess, ok := resolveSession(c, h.connService)
	if !ok {
		return
	}

	opts := repositories.ListOptions{
		OrderBy: c.Query("order"),
		Filters: map[string]any{},
	}
	opts.Desc, _ = strconv.ParseBool(c.Query("desc"))
	opts.Limit, _ = strconv.Atoi(c.Query("limit"))
	opts.Offset, _ = strconv.Atoi(c.Query("offset"))

	for key, vals := range c.Request.URL.Query() {
		switch key {
		case "order", "desc", "limit", "offset":
			continue
		}
		if len(vals) > 0 {
			opts.Filters[key] = vals[0]
		}
	}

	rows, err := h.recordService.List(c.Request.Context(), sess, c.Param("table"), opts)
	if err != nil {
		responses.Fail(c, statusForError(err), err, "Failed to list records")
		return
	}
	responses.Success(c, http.StatusOK, rows, "")
}

// Get handles GET /api/v1/connections/:id/tables/:table/records/:recordId
func (h *RecordHandler) Get(c *gin.Context) {
	sess, ok := resolveSession(c, h.connService)
	if !ok {
		return
	}
	row, err := h.recordService.Get(c.Request.Context(), sess, c.Param("table"), c.Param("recordId"))
	if err != nil {
		responses.Fail(c, statusForError(err), err, "Failed to fetch record")
		return
	}
	if row == nil {
		responses.Fail(c, http.StatusNotFound, nil, "Record not found")
		return
	}
	responses.Success(c, http.StatusOK, row, "")
}

// Update handles PUT /api/v1/connections/:id/tables/:table/records/:recordId
func (h *RecordHandler) Update(c *gin.Context) {
	sess, ok := resolveSession(c, h.connService)
	if !ok {
		return
	}
	var values map[string]any
	if err := c.ShouldBindJSON(&values); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}
	affected, err := h.recordService.Update(c.Request.Context(), sess, c.Param("table"), c.Param("recordId"), values)
	if err != nil {
		responses.Fail(c, statusForError(err), err, "Failed to update record")
		return
	}
	if affected == 0 {
		responses.Fail(c, http.StatusNotFound, nil, "Record not found")
		return
	}
	responses.Success(c, http.StatusOK, gin.H{"affected": affected}, "Record updated")
}

// Delete handles DELETE /api/v1/connections/:id/tables/:table/records/:recordId
func (h *RecordHandler) Delete(c *gin.Context) {
	sess, ok := resolveSession(c, h.connService)
	if !ok {
		return
	}
	affected, err := h.recordService.Delete(c.Request.Context(), sess, c.Param("table"), c.Param("recordId"))
	if err != nil {
		responses.Fail(c, statusForError(err), err, "Failed to delete record")
		return
	}
	if affected == 0 {
		responses.Fail(c, http.StatusNotFound, nil, "Record not found")
		return
	}
	responses.Success(c, http.StatusOK, gin.H{"affected": affected}, "Record deleted")
}
