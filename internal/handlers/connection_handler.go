package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"schemabridge/internal/responses"
	"schemabridge/internal/services"
)

type ConnectionHandler struct {
	connService *services.ConnectionService
}

func NewConnectionHandler(connService *services.ConnectionService) *ConnectionHandler {
	return &ConnectionHandler{connService: connService}
}

// Register handles POST /api/v1/connections
func (h *ConnectionHandler) Register(c *gin.Context) {
	var req services.RegisterConnectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid request body")
		return
	}

	conn, err := h.connService.Register(req)
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Failed to register connection")
		return
	}
	responses.Success(c, http.StatusCreated, conn, "Connection registered successfully")
}

// List handles GET /api/v1/connections
func (h *ConnectionHandler) List(c *gin.Context) {
	conns, err := h.connService.List()
	if err != nil {
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to list connections")
		return
	}
	responses.Success(c, http.StatusOK, conns, "")
}

// Get handles GET /api/v1/connections/:id
func (h *ConnectionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid connection ID format")
		return
	}
	conn, err := h.connService.Get(id)
	if err != nil {
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to fetch connection")
		return
	}
	if conn == nil {
		responses.Fail(c, http.StatusNotFound, nil, "Connection not found")
		return
	}
	responses.Success(c, http.StatusOK, conn, "")
}

// Disconnect handles DELETE /api/v1/connections/:id
func (h *ConnectionHandler) Disconnect(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid connection ID format")
		return
	}
	if err := h.connService.Disconnect(c.Request.Context(), id); err != nil {
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to disconnect")
		return
	}
	responses.Success(c, http.StatusOK, nil, "Connection removed")
}
