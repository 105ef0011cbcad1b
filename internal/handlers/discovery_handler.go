package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"schemabridge/internal/responses"
	"schemabridge/internal/services"
)

type DiscoveryHandler struct {
	discoveryService *services.DiscoveryService
	connService      *services.ConnectionService
}

func NewDiscoveryHandler(discoveryService *services.DiscoveryService, connService *services.ConnectionService) *DiscoveryHandler {
	return &DiscoveryHandler{discoveryService: discoveryService, connService: connService}
}

// Discover handles POST /api/v1/connections/:id/discover. With
// ?associate=true foreign keys are folded into associations. Unless
// ?refresh=true, a cached snapshot from the last pass is returned when
// available.
func (h *DiscoveryHandler) Discover(c *gin.Context) {
	sess, ok := resolveSession(c, h.connService)
	if !ok {
		return
	}

	associate, _ := strconv.ParseBool(c.DefaultQuery("associate", "true"))
	refresh, _ := strconv.ParseBool(c.DefaultQuery("refresh", "false"))

	if !refresh {
		cached, err := h.discoveryService.CachedResult(c.Request.Context(), sess)
		if err == nil && cached != nil {
			responses.Success(c, http.StatusOK, cached, "Discovery served from cache")
			return
		}
	}

	result, err := h.discoveryService.Discover(c.Request.Context(), sess, associate)
	if err != nil {
		responses.Fail(c, statusForError(err), err, "Discovery failed")
		return
	}
	responses.Success(c, http.StatusOK, result, "Discovery completed")
}

// Snapshot handles GET /api/v1/connections/:id/discover. It returns the
// cached result of the last discovery pass without touching the target
// database.
func (h *DiscoveryHandler) Snapshot(c *gin.Context) {
	sess, ok := resolveSession(c, h.connService)
	if !ok {
		return
	}

	cached, err := h.discoveryService.CachedResult(c.Request.Context(), sess)
	if err != nil {
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to read discovery snapshot")
		return
	}
	if cached == nil {
		responses.Fail(c, http.StatusNotFound, nil, "No discovery snapshot for this connection")
		return
	}
	responses.Success(c, http.StatusOK, cached, "Discovery snapshot")
}
