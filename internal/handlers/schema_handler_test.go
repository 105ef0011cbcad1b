package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schemabridge/internal/repositories"
	"schemabridge/internal/responses"
	"schemabridge/internal/services"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	log.SetOutput(io.Discard)

	schemaService := services.NewSchemaService(
		repositories.NewSchemaRepository(),
		repositories.NewTableRepository(),
		nil,
		log,
	)
	schemaHandler := NewSchemaHandler(schemaService, nil)
	relationHandler := NewRelationHandler(
		services.NewRelationService(services.NewRelationValidator(), log),
		nil,
	)

	router := gin.New()
	router.GET("/types", schemaHandler.Types)
	router.POST("/schemas/validate", schemaHandler.Validate)
	router.POST("/relations/validate", relationHandler.Validate)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, responses.APIResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp responses.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, resp
}

func TestTypesEndpoint(t *testing.T) {
	router := newTestRouter()
	rec, resp := doJSON(t, router, http.MethodGet, "/types", "")

	require.Equal(t, http.StatusOK, rec.Code)
	types, ok := resp.Data.([]any)
	require.True(t, ok)
	assert.Contains(t, types, "string")
	assert.Contains(t, types, "uuid")
	assert.Contains(t, types, "varchar")
}

func TestValidateSchemaEndpoint(t *testing.T) {
	router := newTestRouter()

	body := `{
		"table_name": "users",
		"columns": [
			{"name": "id", "type": "integer", "primary_key": true},
			{"name": "email", "type": "email"}
		]
	}`
	rec, resp := doJSON(t, router, http.MethodPost, "/schemas/validate?mode=strict", body)
	require.Equal(t, http.StatusOK, rec.Code)

	result, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, result["valid"])
}

func TestValidateSchemaEndpointReportsErrors(t *testing.T) {
	router := newTestRouter()

	body := `{
		"table_name": "users",
		"columns": [
			{"name": "x", "type": "integer"},
			{"name": "x", "type": "hyperloglog"}
		]
	}`
	rec, resp := doJSON(t, router, http.MethodPost, "/schemas/validate?mode=strict", body)
	require.Equal(t, http.StatusOK, rec.Code)

	result, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, result["valid"])
	errs, ok := result["errors"].([]any)
	require.True(t, ok)
	assert.GreaterOrEqual(t, len(errs), 2)
}

func TestValidateSchemaEndpointBadBody(t *testing.T) {
	router := newTestRouter()
	rec, resp := doJSON(t, router, http.MethodPost, "/schemas/validate", `{"columns": []}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", resp.Status)
}

func TestValidateRelationsEndpoint(t *testing.T) {
	router := newTestRouter()

	body := `{
		"schemas": [
			{
				"table_name": "users",
				"columns": [{"name": "id", "type": "integer", "primary_key": true}],
				"relations": [{"type": "hasMany", "target": "ghosts"}]
			}
		]
	}`
	rec, resp := doJSON(t, router, http.MethodPost, "/relations/validate", body)
	require.Equal(t, http.StatusOK, rec.Code)

	result, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, result["valid"])
}
