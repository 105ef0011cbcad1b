package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"schemabridge/internal/apperrors"
	"schemabridge/internal/database"
	"schemabridge/internal/responses"
	"schemabridge/internal/services"
)

// resolveSession parses the :id connection parameter and opens (or reuses)
// the session for it. On failure it writes the error response and returns
// false.
func resolveSession(c *gin.Context, conns *services.ConnectionService) (*database.Session, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		responses.Fail(c, http.StatusBadRequest, err, "Invalid connection ID format")
		return nil, false
	}
	sess, err := conns.Session(c.Request.Context(), id)
	if err != nil {
		responses.Fail(c, http.StatusInternalServerError, err, "Failed to open connection session")
		return nil, false
	}
	return sess, true
}

// statusForError maps domain errors onto HTTP status codes.
func statusForError(err error) int {
	var (
		conflict    *apperrors.ConflictError
		notFound    *apperrors.ModelNotFoundError
		badSchema   *apperrors.SchemaValidationError
		badRelation *apperrors.RelationValidationError
		badRelType  *apperrors.UnknownRelationTypeError
		badType     *apperrors.UnsupportedTypeError
	)
	switch {
	case errors.As(err, &conflict):
		return http.StatusConflict
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &badSchema), errors.As(err, &badRelation),
		errors.As(err, &badRelType), errors.As(err, &badType):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func requestMode(c *gin.Context) services.Mode {
	return services.ParseMode(c.DefaultQuery("mode", "strict"))
}
