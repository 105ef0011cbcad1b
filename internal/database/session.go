package database

import (
	"database/sql"

	"github.com/google/uuid"

	"schemabridge/internal/models"
)

// Session is one live connection to a target database together with its model
// registry. The registry is created when the session opens and cleared when it
// closes; it is the only schema state the engine keeps between requests.
type Session struct {
	ID       uuid.UUID
	Dialect  Dialect
	DB       *sql.DB
	Registry *models.ModelRegistry
}

// NewSession wraps an open database handle in a session with a fresh registry.
func NewSession(id uuid.UUID, dialect Dialect, db *sql.DB) *Session {
	return &Session{
		ID:       id,
		Dialect:  dialect,
		DB:       db,
		Registry: models.NewModelRegistry(),
	}
}

// Close clears the registry and closes the underlying handle.
func (s *Session) Close() error {
	s.Registry.Reset()
	return s.DB.Close()
}
