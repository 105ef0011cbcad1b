// Package apperrors defines the error taxonomy shared by the schema engine
// and the HTTP layer. Handlers map these types onto status codes with
// errors.As; everything else travels as an ordinary wrapped error.
package apperrors

import (
	"fmt"
	"strings"
)

// UnsupportedTypeError reports a logical column type outside the type table.
type UnsupportedTypeError struct {
	Type string
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("unsupported column type: %q", e.Type)
}

// SchemaValidationError reports structural problems in a single table schema.
type SchemaValidationError struct {
	Table    string
	Problems []string
}

func (e *SchemaValidationError) Error() string {
	return fmt.Sprintf("invalid schema for table %q: %s", e.Table, strings.Join(e.Problems, "; "))
}

// RelationValidationError aggregates every problem found in a relation batch.
// It is always reported whole, never one finding at a time.
type RelationValidationError struct {
	Errors []string
}

func (e *RelationValidationError) Error() string {
	return fmt.Sprintf("relation validation failed: %s", strings.Join(e.Errors, "; "))
}

// UnknownRelationTypeError reports a relation type outside the four kinds.
type UnknownRelationTypeError struct {
	Type  string
	Table string
}

func (e *UnknownRelationTypeError) Error() string {
	return fmt.Sprintf("unknown relation type %q on table %q", e.Type, e.Table)
}

// ModelNotFoundError reports an operation against a table with no registered model.
type ModelNotFoundError struct {
	Table string
}

func (e *ModelNotFoundError) Error() string {
	return fmt.Sprintf("no model registered for table %q", e.Table)
}

// ConflictError reports creation of a table that already exists.
type ConflictError struct {
	Table string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("table %q already exists", e.Table)
}
