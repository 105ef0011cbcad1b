package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"schemabridge/internal/apperrors"
	"schemabridge/internal/database"
	"schemabridge/internal/models"
	"schemabridge/internal/repositories"
)

// ValidationResult is the outcome of a pure validation pass. Errors carry
// every finding so the caller gets the full diagnostic in one round trip.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

func newValidationResult(errs []string) *ValidationResult {
	return &ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

// SchemaService validates table schemas and converts them into registered
// models, optionally creating the table in the target database.
type SchemaService struct {
	schemaRepo *repositories.SchemaRepository
	tableRepo  *repositories.TableRepository
	cache      *repositories.RedisRepository
	log        *logrus.Logger
}

func NewSchemaService(
	schemaRepo *repositories.SchemaRepository,
	tableRepo *repositories.TableRepository,
	cache *repositories.RedisRepository,
	log *logrus.Logger,
) *SchemaService {
	return &SchemaService{
		schemaRepo: schemaRepo,
		tableRepo:  tableRepo,
		cache:      cache,
		log:        log,
	}
}

// ValidateSchema runs the structural checks on one table schema. It is pure:
// nothing is resolved against a live database.
func (s *SchemaService) ValidateSchema(schema models.TableSchema, mode Mode) *ValidationResult {
	var errs []string

	if schema.TableName == "" {
		errs = append(errs, "table_name is required")
	} else if !database.IsValidIdentifier(schema.TableName) {
		errs = append(errs, fmt.Sprintf("invalid table name: %q", schema.TableName))
	}

	if len(schema.Columns) == 0 {
		errs = append(errs, "at least one column is required")
	}

	seen := make(map[string]bool, len(schema.Columns))
	hasPrimaryKey := false
	for i, col := range schema.Columns {
		if col.Name == "" {
			errs = append(errs, fmt.Sprintf("column %d: name is required", i))
			continue
		}
		if col.Type == "" {
			errs = append(errs, fmt.Sprintf("column %q: type is required", col.Name))
		}
		if seen[col.Name] {
			errs = append(errs, fmt.Sprintf("duplicate column name: %q", col.Name))
		}
		seen[col.Name] = true

		if col.PrimaryKey {
			hasPrimaryKey = true
		}
		if mode == ModeStrict && col.Type != "" {
			if _, known := CanonicalLogicalType(col.Type); !known {
				errs = append(errs, fmt.Sprintf("column %q: unsupported type %q", col.Name, col.Type))
			}
		}
	}

	if mode == ModeStrict && len(schema.Columns) > 0 && !hasPrimaryKey {
		errs = append(errs, "at least one primary_key column is required in strict mode")
	}

	return newValidationResult(errs)
}

// ConvertToModel builds the schema's model and registers it on the session.
// With sync set, the table is also created in the target database; converting
// a schema whose table already exists is a ConflictError and nothing is
// registered.
func (s *SchemaService) ConvertToModel(ctx context.Context, sess *database.Session, schema models.TableSchema, mode Mode, sync bool) (*models.ModelDefinition, error) {
	if result := s.ValidateSchema(schema, mode); !result.Valid {
		return nil, &apperrors.SchemaValidationError{Table: schema.TableName, Problems: result.Errors}
	}

	builder := NewModelBuilder(NewColumnBuilder(NewTypeMapper(sess.Dialect, mode)), mode)
	model, err := builder.Build(schema)
	if err != nil {
		return nil, err
	}

	if sync {
		exists, err := s.schemaRepo.TableExists(ctx, sess, model.TableName)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, &apperrors.ConflictError{Table: model.TableName}
		}
		if err := s.tableRepo.CreateTable(ctx, sess, model); err != nil {
			return nil, err
		}
		s.invalidateSnapshot(ctx, sess)
		s.log.WithFields(logrus.Fields{
			"table":   model.TableName,
			"dialect": sess.Dialect,
		}).Info("table created")
	}

	sess.Registry.Register(model)
	return model, nil
}

// ListTables returns the live table names of the target database.
func (s *SchemaService) ListTables(ctx context.Context, sess *database.Session) ([]string, error) {
	return s.schemaRepo.ListTables(ctx, sess)
}

// DropTable drops the table and removes its model from the registry.
func (s *SchemaService) DropTable(ctx context.Context, sess *database.Session, table string) error {
	if err := s.tableRepo.DropTable(ctx, sess, table); err != nil {
		return err
	}
	sess.Registry.Remove(table)
	s.invalidateSnapshot(ctx, sess)
	return nil
}

func (s *SchemaService) invalidateSnapshot(ctx context.Context, sess *database.Session) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateSnapshot(ctx, sess.ID); err != nil {
		s.log.WithError(err).Warn("failed to invalidate discovery snapshot")
	}
}
