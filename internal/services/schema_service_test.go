package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"schemabridge/internal/apperrors"
	"schemabridge/internal/models"
	"schemabridge/internal/repositories"
)

func newTestSchemaService() *SchemaService {
	return NewSchemaService(
		repositories.NewSchemaRepository(),
		repositories.NewTableRepository(),
		nil,
		testLogger(),
	)
}

func TestValidateSchemaStructural(t *testing.T) {
	svc := newTestSchemaService()

	tests := []struct {
		name    string
		schema  models.TableSchema
		mode    Mode
		valid   bool
		wantErr string
	}{
		{
			name:    "missing table name",
			schema:  models.TableSchema{Columns: []models.Column{{Name: "id", Type: "integer", PrimaryKey: true}}},
			mode:    ModeStrict,
			wantErr: "table_name is required",
		},
		{
			name:    "no columns",
			schema:  models.TableSchema{TableName: "empty"},
			mode:    ModeStrict,
			wantErr: "at least one column",
		},
		{
			name: "duplicate columns",
			schema: models.TableSchema{
				TableName: "dups",
				Columns: []models.Column{
					{Name: "x", Type: "integer", PrimaryKey: true},
					{Name: "x", Type: "string"},
				},
			},
			mode:    ModeStrict,
			wantErr: "duplicate column name",
		},
		{
			name: "strict unknown type",
			schema: models.TableSchema{
				TableName: "t",
				Columns:   []models.Column{{Name: "id", Type: "hyperloglog", PrimaryKey: true}},
			},
			mode:    ModeStrict,
			wantErr: "unsupported type",
		},
		{
			name: "strict missing primary key",
			schema: models.TableSchema{
				TableName: "t",
				Columns:   []models.Column{{Name: "name", Type: "string"}},
			},
			mode:    ModeStrict,
			wantErr: "primary_key",
		},
		{
			name: "lenient tolerates unknown type and missing pk",
			schema: models.TableSchema{
				TableName: "t",
				Columns:   []models.Column{{Name: "blob", Type: "hyperloglog"}},
			},
			mode:  ModeLenient,
			valid: true,
		},
		{
			name: "valid strict schema",
			schema: models.TableSchema{
				TableName: "users",
				Columns: []models.Column{
					{Name: "id", Type: "integer", PrimaryKey: true},
					{Name: "email", Type: "email"},
				},
			},
			mode:  ModeStrict,
			valid: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := svc.ValidateSchema(tt.schema, tt.mode)
			if result.Valid != tt.valid {
				t.Fatalf("Valid = %v, errors = %v", result.Valid, result.Errors)
			}
			if tt.wantErr != "" {
				found := false
				for _, e := range result.Errors {
					if strings.Contains(e, tt.wantErr) {
						found = true
					}
				}
				if !found {
					t.Errorf("errors %v should mention %q", result.Errors, tt.wantErr)
				}
			}
		})
	}
}

func TestConvertToModelSync(t *testing.T) {
	sess := newSQLiteSession(t)
	svc := newTestSchemaService()
	ctx := context.Background()

	schema := models.TableSchema{
		TableName: "users",
		Columns: []models.Column{
			{Name: "id", Type: "integer", PrimaryKey: true, AutoIncrement: true},
			{Name: "email", Type: "email", Unique: true, Nullable: boolPtr(false)},
		},
	}

	model, err := svc.ConvertToModel(ctx, sess, schema, ModeStrict, true)
	if err != nil {
		t.Fatal(err)
	}
	if !sess.Registry.Has("users") {
		t.Fatal("model should be registered")
	}
	if model.Attribute("email").SQLType != "VARCHAR(255)" {
		t.Errorf("email SQLType = %q", model.Attribute("email").SQLType)
	}

	exists, err := repositories.NewSchemaRepository().TableExists(ctx, sess, "users")
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Fatal("sync should create the live table")
	}

	// Creating again must conflict and leave the registry untouched.
	_, err = svc.ConvertToModel(ctx, sess, schema, ModeStrict, true)
	var conflict *apperrors.ConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("error = %v, want ConflictError", err)
	}
}

func TestConvertToModelNoSync(t *testing.T) {
	sess := newSQLiteSession(t)
	svc := newTestSchemaService()
	ctx := context.Background()

	schema := models.TableSchema{
		TableName: "drafts",
		Columns:   []models.Column{{Name: "id", Type: "integer", PrimaryKey: true}},
	}
	if _, err := svc.ConvertToModel(ctx, sess, schema, ModeStrict, false); err != nil {
		t.Fatal(err)
	}

	exists, err := repositories.NewSchemaRepository().TableExists(ctx, sess, "drafts")
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Error("without sync no table should be created")
	}
	if !sess.Registry.Has("drafts") {
		t.Error("model should still be registered")
	}
}

func TestDropTable(t *testing.T) {
	sess := newSQLiteSession(t)
	svc := newTestSchemaService()
	ctx := context.Background()

	schema := models.TableSchema{
		TableName: "tmp",
		Columns:   []models.Column{{Name: "id", Type: "integer", PrimaryKey: true}},
	}
	if _, err := svc.ConvertToModel(ctx, sess, schema, ModeStrict, true); err != nil {
		t.Fatal(err)
	}
	if err := svc.DropTable(ctx, sess, "tmp"); err != nil {
		t.Fatal(err)
	}
	if sess.Registry.Has("tmp") {
		t.Error("drop should remove the registered model")
	}
	exists, err := repositories.NewSchemaRepository().TableExists(ctx, sess, "tmp")
	if err != nil {
		t.Fatal(err)
	}
	if exists {
		t.Error("table should be gone")
	}
}
