package services

import (
	"context"
	"fmt"
	"regexp"

	"schemabridge/internal/apperrors"
	"schemabridge/internal/database"
	"schemabridge/internal/models"
	"schemabridge/internal/repositories"
)

// RecordService runs CRUD against model-backed tables. Every column named in
// a payload, filter or ordering is checked against the registered model, so
// nothing reaches SQL text that the model does not declare.
type RecordService struct {
	records *repositories.RecordRepository
}

func NewRecordService(records *repositories.RecordRepository) *RecordService {
	return &RecordService{records: records}
}

func (s *RecordService) model(sess *database.Session, table string) (*models.ModelDefinition, error) {
	model := sess.Registry.Get(table)
	if model == nil {
		return nil, &apperrors.ModelNotFoundError{Table: table}
	}
	return model, nil
}

// Insert validates the payload against the model and inserts one row.
func (s *RecordService) Insert(ctx context.Context, sess *database.Session, table string, values map[string]any) (int64, error) {
	model, err := s.model(sess, table)
	if err != nil {
		return 0, err
	}
	if err := s.checkPayload(model, values); err != nil {
		return 0, err
	}
	return s.records.Insert(ctx, sess, model.TableName, values)
}

// List returns rows with optional equality filters, ordering and paging.
func (s *RecordService) List(ctx context.Context, sess *database.Session, table string, opts repositories.ListOptions) ([]map[string]any, error) {
	model, err := s.model(sess, table)
	if err != nil {
		return nil, err
	}
	for col := range opts.Filters {
		if model.Attribute(col) == nil {
			return nil, fmt.Errorf("unknown filter column %q on table %q", col, table)
		}
	}
	if opts.OrderBy != "" && model.Attribute(opts.OrderBy) == nil {
		return nil, fmt.Errorf("unknown order column %q on table %q", opts.OrderBy, table)
	}
	return s.records.Select(ctx, sess, model.TableName, model.ColumnOrder, opts)
}

// Get fetches a single row by primary key.
func (s *RecordService) Get(ctx context.Context, sess *database.Session, table string, id any) (map[string]any, error) {
	model, err := s.model(sess, table)
	if err != nil {
		return nil, err
	}
	pk := model.PrimaryKey()
	if pk == "" {
		return nil, fmt.Errorf("table %q has no primary key", table)
	}
	rows, err := s.records.Select(ctx, sess, model.TableName, model.ColumnOrder, repositories.ListOptions{
		Filters: map[string]any{pk: id},
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// Update changes one row by primary key and reports affected rows.
func (s *RecordService) Update(ctx context.Context, sess *database.Session, table string, id any, values map[string]any) (int64, error) {
	model, err := s.model(sess, table)
	if err != nil {
		return 0, err
	}
	pk := model.PrimaryKey()
	if pk == "" {
		return 0, fmt.Errorf("table %q has no primary key", table)
	}
	if err := s.checkPayload(model, values); err != nil {
		return 0, err
	}
	delete(values, pk)
	if len(values) == 0 {
		return 0, fmt.Errorf("no updatable columns in payload")
	}
	return s.records.Update(ctx, sess, model.TableName, values, pk, id)
}

// Delete removes one row by primary key and reports affected rows.
func (s *RecordService) Delete(ctx context.Context, sess *database.Session, table string, id any) (int64, error) {
	model, err := s.model(sess, table)
	if err != nil {
		return 0, err
	}
	pk := model.PrimaryKey()
	if pk == "" {
		return 0, fmt.Errorf("table %q has no primary key", table)
	}
	return s.records.Delete(ctx, sess, model.TableName, pk, id)
}

// checkPayload rejects columns the model does not declare and applies the
// model's format validators to string values.
func (s *RecordService) checkPayload(model *models.ModelDefinition, values map[string]any) error {
	for col, val := range values {
		attr := model.Attribute(col)
		if attr == nil {
			return fmt.Errorf("unknown column %q on table %q", col, model.TableName)
		}
		str, ok := val.(string)
		if !ok {
			continue
		}
		for name, pattern := range attr.Validators {
			matched, err := regexp.MatchString(pattern, str)
			if err != nil {
				return fmt.Errorf("invalid validator %q on column %q: %w", name, col, err)
			}
			if !matched {
				return fmt.Errorf("column %q failed %s validation", col, name)
			}
		}
	}
	return nil
}
