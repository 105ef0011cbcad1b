package services

import (
	"fmt"
	"strings"

	"github.com/jinzhu/inflection"

	"schemabridge/internal/apperrors"
	"schemabridge/internal/models"
	"schemabridge/internal/utils"
)

// ModelBuilder assembles column definitions into a table model. Building is
// pure; creating the table and registering the model is the schema service's
// job.
type ModelBuilder struct {
	columns *ColumnBuilder
	mode    Mode
}

func NewModelBuilder(columns *ColumnBuilder, mode Mode) *ModelBuilder {
	return &ModelBuilder{columns: columns, mode: mode}
}

// Build resolves every column, applies the table options and collects the
// index set. Table names are kept verbatim unless freeze_table_name is
// explicitly false, in which case the name is pluralized.
func (b *ModelBuilder) Build(schema models.TableSchema) (*models.ModelDefinition, error) {
	if len(schema.Columns) == 0 {
		return nil, &apperrors.SchemaValidationError{
			Table:    schema.TableName,
			Problems: []string{"at least one column is required"},
		}
	}

	opts := models.ModelOptions{
		Timestamps:      schema.Options.Timestamps,
		Paranoid:        schema.Options.Paranoid,
		Underscored:     schema.Options.Underscored,
		FreezeTableName: schema.Options.FreezeTableName == nil || *schema.Options.FreezeTableName,
	}

	tableName := schema.TableName
	if !opts.FreezeTableName {
		tableName = inflection.Plural(tableName)
	}

	model := &models.ModelDefinition{
		TableName:  tableName,
		Attributes: make(map[string]*models.ColumnDefinition, len(schema.Columns)),
		Options:    opts,
	}

	var autoIndexCols []string
	for _, col := range schema.Columns {
		if opts.Underscored {
			col.Name = utils.ToSnakeCase(col.Name)
		}
		if _, exists := model.Attributes[col.Name]; exists {
			return nil, &apperrors.SchemaValidationError{
				Table:    schema.TableName,
				Problems: []string{fmt.Sprintf("duplicate column name: %q", col.Name)},
			}
		}

		def, err := b.columns.Build(col)
		if err != nil {
			return nil, err
		}
		model.Attributes[def.Name] = def
		model.ColumnOrder = append(model.ColumnOrder, def.Name)

		if col.Index && !col.PrimaryKey && !col.Unique {
			autoIndexCols = append(autoIndexCols, def.Name)
		}
	}

	if opts.Timestamps {
		b.addManagedColumn(model, "created_at", false)
		b.addManagedColumn(model, "updated_at", false)
	}
	if opts.Paranoid {
		b.addManagedColumn(model, "deleted_at", true)
	}

	model.Indexes = buildIndexes(tableName, schema.Indexes, autoIndexCols)

	return model, nil
}

// addManagedColumn appends a timestamp column maintained by the service
// (created_at/updated_at/deleted_at) unless the schema already declares it.
func (b *ModelBuilder) addManagedColumn(model *models.ModelDefinition, name string, nullable bool) {
	if _, exists := model.Attributes[name]; exists {
		return
	}
	concrete, _ := b.columns.mapper.Resolve("datetime")
	def := &models.ColumnDefinition{
		Name:        name,
		LogicalType: concrete.Logical,
		SQLType:     concrete.Render(0, 0, nil),
		Nullable:    nullable,
	}
	if !nullable {
		literal := "CURRENT_TIMESTAMP"
		def.Default = &literal
		def.DefaultLiteral = true
	}
	model.Attributes[name] = def
	model.ColumnOrder = append(model.ColumnOrder, name)
}

// buildIndexes combines explicit indexes with one auto-generated index per
// column flagged index: true that is not already covered by a primary key or
// unique constraint.
func buildIndexes(tableName string, explicit []models.IndexSchema, autoCols []string) []models.IndexDefinition {
	var indexes []models.IndexDefinition
	seen := make(map[string]bool)

	for _, idx := range explicit {
		name := idx.Name
		if name == "" {
			name = fmt.Sprintf("idx_%s_%s", tableName, strings.Join(idx.Columns, "_"))
		}
		if seen[name] {
			continue
		}
		seen[name] = true
		indexes = append(indexes, models.IndexDefinition{
			Name:    name,
			Columns: idx.Columns,
			Unique:  idx.Unique,
		})
	}

	for _, col := range autoCols {
		name := fmt.Sprintf("idx_%s_%s", tableName, col)
		if seen[name] {
			continue
		}
		seen[name] = true
		indexes = append(indexes, models.IndexDefinition{
			Name:    name,
			Columns: []string{col},
		})
	}

	return indexes
}
