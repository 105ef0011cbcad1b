package services

import (
	"strings"

	"schemabridge/internal/models"
)

// ColumnBuilder turns one column declaration into a resolved definition.
// It is a pure transformation; nothing here touches the database.
type ColumnBuilder struct {
	mapper *TypeMapper
}

func NewColumnBuilder(mapper *TypeMapper) *ColumnBuilder {
	return &ColumnBuilder{mapper: mapper}
}

// Build resolves the column's concrete type and assembles the definition.
// Columns are nullable unless nullable is explicitly false. Type-implied
// format validators (email/url/ip) are merged with explicit validate rules;
// explicit rules win on key collision.
func (b *ColumnBuilder) Build(col models.Column) (*models.ColumnDefinition, error) {
	concrete, err := b.mapper.Resolve(col.Type)
	if err != nil {
		return nil, err
	}

	def := &models.ColumnDefinition{
		Name:          col.Name,
		LogicalType:   concrete.Logical,
		SQLType:       concrete.Render(col.Length, col.Precision, col.Scale),
		PrimaryKey:    col.PrimaryKey,
		Nullable:      col.Nullable == nil || *col.Nullable,
		Unique:        col.Unique,
		AutoIncrement: col.AutoIncrement,
		Comment:       col.Comment,
		ForeignKey:    col.ForeignKey,
	}

	if col.PrimaryKey {
		def.Nullable = false
	}
	if concrete.HasLength {
		def.Length = col.Length
	}
	if concrete.HasScale {
		def.Precision = col.Precision
		def.Scale = col.Scale
	}

	if col.DefaultValue != nil {
		def.Default = col.DefaultValue
		def.DefaultLiteral = isSQLExpression(*col.DefaultValue)
	}

	validators := make(map[string]string)
	if concrete.Format != "" {
		validators[concrete.Format] = formatPatterns[concrete.Format]
	}
	for key, rule := range col.Validate {
		validators[key] = rule
	}
	if len(validators) > 0 {
		def.Validators = validators
	}

	return def, nil
}

// isSQLExpression reports whether a default value is a SQL expression that
// must be emitted unquoted rather than as a string constant.
func isSQLExpression(v string) bool {
	upper := strings.ToUpper(strings.TrimSpace(v))
	if strings.HasPrefix(upper, "CURRENT_") {
		return true
	}
	switch upper {
	case "NOW()", "GETDATE()", "GEN_RANDOM_UUID()", "UUID()", "NULL", "TRUE", "FALSE":
		return true
	}
	return false
}
