package repositories

import (
	"context"
	"fmt"
	"strings"

	"schemabridge/internal/database"
	"schemabridge/internal/models"
)

// TableRepository executes DDL against target databases. All identifiers are
// validated and quoted before interpolation.
type TableRepository struct{}

func NewTableRepository() *TableRepository {
	return &TableRepository{}
}

// CreateTable creates the model's table and its indexes.
func (r *TableRepository) CreateTable(ctx context.Context, sess *database.Session, model *models.ModelDefinition) error {
	stmt, err := RenderCreateTable(sess.Dialect, model)
	if err != nil {
		return err
	}

	if _, err := sess.DB.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to create table %q: %w", model.TableName, err)
	}

	for _, idx := range model.Indexes {
		idxStmt, err := RenderCreateIndex(sess.Dialect, model.TableName, idx)
		if err != nil {
			return err
		}
		if _, err := sess.DB.ExecContext(ctx, idxStmt); err != nil {
			return fmt.Errorf("failed to create index %q: %w", idx.Name, err)
		}
	}

	return nil
}

// DropTable drops the table.
func (r *TableRepository) DropTable(ctx context.Context, sess *database.Session, table string) error {
	if !database.IsValidIdentifier(table) {
		return fmt.Errorf("invalid table name: %q", table)
	}

	stmt := "DROP TABLE " + database.QuoteIdentifier(sess.Dialect, table)
	if sess.Dialect == database.Postgres {
		stmt += " CASCADE"
	}

	if _, err := sess.DB.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("failed to drop table %q: %w", table, err)
	}
	return nil
}

// RenderCreateTable renders a dialect-correct CREATE TABLE statement.
func RenderCreateTable(d database.Dialect, model *models.ModelDefinition) (string, error) {
	if !database.IsValidIdentifier(model.TableName) {
		return "", fmt.Errorf("invalid table name: %q", model.TableName)
	}

	var pkCols []string
	for _, name := range model.ColumnOrder {
		if model.Attributes[name].PrimaryKey {
			pkCols = append(pkCols, name)
		}
	}

	// SQLite auto-increment only works as an inline INTEGER PRIMARY KEY.
	inlinePK := len(pkCols) == 1 &&
		d == database.SQLite && model.Attributes[pkCols[0]].AutoIncrement

	var defs []string
	for _, name := range model.ColumnOrder {
		def := model.Attributes[name]
		if !database.IsValidIdentifier(def.Name) {
			return "", fmt.Errorf("invalid column name: %q", def.Name)
		}
		defs = append(defs, renderColumn(d, def, inlinePK))
	}

	if len(pkCols) > 0 && !inlinePK {
		quoted := make([]string, len(pkCols))
		for i, col := range pkCols {
			quoted[i] = database.QuoteIdentifier(d, col)
		}
		defs = append(defs, fmt.Sprintf("  PRIMARY KEY (%s)", strings.Join(quoted, ", ")))
	}

	for _, name := range model.ColumnOrder {
		def := model.Attributes[name]
		if def.ForeignKey == nil {
			continue
		}
		fk := def.ForeignKey
		if !database.IsValidIdentifier(fk.Table) || !database.IsValidIdentifier(fk.Column) {
			return "", fmt.Errorf("invalid foreign key reference on column %q", def.Name)
		}
		clause := fmt.Sprintf("  FOREIGN KEY (%s) REFERENCES %s(%s)",
			database.QuoteIdentifier(d, def.Name),
			database.QuoteIdentifier(d, fk.Table),
			database.QuoteIdentifier(d, fk.Column),
		)
		if fk.OnDelete != "" {
			clause += " ON DELETE " + fk.OnDelete
		}
		if fk.OnUpdate != "" {
			clause += " ON UPDATE " + fk.OnUpdate
		}
		defs = append(defs, clause)
	}

	return fmt.Sprintf("CREATE TABLE %s (\n%s\n)",
		database.QuoteIdentifier(d, model.TableName),
		strings.Join(defs, ",\n"),
	), nil
}

func renderColumn(d database.Dialect, def *models.ColumnDefinition, inlinePK bool) string {
	if d == database.SQLite && def.AutoIncrement && def.PrimaryKey && inlinePK {
		return fmt.Sprintf("  %s INTEGER PRIMARY KEY AUTOINCREMENT", database.QuoteIdentifier(d, def.Name))
	}

	col := fmt.Sprintf("  %s %s", database.QuoteIdentifier(d, def.Name), def.SQLType)

	if def.AutoIncrement {
		switch d {
		case database.Postgres:
			col += " GENERATED ALWAYS AS IDENTITY"
		case database.MySQL:
			col += " AUTO_INCREMENT"
		case database.MSSQL:
			col += " IDENTITY(1,1)"
		}
	}

	if def.Unique {
		col += " UNIQUE"
	}
	if !def.Nullable {
		col += " NOT NULL"
	}
	if def.Default != nil {
		if def.DefaultLiteral {
			col += " DEFAULT " + *def.Default
		} else {
			col += fmt.Sprintf(" DEFAULT '%s'", strings.ReplaceAll(*def.Default, "'", "''"))
		}
	}
	if def.Comment != "" && d == database.MySQL {
		col += fmt.Sprintf(" COMMENT '%s'", strings.ReplaceAll(def.Comment, "'", "''"))
	}

	return col
}

// RenderCreateIndex renders a CREATE INDEX statement.
func RenderCreateIndex(d database.Dialect, table string, idx models.IndexDefinition) (string, error) {
	if !database.IsValidIdentifier(idx.Name) {
		return "", fmt.Errorf("invalid index name: %q", idx.Name)
	}

	quoted := make([]string, len(idx.Columns))
	for i, col := range idx.Columns {
		if !database.IsValidIdentifier(col) {
			return "", fmt.Errorf("invalid index column: %q", col)
		}
		quoted[i] = database.QuoteIdentifier(d, col)
	}

	unique := ""
	if idx.Unique {
		unique = "UNIQUE "
	}

	return fmt.Sprintf("CREATE %sINDEX %s ON %s (%s)",
		unique,
		database.QuoteIdentifier(d, idx.Name),
		database.QuoteIdentifier(d, table),
		strings.Join(quoted, ", "),
	), nil
}
