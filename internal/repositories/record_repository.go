package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"schemabridge/internal/database"
)

// RecordRepository runs row-level CRUD against dynamically created tables.
// Column names are expected to be pre-validated against the table's model;
// only values travel as bind parameters.
type RecordRepository struct{}

func NewRecordRepository() *RecordRepository {
	return &RecordRepository{}
}

// ListOptions narrows a record listing.
type ListOptions struct {
	Filters map[string]any
	OrderBy string
	Desc    bool
	Limit   int
	Offset  int
}

// Insert adds one row and returns the number of affected rows.
func (r *RecordRepository) Insert(ctx context.Context, sess *database.Session, table string, values map[string]any) (int64, error) {
	cols := sortedKeys(values)

	quoted := make([]string, len(cols))
	placeholders := make([]string, len(cols))
	args := make([]any, len(cols))
	for i, col := range cols {
		quoted[i] = database.QuoteIdentifier(sess.Dialect, col)
		placeholders[i] = database.Placeholder(sess.Dialect, i+1)
		args[i] = values[col]
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		database.QuoteIdentifier(sess.Dialect, table),
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "),
	)

	result, err := sess.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to insert into %q: %w", table, err)
	}
	return result.RowsAffected()
}

// Select returns rows matching the options as generic maps.
func (r *RecordRepository) Select(ctx context.Context, sess *database.Session, table string, columns []string, opts ListOptions) ([]map[string]any, error) {
	quotedCols := make([]string, len(columns))
	for i, col := range columns {
		quotedCols[i] = database.QuoteIdentifier(sess.Dialect, col)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM %s",
		strings.Join(quotedCols, ", "),
		database.QuoteIdentifier(sess.Dialect, table),
	)

	args := appendWhere(&sb, sess.Dialect, opts.Filters, nil)

	if opts.OrderBy != "" {
		fmt.Fprintf(&sb, " ORDER BY %s", database.QuoteIdentifier(sess.Dialect, opts.OrderBy))
		if opts.Desc {
			sb.WriteString(" DESC")
		}
	}

	if opts.Limit > 0 {
		if sess.Dialect == database.MSSQL {
			// OFFSET/FETCH requires an ORDER BY clause.
			if opts.OrderBy == "" {
				fmt.Fprintf(&sb, " ORDER BY %s", quotedCols[0])
			}
			fmt.Fprintf(&sb, " OFFSET %d ROWS FETCH NEXT %d ROWS ONLY", opts.Offset, opts.Limit)
		} else {
			fmt.Fprintf(&sb, " LIMIT %d", opts.Limit)
			if opts.Offset > 0 {
				fmt.Fprintf(&sb, " OFFSET %d", opts.Offset)
			}
		}
	}

	rows, err := sess.DB.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query %q: %w", table, err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// Update modifies matching rows and returns the number affected.
func (r *RecordRepository) Update(ctx context.Context, sess *database.Session, table string, values map[string]any, pkCol string, pkVal any) (int64, error) {
	cols := sortedKeys(values)

	var sets []string
	var args []any
	for i, col := range cols {
		sets = append(sets, fmt.Sprintf("%s = %s",
			database.QuoteIdentifier(sess.Dialect, col),
			database.Placeholder(sess.Dialect, i+1),
		))
		args = append(args, values[col])
	}

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = %s",
		database.QuoteIdentifier(sess.Dialect, table),
		strings.Join(sets, ", "),
		database.QuoteIdentifier(sess.Dialect, pkCol),
		database.Placeholder(sess.Dialect, len(cols)+1),
	)
	args = append(args, pkVal)

	result, err := sess.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to update %q: %w", table, err)
	}
	return result.RowsAffected()
}

// Delete removes matching rows and returns the number affected.
func (r *RecordRepository) Delete(ctx context.Context, sess *database.Session, table, pkCol string, pkVal any) (int64, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = %s",
		database.QuoteIdentifier(sess.Dialect, table),
		database.QuoteIdentifier(sess.Dialect, pkCol),
		database.Placeholder(sess.Dialect, 1),
	)

	result, err := sess.DB.ExecContext(ctx, query, pkVal)
	if err != nil {
		return 0, fmt.Errorf("failed to delete from %q: %w", table, err)
	}
	return result.RowsAffected()
}

// appendWhere writes an equality WHERE clause and returns the bind args.
func appendWhere(sb *strings.Builder, d database.Dialect, filters map[string]any, args []any) []any {
	if len(filters) == 0 {
		return args
	}

	var conditions []string
	for _, col := range sortedKeys(filters) {
		conditions = append(conditions, fmt.Sprintf("%s = %s",
			database.QuoteIdentifier(d, col),
			database.Placeholder(d, len(args)+1),
		))
		args = append(args, filters[col])
	}
	fmt.Fprintf(sb, " WHERE %s", strings.Join(conditions, " AND "))
	return args
}

// scanRows reads every row into a map keyed by column name.
func scanRows(rows *sql.Rows) ([]map[string]any, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	results := make([]map[string]any, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		results = append(results, row)
	}
	return results, rows.Err()
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
