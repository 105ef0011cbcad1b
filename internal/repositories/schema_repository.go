package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"schemabridge/internal/database"
)

// ErrFKIntrospectionUnsupported is returned when a dialect cannot report
// foreign key metadata. Callers degrade gracefully instead of failing.
var ErrFKIntrospectionUnsupported = errors.New("foreign key introspection not supported for this dialect")

// NativeColumn is one column as described by the database's own metadata.
type NativeColumn struct {
	Name          string
	NativeType    string
	Nullable      bool
	Default       *string
	PrimaryKey    bool
	AutoIncrement bool
}

// NativeForeignKey is one live foreign key constraint.
type NativeForeignKey struct {
	ConstraintName string
	Column         string
	RefTable       string
	RefColumn      string
}

// SchemaRepository reads live schema metadata from target databases.
type SchemaRepository struct{}

func NewSchemaRepository() *SchemaRepository {
	return &SchemaRepository{}
}

// ListTables returns all base table names in the target database.
func (r *SchemaRepository) ListTables(ctx context.Context, sess *database.Session) ([]string, error) {
	var query string
	switch sess.Dialect {
	case database.Postgres:
		query = `
			SELECT table_name
			FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_type = 'BASE TABLE'
			ORDER BY table_name
		`
	case database.MySQL:
		query = `
			SELECT table_name
			FROM information_schema.tables
			WHERE table_schema = DATABASE()
			AND table_type = 'BASE TABLE'
			ORDER BY table_name
		`
	case database.SQLite:
		query = `
			SELECT name
			FROM sqlite_master
			WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
			ORDER BY name
		`
	case database.MSSQL:
		query = `
			SELECT table_name
			FROM INFORMATION_SCHEMA.TABLES
			WHERE TABLE_TYPE = 'BASE TABLE'
			ORDER BY table_name
		`
	default:
		return nil, fmt.Errorf("unsupported dialect: %q", sess.Dialect)
	}

	rows, err := sess.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// TableExists reports whether the named table exists in the target database.
func (r *SchemaRepository) TableExists(ctx context.Context, sess *database.Session, table string) (bool, error) {
	tables, err := r.ListTables(ctx, sess)
	if err != nil {
		return false, err
	}
	for _, t := range tables {
		if t == table {
			return true, nil
		}
	}
	return false, nil
}

// DescribeTable returns the table's columns via the dialect's native
// metadata facility.
func (r *SchemaRepository) DescribeTable(ctx context.Context, sess *database.Session, table string) ([]NativeColumn, error) {
	switch sess.Dialect {
	case database.Postgres:
		return r.describePostgres(ctx, sess, table)
	case database.MySQL:
		return r.describeMySQL(ctx, sess, table)
	case database.SQLite:
		return r.describeSQLite(ctx, sess, table)
	case database.MSSQL:
		return r.describeMSSQL(ctx, sess, table)
	}
	return nil, fmt.Errorf("unsupported dialect: %q", sess.Dialect)
}

func (r *SchemaRepository) describePostgres(ctx context.Context, sess *database.Session, table string) ([]NativeColumn, error) {
	query := `
		SELECT
			c.column_name,
			c.data_type,
			c.is_nullable = 'YES',
			c.column_default,
			c.is_identity = 'YES',
			COALESCE(pk.is_pk, false)
		FROM information_schema.columns c
		LEFT JOIN (
			SELECT DISTINCT kcu.table_name, kcu.column_name, true AS is_pk
			FROM information_schema.table_constraints tc
			JOIN information_schema.key_column_usage kcu
				ON tc.constraint_name = kcu.constraint_name
				AND tc.table_schema = kcu.table_schema
			WHERE tc.constraint_type = 'PRIMARY KEY'
				AND tc.table_schema = 'public'
		) pk ON c.table_name = pk.table_name AND c.column_name = pk.column_name
		WHERE c.table_schema = 'public' AND c.table_name = $1
		ORDER BY c.ordinal_position
	`

	rows, err := sess.DB.QueryContext(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("failed to describe table %q: %w", table, err)
	}
	defer rows.Close()

	var cols []NativeColumn
	for rows.Next() {
		var col NativeColumn
		var identity bool
		if err := rows.Scan(&col.Name, &col.NativeType, &col.Nullable, &col.Default, &identity, &col.PrimaryKey); err != nil {
			return nil, err
		}
		col.AutoIncrement = identity || hasAutoIncrementDefault(col.Default)
		cols = append(cols, col)
	}
	return cols, rows.Err()
}

func (r *SchemaRepository) describeMySQL(ctx context.Context, sess *database.Session, table string) ([]NativeColumn, error) {
	query := `
		SELECT COLUMN_NAME, COLUMN_TYPE, IS_NULLABLE, COLUMN_DEFAULT, COLUMN_KEY, EXTRA
		FROM information_schema.COLUMNS
		WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?
		ORDER BY ORDINAL_POSITION
	`

	rows, err := sess.DB.QueryContext(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("failed to describe table %q: %w", table, err)
	}
	defer rows.Close()

	var cols []NativeColumn
	for rows.Next() {
		var col NativeColumn
		var nullable, key, extra string
		if err := rows.Scan(&col.Name, &col.NativeType, &nullable, &col.Default, &key, &extra); err != nil {
			return nil, err
		}
		col.Nullable = nullable == "YES"
		col.PrimaryKey = key == "PRI"
		col.AutoIncrement = strings.Contains(strings.ToLower(extra), "auto_increment")
		cols = append(cols, col)
	}
	return cols, rows.Err()
}

func (r *SchemaRepository) describeSQLite(ctx context.Context, sess *database.Session, table string) ([]NativeColumn, error) {
	if !database.IsValidIdentifier(table) {
		return nil, fmt.Errorf("invalid table name: %q", table)
	}

	rows, err := sess.DB.QueryContext(ctx, fmt.Sprintf(`PRAGMA table_info(%q)`, table))
	if err != nil {
		return nil, fmt.Errorf("failed to describe table %q: %w", table, err)
	}
	defer rows.Close()

	var cols []NativeColumn
	for rows.Next() {
		var (
			cid     int
			notNull int
			pk      int
			col     NativeColumn
		)
		if err := rows.Scan(&cid, &col.Name, &col.NativeType, &notNull, &col.Default, &pk); err != nil {
			return nil, err
		}
		col.Nullable = notNull == 0
		col.PrimaryKey = pk > 0
		// SQLite rowid aliasing: a lone INTEGER PRIMARY KEY auto-increments.
		col.AutoIncrement = col.PrimaryKey && strings.EqualFold(col.NativeType, "INTEGER")
		cols = append(cols, col)
	}
	return cols, rows.Err()
}

func (r *SchemaRepository) describeMSSQL(ctx context.Context, sess *database.Session, table string) ([]NativeColumn, error) {
	query := `
		SELECT
			c.COLUMN_NAME,
			c.DATA_TYPE,
			c.IS_NULLABLE,
			c.COLUMN_DEFAULT,
			COLUMNPROPERTY(OBJECT_ID(c.TABLE_NAME), c.COLUMN_NAME, 'IsIdentity'),
			CASE WHEN pk.COLUMN_NAME IS NULL THEN 0 ELSE 1 END
		FROM INFORMATION_SCHEMA.COLUMNS c
		LEFT JOIN (
			SELECT kcu.TABLE_NAME, kcu.COLUMN_NAME
			FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc
			JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE kcu
				ON tc.CONSTRAINT_NAME = kcu.CONSTRAINT_NAME
			WHERE tc.CONSTRAINT_TYPE = 'PRIMARY KEY'
		) pk ON c.TABLE_NAME = pk.TABLE_NAME AND c.COLUMN_NAME = pk.COLUMN_NAME
		WHERE c.TABLE_NAME = @p1
		ORDER BY c.ORDINAL_POSITION
	`

	rows, err := sess.DB.QueryContext(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("failed to describe table %q: %w", table, err)
	}
	defer rows.Close()

	var cols []NativeColumn
	for rows.Next() {
		var (
			col      NativeColumn
			nullable string
			identity sql.NullInt64
			isPK     int
		)
		if err := rows.Scan(&col.Name, &col.NativeType, &nullable, &col.Default, &identity, &isPK); err != nil {
			return nil, err
		}
		col.Nullable = nullable == "YES"
		col.PrimaryKey = isPK == 1
		col.AutoIncrement = identity.Valid && identity.Int64 == 1
		cols = append(cols, col)
	}
	return cols, rows.Err()
}

// ListForeignKeys returns the table's live foreign key constraints.
func (r *SchemaRepository) ListForeignKeys(ctx context.Context, sess *database.Session, table string) ([]NativeForeignKey, error) {
	switch sess.Dialect {
	case database.Postgres:
		return r.foreignKeysPostgres(ctx, sess, table)
	case database.MySQL:
		return r.foreignKeysMySQL(ctx, sess, table)
	case database.SQLite:
		return r.foreignKeysSQLite(ctx, sess, table)
	case database.MSSQL:
		return r.foreignKeysMSSQL(ctx, sess, table)
	}
	return nil, ErrFKIntrospectionUnsupported
}

func (r *SchemaRepository) foreignKeysPostgres(ctx context.Context, sess *database.Session, table string) ([]NativeForeignKey, error) {
	query := `
		SELECT
			tc.constraint_name,
			kcu.column_name,
			ccu.table_name AS foreign_table_name,
			ccu.column_name AS foreign_column_name
		FROM information_schema.table_constraints AS tc
		JOIN information_schema.key_column_usage AS kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		JOIN information_schema.constraint_column_usage AS ccu
			ON ccu.constraint_name = tc.constraint_name
			AND ccu.table_schema = tc.table_schema
		WHERE tc.constraint_type = 'FOREIGN KEY'
			AND tc.table_schema = 'public'
			AND tc.table_name = $1
	`
	return r.scanForeignKeys(ctx, sess, query, table)
}

func (r *SchemaRepository) foreignKeysMySQL(ctx context.Context, sess *database.Session, table string) ([]NativeForeignKey, error) {
	query := `
		SELECT CONSTRAINT_NAME, COLUMN_NAME, REFERENCED_TABLE_NAME, REFERENCED_COLUMN_NAME
		FROM information_schema.KEY_COLUMN_USAGE
		WHERE TABLE_SCHEMA = DATABASE()
			AND TABLE_NAME = ?
			AND REFERENCED_TABLE_NAME IS NOT NULL
	`
	return r.scanForeignKeys(ctx, sess, query, table)
}

func (r *SchemaRepository) foreignKeysSQLite(ctx context.Context, sess *database.Session, table string) ([]NativeForeignKey, error) {
	if !database.IsValidIdentifier(table) {
		return nil, fmt.Errorf("invalid table name: %q", table)
	}

	rows, err := sess.DB.QueryContext(ctx, fmt.Sprintf(`PRAGMA foreign_key_list(%q)`, table))
	if err != nil {
		return nil, fmt.Errorf("failed to list foreign keys for %q: %w", table, err)
	}
	defer rows.Close()

	var fks []NativeForeignKey
	for rows.Next() {
		var (
			id, seq            int
			onUpdate, onDelete string
			match              string
			fk                 NativeForeignKey
			refColumn          sql.NullString
		)
		if err := rows.Scan(&id, &seq, &fk.RefTable, &fk.Column, &refColumn, &onUpdate, &onDelete, &match); err != nil {
			return nil, err
		}
		fk.ConstraintName = fmt.Sprintf("fk_%s_%d", table, id)
		if refColumn.Valid {
			fk.RefColumn = refColumn.String
		}
		fks = append(fks, fk)
	}
	return fks, rows.Err()
}

func (r *SchemaRepository) foreignKeysMSSQL(ctx context.Context, sess *database.Session, table string) ([]NativeForeignKey, error) {
	query := `
		SELECT
			fk.name,
			pc.name,
			rt.name,
			rc.name
		FROM sys.foreign_keys fk
		JOIN sys.foreign_key_columns fkc ON fk.object_id = fkc.constraint_object_id
		JOIN sys.tables pt ON fkc.parent_object_id = pt.object_id
		JOIN sys.columns pc ON fkc.parent_object_id = pc.object_id AND fkc.parent_column_id = pc.column_id
		JOIN sys.tables rt ON fkc.referenced_object_id = rt.object_id
		JOIN sys.columns rc ON fkc.referenced_object_id = rc.object_id AND fkc.referenced_column_id = rc.column_id
		WHERE pt.name = @p1
	`
	return r.scanForeignKeys(ctx, sess, query, table)
}

func (r *SchemaRepository) scanForeignKeys(ctx context.Context, sess *database.Session, query, table string) ([]NativeForeignKey, error) {
	rows, err := sess.DB.QueryContext(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("failed to list foreign keys for %q: %w", table, err)
	}
	defer rows.Close()

	var fks []NativeForeignKey
	for rows.Next() {
		var fk NativeForeignKey
		if err := rows.Scan(&fk.ConstraintName, &fk.Column, &fk.RefTable, &fk.RefColumn); err != nil {
			return nil, err
		}
		fks = append(fks, fk)
	}
	return fks, rows.Err()
}

// hasAutoIncrementDefault detects serial-style defaults such as
// nextval('users_id_seq').
func hasAutoIncrementDefault(def *string) bool {
	if def == nil {
		return false
	}
	lower := strings.ToLower(*def)
	return strings.Contains(lower, "nextval") || strings.Contains(lower, "auto_increment")
}
