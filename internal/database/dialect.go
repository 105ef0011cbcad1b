package database

import (
	"database/sql"
	"fmt"
	"net/url"
	"regexp"
	"time"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/microsoft/go-mssqldb"
	_ "modernc.org/sqlite"
)

// Dialect identifies a target database engine.
type Dialect string

const (
	Postgres Dialect = "postgres"
	MySQL    Dialect = "mysql"
	SQLite   Dialect = "sqlite"
	MSSQL    Dialect = "mssql"
)

// ParseDialect validates a dialect name from a request.
func ParseDialect(s string) (Dialect, error) {
	switch Dialect(s) {
	case Postgres, MySQL, SQLite, MSSQL:
		return Dialect(s), nil
	}
	return "", fmt.Errorf("unsupported dialect: %q", s)
}

// TargetConfig holds everything needed to open a target database.
type TargetConfig struct {
	Dialect  Dialect
	Host     string
	Port     int
	Username string
	Password string
	Database string
	FilePath string // sqlite only
}

// OpenTarget opens a *sql.DB for the target database described by cfg.
// The connection is pooled but not pinged; callers ping with their own context.
func OpenTarget(cfg TargetConfig) (*sql.DB, error) {
	var driver, dsn string

	switch cfg.Dialect {
	case Postgres:
		userInfo := url.UserPassword(cfg.Username, cfg.Password)
		driver = "pgx"
		dsn = fmt.Sprintf("postgres://%s@%s:%d/%s?sslmode=disable",
			userInfo.String(), cfg.Host, cfg.Port, url.PathEscape(cfg.Database))
	case MySQL:
		driver = "mysql"
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
			cfg.Username, cfg.Password, cfg.Host, cfg.Port, cfg.Database)
	case SQLite:
		driver = "sqlite"
		dsn = cfg.FilePath
		if dsn == "" {
			return nil, fmt.Errorf("sqlite connections require a file path")
		}
	case MSSQL:
		userInfo := url.UserPassword(cfg.Username, cfg.Password)
		driver = "sqlserver"
		dsn = fmt.Sprintf("sqlserver://%s@%s:%d?database=%s",
			userInfo.String(), cfg.Host, cfg.Port, url.QueryEscape(cfg.Database))
	default:
		return nil, fmt.Errorf("unsupported dialect: %q", cfg.Dialect)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s connection: %w", cfg.Dialect, err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)
	if cfg.Dialect == SQLite {
		// modernc's driver gives each pooled connection its own view of an
		// in-memory database; a single connection keeps state coherent.
		db.SetMaxOpenConns(1)
	}

	return db, nil
}

var identifierPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_$]*$`)

// IsValidIdentifier checks that name is safe to interpolate as a SQL identifier.
func IsValidIdentifier(name string) bool {
	return name != "" && len(name) <= 63 && identifierPattern.MatchString(name)
}

// QuoteIdentifier quotes a table or column name for the dialect.
func QuoteIdentifier(d Dialect, name string) string {
	switch d {
	case MySQL:
		return "`" + name + "`"
	case MSSQL:
		return "[" + name + "]"
	default:
		return `"` + name + `"`
	}
}

// Placeholder returns the dialect's bind placeholder for 1-based position n.
func Placeholder(d Dialect, n int) string {
	switch d {
	case Postgres:
		return fmt.Sprintf("$%d", n)
	case MSSQL:
		return fmt.Sprintf("@p%d", n)
	default:
		return "?"
	}
}
