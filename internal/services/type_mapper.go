package services

import (
	"fmt"
	"sort"
	"strings"

	"schemabridge/internal/apperrors"
	"schemabridge/internal/database"
)

// Mode controls how the engine treats unknown input: strict mode fails,
// lenient mode falls back to permissive defaults.
type Mode int

const (
	ModeLenient Mode = iota
	ModeStrict
)

// ParseMode maps the "mode" request parameter onto a Mode. Anything other
// than "strict" is lenient.
func ParseMode(s string) Mode {
	if strings.EqualFold(s, "strict") {
		return ModeStrict
	}
	return ModeLenient
}

// typeEntry is one row of the logical type table: the concrete SQL type per
// dialect plus parameterization and validation hints.
type typeEntry struct {
	postgres  string
	mysql     string
	sqlite    string
	mssql     string
	hasLength bool
	defLength int
	hasScale  bool   // accepts precision/scale
	format    string // implied validator: email, url, ip
}

var typeTable = map[string]typeEntry{
	"string":    {postgres: "VARCHAR", mysql: "VARCHAR", sqlite: "VARCHAR", mssql: "NVARCHAR", hasLength: true, defLength: 255},
	"char":      {postgres: "CHAR", mysql: "CHAR", sqlite: "CHAR", mssql: "NCHAR", hasLength: true, defLength: 255},
	"text":      {postgres: "TEXT", mysql: "TEXT", sqlite: "TEXT", mssql: "NVARCHAR(MAX)"},
	"tinyint":   {postgres: "SMALLINT", mysql: "TINYINT", sqlite: "TINYINT", mssql: "TINYINT"},
	"smallint":  {postgres: "SMALLINT", mysql: "SMALLINT", sqlite: "SMALLINT", mssql: "SMALLINT"},
	"integer":   {postgres: "INTEGER", mysql: "INT", sqlite: "INTEGER", mssql: "INT"},
	"bigint":    {postgres: "BIGINT", mysql: "BIGINT", sqlite: "BIGINT", mssql: "BIGINT"},
	"float":     {postgres: "REAL", mysql: "FLOAT", sqlite: "REAL", mssql: "REAL"},
	"double":    {postgres: "DOUBLE PRECISION", mysql: "DOUBLE", sqlite: "REAL", mssql: "FLOAT"},
	"decimal":   {postgres: "NUMERIC", mysql: "DECIMAL", sqlite: "NUMERIC", mssql: "DECIMAL", hasScale: true},
	"money":     {postgres: "MONEY", mysql: "DECIMAL(19,4)", sqlite: "NUMERIC", mssql: "MONEY"},
	"boolean":   {postgres: "BOOLEAN", mysql: "TINYINT(1)", sqlite: "INTEGER", mssql: "BIT"},
	"date":      {postgres: "DATE", mysql: "DATE", sqlite: "DATE", mssql: "DATE"},
	"time":      {postgres: "TIME", mysql: "TIME", sqlite: "TIME", mssql: "TIME"},
	"datetime":  {postgres: "TIMESTAMPTZ", mysql: "DATETIME", sqlite: "DATETIME", mssql: "DATETIME2"},
	"timestamp": {postgres: "TIMESTAMP", mysql: "TIMESTAMP", sqlite: "DATETIME", mssql: "DATETIME2"},
	"json":      {postgres: "JSON", mysql: "JSON", sqlite: "TEXT", mssql: "NVARCHAR(MAX)"},
	"jsonb":     {postgres: "JSONB", mysql: "JSON", sqlite: "TEXT", mssql: "NVARCHAR(MAX)"},
	"uuid":      {postgres: "UUID", mysql: "CHAR(36)", sqlite: "TEXT", mssql: "UNIQUEIDENTIFIER"},
	"email":     {postgres: "VARCHAR", mysql: "VARCHAR", sqlite: "VARCHAR", mssql: "NVARCHAR", hasLength: true, defLength: 255, format: "email"},
	"url":       {postgres: "VARCHAR", mysql: "VARCHAR", sqlite: "VARCHAR", mssql: "NVARCHAR", hasLength: true, defLength: 2048, format: "url"},
	"ip":        {postgres: "VARCHAR", mysql: "VARCHAR", sqlite: "VARCHAR", mssql: "NVARCHAR", hasLength: true, defLength: 45, format: "ip"},
	"enum":      {postgres: "TEXT", mysql: "TEXT", sqlite: "TEXT", mssql: "NVARCHAR(255)"},
	"array":     {postgres: "TEXT[]", mysql: "JSON", sqlite: "TEXT", mssql: "NVARCHAR(MAX)"},
	"binary":    {postgres: "BYTEA", mysql: "BLOB", sqlite: "BLOB", mssql: "VARBINARY(MAX)"},
	"geometry":  {postgres: "GEOMETRY", mysql: "GEOMETRY", sqlite: "BLOB", mssql: "GEOMETRY"},
	"geography": {postgres: "GEOGRAPHY", mysql: "GEOMETRY", sqlite: "BLOB", mssql: "GEOGRAPHY"},
}

var typeAliases = map[string]string{
	"int":        "integer",
	"biginteger": "bigint",
	"mediumint":  "integer",
	"varchar":    "string",
	"bool":       "boolean",
	"numeric":    "decimal",
	"real":       "float",
	"blob":       "binary",
	"bytea":      "binary",
	"uri":        "url",
}

// Format validation patterns for the semantic string types.
var formatPatterns = map[string]string{
	"email": `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`,
	"url":   `^[a-zA-Z][a-zA-Z0-9+.-]*://[^\s]*$`,
	"ip":    `^((25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)\.){3}(25[0-5]|2[0-4][0-9]|[01]?[0-9][0-9]?)$|^([0-9a-fA-F]{0,4}:){2,7}[0-9a-fA-F]{0,4}$`,
}

// CanonicalLogicalType lowercases a logical type name and resolves aliases.
// The second result reports whether the name is in the type table.
func CanonicalLogicalType(name string) (string, bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if canonical, ok := typeAliases[n]; ok {
		n = canonical
	}
	_, ok := typeTable[n]
	return n, ok
}

// AvailableTypes returns every accepted logical type name, sorted.
func AvailableTypes() []string {
	names := make([]string, 0, len(typeTable)+len(typeAliases))
	for name := range typeTable {
		names = append(names, name)
	}
	for alias := range typeAliases {
		names = append(names, alias)
	}
	sort.Strings(names)
	return names
}

// ConcreteType is a logical type resolved against one dialect.
type ConcreteType struct {
	Logical   string
	BaseSQL   string
	HasLength bool
	DefLength int
	HasScale  bool
	Format    string // implied validator name, "" for plain types
}

// Render produces the final SQL type string, applying length or
// precision/scale parameterization where the type supports it.
func (t ConcreteType) Render(length, precision int, scale *int) string {
	switch {
	case t.HasScale && precision > 0 && scale != nil:
		return fmt.Sprintf("%s(%d,%d)", t.BaseSQL, precision, *scale)
	case t.HasScale && precision > 0:
		return fmt.Sprintf("%s(%d)", t.BaseSQL, precision)
	case t.HasLength && length > 0:
		return fmt.Sprintf("%s(%d)", t.BaseSQL, length)
	case t.HasLength && t.DefLength > 0:
		return fmt.Sprintf("%s(%d)", t.BaseSQL, t.DefLength)
	}
	return t.BaseSQL
}

// TypeMapper resolves logical type names to dialect-concrete types.
type TypeMapper struct {
	dialect database.Dialect
	mode    Mode
}

func NewTypeMapper(dialect database.Dialect, mode Mode) *TypeMapper {
	return &TypeMapper{dialect: dialect, mode: mode}
}

// Resolve looks up a logical type, case-insensitively. Unknown types fail in
// strict mode and fall back to the generic string type otherwise.
func (m *TypeMapper) Resolve(logical string) (ConcreteType, error) {
	name, ok := CanonicalLogicalType(logical)
	if !ok {
		if m.mode == ModeStrict {
			return ConcreteType{}, &apperrors.UnsupportedTypeError{Type: logical}
		}
		name = "string"
	}

	entry := typeTable[name]
	base := entry.postgres
	switch m.dialect {
	case database.MySQL:
		base = entry.mysql
	case database.SQLite:
		base = entry.sqlite
	case database.MSSQL:
		base = entry.mssql
	}

	return ConcreteType{
		Logical:   name,
		BaseSQL:   base,
		HasLength: entry.hasLength,
		DefLength: entry.defLength,
		HasScale:  entry.hasScale,
		Format:    entry.format,
	}, nil
}
