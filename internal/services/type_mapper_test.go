package services

import (
	"errors"
	"testing"

	"schemabridge/internal/apperrors"
	"schemabridge/internal/database"
)

func TestResolveDialects(t *testing.T) {
	tests := []struct {
		name    string
		dialect database.Dialect
		logical string
		want    string
	}{
		{"string postgres", database.Postgres, "string", "VARCHAR"},
		{"string mssql", database.MSSQL, "string", "NVARCHAR"},
		{"boolean postgres", database.Postgres, "boolean", "BOOLEAN"},
		{"boolean mysql", database.MySQL, "boolean", "TINYINT(1)"},
		{"boolean sqlite", database.SQLite, "boolean", "INTEGER"},
		{"boolean mssql", database.MSSQL, "boolean", "BIT"},
		{"uuid postgres", database.Postgres, "uuid", "UUID"},
		{"uuid mysql", database.MySQL, "uuid", "CHAR(36)"},
		{"uuid mssql", database.MSSQL, "uuid", "UNIQUEIDENTIFIER"},
		{"jsonb postgres", database.Postgres, "jsonb", "JSONB"},
		{"jsonb sqlite", database.SQLite, "jsonb", "TEXT"},
		{"double postgres", database.Postgres, "double", "DOUBLE PRECISION"},
		{"double mssql", database.MSSQL, "double", "FLOAT"},
		{"datetime postgres", database.Postgres, "datetime", "TIMESTAMPTZ"},
		{"datetime mssql", database.MSSQL, "datetime", "DATETIME2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewTypeMapper(tt.dialect, ModeStrict)
			got, err := m.Resolve(tt.logical)
			if err != nil {
				t.Fatalf("Resolve(%q) error: %v", tt.logical, err)
			}
			if got.BaseSQL != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.logical, got.BaseSQL, tt.want)
			}
		})
	}
}

func TestResolveCaseInsensitive(t *testing.T) {
	m := NewTypeMapper(database.Postgres, ModeStrict)
	for _, name := range []string{"STRING", "String", " string ", "VarChar"} {
		got, err := m.Resolve(name)
		if err != nil {
			t.Fatalf("Resolve(%q) error: %v", name, err)
		}
		if got.Logical != "string" {
			t.Errorf("Resolve(%q).Logical = %q, want string", name, got.Logical)
		}
	}
}

func TestResolveAliases(t *testing.T) {
	tests := []struct {
		alias string
		want  string
	}{
		{"int", "integer"},
		{"biginteger", "bigint"},
		{"bool", "boolean"},
		{"numeric", "decimal"},
		{"bytea", "binary"},
		{"uri", "url"},
	}
	m := NewTypeMapper(database.Postgres, ModeStrict)
	for _, tt := range tests {
		got, err := m.Resolve(tt.alias)
		if err != nil {
			t.Fatalf("Resolve(%q) error: %v", tt.alias, err)
		}
		if got.Logical != tt.want {
			t.Errorf("Resolve(%q).Logical = %q, want %q", tt.alias, got.Logical, tt.want)
		}
	}
}

func TestResolveUnknownType(t *testing.T) {
	strict := NewTypeMapper(database.Postgres, ModeStrict)
	_, err := strict.Resolve("hyperloglog")
	var unsupported *apperrors.UnsupportedTypeError
	if !errors.As(err, &unsupported) {
		t.Fatalf("strict Resolve(unknown) error = %v, want UnsupportedTypeError", err)
	}

	lenient := NewTypeMapper(database.Postgres, ModeLenient)
	got, err := lenient.Resolve("hyperloglog")
	if err != nil {
		t.Fatalf("lenient Resolve(unknown) error: %v", err)
	}
	if got.Logical != "string" {
		t.Errorf("lenient Resolve(unknown).Logical = %q, want string fallback", got.Logical)
	}
}

func TestRenderParameterization(t *testing.T) {
	scale := 2
	tests := []struct {
		name      string
		typ       ConcreteType
		length    int
		precision int
		scale     *int
		want      string
	}{
		{"explicit length", ConcreteType{BaseSQL: "VARCHAR", HasLength: true, DefLength: 255}, 100, 0, nil, "VARCHAR(100)"},
		{"default length", ConcreteType{BaseSQL: "VARCHAR", HasLength: true, DefLength: 255}, 0, 0, nil, "VARCHAR(255)"},
		{"precision and scale", ConcreteType{BaseSQL: "NUMERIC", HasScale: true}, 0, 10, &scale, "NUMERIC(10,2)"},
		{"precision only", ConcreteType{BaseSQL: "NUMERIC", HasScale: true}, 0, 10, nil, "NUMERIC(10)"},
		{"unparameterized", ConcreteType{BaseSQL: "TEXT"}, 50, 0, nil, "TEXT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.typ.Render(tt.length, tt.precision, tt.scale); got != tt.want {
				t.Errorf("Render() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAvailableTypesSorted(t *testing.T) {
	names := AvailableTypes()
	if len(names) == 0 {
		t.Fatal("AvailableTypes() is empty")
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Fatalf("AvailableTypes() not sorted at %d: %q >= %q", i, names[i-1], names[i])
		}
	}
	for _, want := range []string{"string", "integer", "uuid", "int", "varchar"} {
		found := false
		for _, n := range names {
			if n == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("AvailableTypes() missing %q", want)
		}
	}
}

func TestParseMode(t *testing.T) {
	if ParseMode("strict") != ModeStrict || ParseMode("STRICT") != ModeStrict {
		t.Error("ParseMode(strict) should be ModeStrict")
	}
	if ParseMode("lenient") != ModeLenient || ParseMode("") != ModeLenient {
		t.Error("ParseMode(other) should be ModeLenient")
	}
}
