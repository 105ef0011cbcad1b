package models

import (
	"sync"
	"testing"
)

func testModel(table string) *ModelDefinition {
	return &ModelDefinition{
		TableName: table,
		Attributes: map[string]*ColumnDefinition{
			"id": {Name: "id", LogicalType: "integer", PrimaryKey: true},
		},
		ColumnOrder: []string{"id"},
	}
}

func TestRegistryLastWriteWins(t *testing.T) {
	r := NewModelRegistry()
	first := testModel("users")
	second := testModel("users")

	r.Register(first)
	r.Register(second)

	if r.Len() != 1 {
		t.Fatalf("Len() = %d", r.Len())
	}
	if r.Get("users") != second {
		t.Error("later registration should replace the earlier one")
	}
}

func TestRegistryRemoveAndReset(t *testing.T) {
	r := NewModelRegistry()
	r.Register(testModel("a"))
	r.Register(testModel("b"))

	r.Remove("a")
	if r.Has("a") || !r.Has("b") {
		t.Error("Remove should only drop the named model")
	}

	r.Reset()
	if r.Len() != 0 {
		t.Error("Reset should clear everything")
	}
}

func TestRegistryNamesSorted(t *testing.T) {
	r := NewModelRegistry()
	for _, name := range []string{"zebra", "apple", "mango"} {
		r.Register(testModel(name))
	}
	names := r.Names()
	want := []string{"apple", "mango", "zebra"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("Names() = %v, want %v", names, want)
		}
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewModelRegistry()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			r.Register(testModel("users"))
		}()
		go func() {
			defer wg.Done()
			r.Get("users")
			r.Names()
		}()
	}
	wg.Wait()
	if !r.Has("users") {
		t.Error("model should be registered after concurrent writes")
	}
}

func TestParseRelationKind(t *testing.T) {
	tests := []struct {
		in   string
		want RelationKind
		ok   bool
	}{
		{"hasOne", HasOne, true},
		{"hasMany", HasMany, true},
		{"belongsTo", BelongsTo, true},
		{"belongsToMany", BelongsToMany, true},
		{"hasmany", 0, false},
		{"", 0, false},
		{"manyToMany", 0, false},
	}
	for _, tt := range tests {
		got, err := ParseRelationKind(tt.in)
		if tt.ok && (err != nil || got != tt.want) {
			t.Errorf("ParseRelationKind(%q) = %v, %v", tt.in, got, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("ParseRelationKind(%q) should fail", tt.in)
		}
	}
}

func TestRelationAlias(t *testing.T) {
	r := Relation{Target: "users"}
	if r.Alias() != "users" {
		t.Errorf("Alias() = %q, want target fallback", r.Alias())
	}
	r.As = "author"
	if r.Alias() != "author" {
		t.Errorf("Alias() = %q, want explicit alias", r.Alias())
	}
}

func TestSetAssociationOverwrites(t *testing.T) {
	m := testModel("users")
	m.SetAssociation(&Association{As: "posts", Kind: HasMany})
	m.SetAssociation(&Association{As: "posts", Kind: HasOne})
	if len(m.Associations) != 1 || m.Associations["posts"].Kind != HasOne {
		t.Errorf("Associations = %v", m.Associations)
	}
}
