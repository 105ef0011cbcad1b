package models

import (
	"sort"
	"sync"
)

// ColumnDefinition is a fully resolved column: logical type mapped to the
// dialect's concrete SQL type, with validation rules attached.
type ColumnDefinition struct {
	Name           string            `json:"name"`
	LogicalType    string            `json:"logical_type"`
	SQLType        string            `json:"sql_type"`
	PrimaryKey     bool              `json:"primary_key"`
	Nullable       bool              `json:"nullable"`
	Unique         bool              `json:"unique"`
	AutoIncrement  bool              `json:"auto_increment"`
	Length         int               `json:"length,omitempty"`
	Precision      int               `json:"precision,omitempty"`
	Scale          *int              `json:"scale,omitempty"`
	Default        *string           `json:"default,omitempty"`
	DefaultLiteral bool              `json:"default_literal,omitempty"` // default is a SQL expression, not a string constant
	Comment        string            `json:"comment,omitempty"`
	ForeignKey     *ColumnForeignKey `json:"foreign_key,omitempty"`
	Validators     map[string]string `json:"validators,omitempty"`
}

// IndexDefinition is a resolved table index.
type IndexDefinition struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Unique  bool     `json:"unique"`
}

// ModelOptions are the resolved table-level options.
type ModelOptions struct {
	Timestamps      bool `json:"timestamps"`
	Paranoid        bool `json:"paranoid"`
	Underscored     bool `json:"underscored"`
	FreezeTableName bool `json:"freeze_table_name"`
}

// Association is one realized relation edge attached to a model.
type Association struct {
	Kind       RelationKind   `json:"-"`
	Type       string         `json:"type"`
	Source     string         `json:"source"`
	Target     string         `json:"target"`
	Through    string         `json:"through,omitempty"`
	ForeignKey string         `json:"foreign_key,omitempty"`
	TargetKey  string         `json:"target_key,omitempty"`
	As         string         `json:"as"`
	OnDelete   string         `json:"on_delete"`
	OnUpdate   string         `json:"on_update"`
	Scope      map[string]any `json:"scope,omitempty"`
}

// ModelDefinition is the runtime model for one table: its attributes, options,
// indexes and associations.
type ModelDefinition struct {
	TableName    string                       `json:"table_name"`
	Attributes   map[string]*ColumnDefinition `json:"attributes"`
	ColumnOrder  []string                     `json:"column_order"`
	Options      ModelOptions                 `json:"options"`
	Indexes      []IndexDefinition            `json:"indexes,omitempty"`
	Associations map[string]*Association      `json:"associations,omitempty"`
}

// Attribute returns the column definition for name, or nil.
func (m *ModelDefinition) Attribute(name string) *ColumnDefinition {
	return m.Attributes[name]
}

// PrimaryKey returns the name of the first primary key column, or "".
func (m *ModelDefinition) PrimaryKey() string {
	for _, name := range m.ColumnOrder {
		if m.Attributes[name].PrimaryKey {
			return name
		}
	}
	return ""
}

// HasAssociation reports whether an association with the given alias exists.
func (m *ModelDefinition) HasAssociation(alias string) bool {
	_, ok := m.Associations[alias]
	return ok
}

// SetAssociation attaches (or overwrites) an association under its alias.
func (m *ModelDefinition) SetAssociation(a *Association) {
	if m.Associations == nil {
		m.Associations = make(map[string]*Association)
	}
	m.Associations[a.As] = a
}

// ModelRegistry maps table names to model definitions. One registry lives on
// each open connection session; registration is last-write-wins. The mutex
// only keeps concurrent map access safe, it does not serialize whole
// operations against each other.
type ModelRegistry struct {
	mu     sync.RWMutex
	models map[string]*ModelDefinition
}

func NewModelRegistry() *ModelRegistry {
	return &ModelRegistry{models: make(map[string]*ModelDefinition)}
}

// Register stores the model under its table name, replacing any prior entry.
func (r *ModelRegistry) Register(m *ModelDefinition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models[m.TableName] = m
}

// Get returns the model registered under table, or nil.
func (r *ModelRegistry) Get(table string) *ModelDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.models[table]
}

// Has reports whether a model is registered under table.
func (r *ModelRegistry) Has(table string) bool {
	return r.Get(table) != nil
}

// Remove drops the model registered under table.
func (r *ModelRegistry) Remove(table string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.models, table)
}

// Reset clears every registered model.
func (r *ModelRegistry) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.models = make(map[string]*ModelDefinition)
}

// Names returns the registered table names in sorted order.
func (r *ModelRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Len returns the number of registered models.
func (r *ModelRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.models)
}

// Snapshot returns the registered models keyed by table name. The returned
// map is a copy; the model definitions themselves are shared.
func (r *ModelRegistry) Snapshot() map[string]*ModelDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]*ModelDefinition, len(r.models))
	for name, m := range r.models {
		out[name] = m
	}
	return out
}
