package models

// Column is a single column declaration inside a table schema request.
type Column struct {
	Name          string            `json:"name" binding:"required"`
	Type          string            `json:"type" binding:"required"`
	PrimaryKey    bool              `json:"primary_key"`
	Nullable      *bool             `json:"nullable"` // nil means nullable
	DefaultValue  *string           `json:"default_value"`
	Unique        bool              `json:"unique"`
	AutoIncrement bool              `json:"auto_increment"`
	Length        int               `json:"length"`
	Precision     int               `json:"precision"`
	Scale         *int              `json:"scale"`
	ForeignKey    *ColumnForeignKey `json:"foreign_key"`
	Index         bool              `json:"index"`
	Comment       string            `json:"comment"`
	Validate      map[string]string `json:"validate"`
}

// ColumnForeignKey declares an inline REFERENCES constraint on a column.
type ColumnForeignKey struct {
	Table    string `json:"table" binding:"required"`
	Column   string `json:"column" binding:"required"`
	OnDelete string `json:"on_delete"`
	OnUpdate string `json:"on_update"`
}

// IndexSchema declares an explicit table-level index.
type IndexSchema struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns" binding:"required"`
	Unique  bool     `json:"unique"`
}

// SchemaOptions carries the table-level policy switches.
type SchemaOptions struct {
	Timestamps      bool  `json:"timestamps"`
	Paranoid        bool  `json:"paranoid"`
	Underscored     bool  `json:"underscored"`
	FreezeTableName *bool `json:"freeze_table_name"` // nil means true: table names are not pluralized
}

// TableSchema is a declarative table description. It is the unit of input for
// schema validation, table creation and relation establishment.
type TableSchema struct {
	TableName string        `json:"table_name" binding:"required"`
	Columns   []Column      `json:"columns" binding:"required"`
	Relations []Relation    `json:"relations"`
	Indexes   []IndexSchema `json:"indexes"`
	Options   SchemaOptions `json:"options"`
}

// Column returns the declared column with the given name, or nil.
func (t *TableSchema) Column(name string) *Column {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i]
		}
	}
	return nil
}
