package models

import "fmt"

// RelationKind is the closed set of supported relation types. Keeping it a
// small enum lets the graph builder switch exhaustively instead of matching
// free-form strings at every call site.
type RelationKind int

const (
	HasOne RelationKind = iota
	HasMany
	BelongsTo
	BelongsToMany
)

func (k RelationKind) String() string {
	switch k {
	case HasOne:
		return "hasOne"
	case HasMany:
		return "hasMany"
	case BelongsTo:
		return "belongsTo"
	case BelongsToMany:
		return "belongsToMany"
	}
	return fmt.Sprintf("RelationKind(%d)", int(k))
}

// ParseRelationKind maps a relation type string onto a RelationKind.
func ParseRelationKind(s string) (RelationKind, error) {
	switch s {
	case "hasOne":
		return HasOne, nil
	case "hasMany":
		return HasMany, nil
	case "belongsTo":
		return BelongsTo, nil
	case "belongsToMany":
		return BelongsToMany, nil
	}
	return 0, fmt.Errorf("unknown relation type: %q", s)
}

// Relation declares an edge from the schema's table to a target table.
// Field names follow the request wire format.
type Relation struct {
	Type       string         `json:"type" binding:"required"`
	Target     string         `json:"target" binding:"required"`
	ForeignKey string         `json:"foreignKey"`
	TargetKey  string         `json:"targetKey"`
	Through    string         `json:"through"`
	As         string         `json:"as"`
	OnDelete   string         `json:"onDelete"`
	OnUpdate   string         `json:"onUpdate"`
	Scope      map[string]any `json:"scope"`
}

// Alias returns the association name for the relation: the explicit alias if
// set, otherwise the target table name.
func (r *Relation) Alias() string {
	if r.As != "" {
		return r.As
	}
	return r.Target
}
