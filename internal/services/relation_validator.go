package services

import (
	"fmt"

	"schemabridge/internal/models"
)

// RelationValidator checks a batch of table schemas for relation consistency
// before any model is registered. All findings are accumulated so one pass
// reports every problem in the batch.
type RelationValidator struct{}

func NewRelationValidator() *RelationValidator {
	return &RelationValidator{}
}

// Validate inspects every relation declared across the batch. Checks run in
// order per relation: relation type, target presence, through presence and
// junction key columns for belongsToMany, foreign key existence, then key
// type compatibility.
func (v *RelationValidator) Validate(schemas []models.TableSchema) *ValidationResult {
	byName := make(map[string]*models.TableSchema, len(schemas))
	for i := range schemas {
		byName[schemas[i].TableName] = &schemas[i]
	}

	var errs []string
	for i := range schemas {
		schema := &schemas[i]
		for j, rel := range schema.Relations {
			errs = append(errs, v.validateRelation(schema, j, rel, byName)...)
		}
	}
	return newValidationResult(errs)
}

func (v *RelationValidator) validateRelation(schema *models.TableSchema, idx int, rel models.Relation, byName map[string]*models.TableSchema) []string {
	var errs []string
	at := fmt.Sprintf("table %q relation %d", schema.TableName, idx)

	kind, err := models.ParseRelationKind(rel.Type)
	if err != nil {
		return append(errs, fmt.Sprintf("%s: unknown relation type %q", at, rel.Type))
	}

	if rel.Target == "" {
		return append(errs, fmt.Sprintf("%s: target is required", at))
	}
	target, ok := byName[rel.Target]
	if !ok {
		return append(errs, fmt.Sprintf("%s: target table %q is not part of the batch", at, rel.Target))
	}

	if kind == models.BelongsToMany {
		if rel.Through == "" {
			return append(errs, fmt.Sprintf("%s: belongsToMany requires a through table", at))
		}
		through, ok := byName[rel.Through]
		if !ok {
			return append(errs, fmt.Sprintf("%s: through table %q is not part of the batch", at, rel.Through))
		}
		// Both junction keys live on the through table.
		if rel.ForeignKey != "" && through.Column(rel.ForeignKey) == nil {
			errs = append(errs, fmt.Sprintf("%s: foreign key column %q not found on through table %q", at, rel.ForeignKey, through.TableName))
		}
		if rel.TargetKey != "" && through.Column(rel.TargetKey) == nil {
			errs = append(errs, fmt.Sprintf("%s: target key column %q not found on through table %q", at, rel.TargetKey, through.TableName))
		}
		return errs
	}

	// The foreign key column lives on different sides per relation kind.
	// hasOne/hasMany hold it on the target table, belongsTo on the source.
	var fkSide *models.TableSchema
	switch kind {
	case models.BelongsTo:
		fkSide = schema
	default:
		fkSide = target
	}

	var fkCol *models.Column
	if rel.ForeignKey != "" {
		fkCol = fkSide.Column(rel.ForeignKey)
		if fkCol == nil {
			errs = append(errs, fmt.Sprintf("%s: foreign key column %q not found on table %q", at, rel.ForeignKey, fkSide.TableName))
		}
	}

	// The referenced key sits opposite the foreign key: on the target for
	// belongsTo, on the source for hasOne/hasMany. It defaults to that
	// side's primary key.
	refSide := target
	if kind != models.BelongsTo {
		refSide = schema
	}
	var refCol *models.Column
	if rel.TargetKey != "" {
		refCol = refSide.Column(rel.TargetKey)
		if refCol == nil {
			errs = append(errs, fmt.Sprintf("%s: target key column %q not found on table %q", at, rel.TargetKey, refSide.TableName))
		}
	} else {
		refCol = primaryKeyColumn(refSide)
	}

	if fkCol != nil && refCol != nil {
		if !typesCompatible(fkCol.Type, refCol.Type) {
			errs = append(errs, fmt.Sprintf("%s: foreign key %q type %q does not match referenced key %q type %q",
				at, fkCol.Name, fkCol.Type, refCol.Name, refCol.Type))
		}
	}
	return errs
}

func primaryKeyColumn(schema *models.TableSchema) *models.Column {
	for i := range schema.Columns {
		if schema.Columns[i].PrimaryKey {
			return &schema.Columns[i]
		}
	}
	return nil
}

// typesCompatible compares two declared column types by canonical logical
// type. Unknown types never fail compatibility here; the type mapper owns
// that diagnostic.
func typesCompatible(a, b string) bool {
	ca, okA := CanonicalLogicalType(a)
	cb, okB := CanonicalLogicalType(b)
	if !okA || !okB {
		return true
	}
	return ca == cb
}
