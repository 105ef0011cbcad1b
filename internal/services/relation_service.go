package services

import (
	"github.com/sirupsen/logrus"

	"schemabridge/internal/apperrors"
	"schemabridge/internal/database"
	"schemabridge/internal/models"
)

const (
	defaultOnDelete = "SET NULL"
	defaultOnUpdate = "CASCADE"
)

// RelationStatus reports what happened to one declared relation during
// establishment. Skipped relations carry the reason.
type RelationStatus struct {
	Table   string `json:"table"`
	Target  string `json:"target"`
	Alias   string `json:"alias"`
	Kind    string `json:"kind"`
	Applied bool   `json:"applied"`
	Reason  string `json:"reason,omitempty"`
}

// RelationService wires declared relations between models. Establishment is
// two-phase: every schema in the batch is built and registered first, then
// relations are resolved against the complete registry so declaration order
// within the batch never matters.
type RelationService struct {
	validator *RelationValidator
	log       *logrus.Logger
}

func NewRelationService(validator *RelationValidator, log *logrus.Logger) *RelationService {
	return &RelationService{validator: validator, log: log}
}

// ValidateRelations is the pure batch check, no registration happens.
func (s *RelationService) ValidateRelations(schemas []models.TableSchema) *ValidationResult {
	return s.validator.Validate(schemas)
}

// EstablishRelations builds and registers every model in the batch, then
// attaches the declared associations. In strict mode any unresolvable
// relation aborts with an error; in lenient mode it is skipped and reported
// in its status while the rest of the batch still applies.
func (s *RelationService) EstablishRelations(sess *database.Session, schemas []models.TableSchema, mode Mode) ([]RelationStatus, error) {
	builder := NewModelBuilder(NewColumnBuilder(NewTypeMapper(sess.Dialect, mode)), mode)

	built := make(map[string]*models.ModelDefinition, len(schemas))
	for _, schema := range schemas {
		model, err := builder.Build(schema)
		if err != nil {
			return nil, err
		}
		sess.Registry.Register(model)
		built[schema.TableName] = model
	}

	var statuses []RelationStatus
	for _, schema := range schemas {
		source := built[schema.TableName]
		for _, rel := range schema.Relations {
			status, err := s.attach(sess, source, schema.TableName, rel, mode)
			if err != nil {
				return nil, err
			}
			statuses = append(statuses, status)
		}
	}
	return statuses, nil
}

func (s *RelationService) attach(sess *database.Session, source *models.ModelDefinition, declaredName string, rel models.Relation, mode Mode) (RelationStatus, error) {
	status := RelationStatus{
		Table:  declaredName,
		Target: rel.Target,
		Alias:  rel.Alias(),
		Kind:   rel.Type,
	}

	kind, err := models.ParseRelationKind(rel.Type)
	if err != nil {
		if mode == ModeStrict {
			return status, &apperrors.UnknownRelationTypeError{Type: rel.Type, Table: declaredName}
		}
		status.Reason = "unknown relation type"
		return status, nil
	}

	target := sess.Registry.Get(rel.Target)
	if target == nil {
		if mode == ModeStrict {
			return status, &apperrors.ModelNotFoundError{Table: rel.Target}
		}
		status.Reason = "target model not registered"
		return status, nil
	}

	through := rel.Through
	if kind == models.BelongsToMany {
		// Junction tables are never invented on the caller's behalf.
		if through == "" {
			return status, &apperrors.RelationValidationError{Errors: []string{
				"belongsToMany from " + declaredName + " to " + rel.Target + " requires a through table",
			}}
		}
		if sess.Registry.Get(through) == nil {
			if mode == ModeStrict {
				return status, &apperrors.ModelNotFoundError{Table: through}
			}
			status.Reason = "through model not registered"
			return status, nil
		}
	}

	onDelete := rel.OnDelete
	if onDelete == "" {
		onDelete = defaultOnDelete
	}
	onUpdate := rel.OnUpdate
	if onUpdate == "" {
		onUpdate = defaultOnUpdate
	}

	source.SetAssociation(&models.Association{
		Kind:       kind,
		Type:       kind.String(),
		Source:     source.TableName,
		Target:     rel.Target,
		Through:    through,
		ForeignKey: rel.ForeignKey,
		TargetKey:  rel.TargetKey,
		As:         rel.Alias(),
		OnDelete:   onDelete,
		OnUpdate:   onUpdate,
		Scope:      rel.Scope,
	})

	s.log.WithFields(logrus.Fields{
		"source": declaredName,
		"target": rel.Target,
		"kind":   kind.String(),
	}).Debug("association attached")

	status.Applied = true
	return status, nil
}
