package services

import (
	"errors"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"schemabridge/internal/apperrors"
	"schemabridge/internal/database"
	"schemabridge/internal/models"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newSQLiteSession(t *testing.T) *database.Session {
	t.Helper()
	db, err := database.OpenTarget(database.TargetConfig{
		Dialect:  database.SQLite,
		FilePath: ":memory:",
	})
	if err != nil {
		t.Fatal(err)
	}
	sess := database.NewSession(uuid.New(), database.SQLite, db)
	t.Cleanup(func() { sess.Close() })
	return sess
}

func TestEstablishRelationsRoundTrip(t *testing.T) {
	sess := newSQLiteSession(t)
	svc := NewRelationService(NewRelationValidator(), testLogger())

	schemas := []models.TableSchema{
		{
			TableName: "users",
			Columns: []models.Column{
				{Name: "id", Type: "integer", PrimaryKey: true},
			},
			Relations: []models.Relation{
				{Type: "hasMany", Target: "posts", ForeignKey: "user_id", As: "articles"},
			},
		},
		{
			TableName: "posts",
			Columns: []models.Column{
				{Name: "id", Type: "integer", PrimaryKey: true},
				{Name: "user_id", Type: "integer"},
			},
			Relations: []models.Relation{
				{Type: "belongsTo", Target: "users", ForeignKey: "user_id"},
			},
		},
	}

	statuses, err := svc.EstablishRelations(sess, schemas, ModeStrict)
	if err != nil {
		t.Fatal(err)
	}
	if len(statuses) != 2 {
		t.Fatalf("statuses = %v", statuses)
	}
	for _, st := range statuses {
		if !st.Applied {
			t.Errorf("relation %v not applied: %s", st, st.Reason)
		}
	}

	users := sess.Registry.Get("users")
	if users == nil || !users.HasAssociation("articles") {
		t.Fatal("users should carry the aliased hasMany association")
	}
	assoc := users.Associations["articles"]
	if assoc.Kind != models.HasMany || assoc.OnDelete != "SET NULL" || assoc.OnUpdate != "CASCADE" {
		t.Errorf("unexpected association: %+v", assoc)
	}

	posts := sess.Registry.Get("posts")
	if posts == nil || !posts.HasAssociation("users") {
		t.Fatal("posts should carry the belongsTo association under the target name")
	}
}

func TestEstablishRelationsDeclarationOrder(t *testing.T) {
	// The relation on the first schema points at a table declared later.
	sess := newSQLiteSession(t)
	svc := NewRelationService(NewRelationValidator(), testLogger())

	schemas := []models.TableSchema{
		{
			TableName: "posts",
			Columns: []models.Column{
				{Name: "id", Type: "integer", PrimaryKey: true},
				{Name: "user_id", Type: "integer"},
			},
			Relations: []models.Relation{
				{Type: "belongsTo", Target: "users", ForeignKey: "user_id"},
			},
		},
		{
			TableName: "users",
			Columns:   []models.Column{{Name: "id", Type: "integer", PrimaryKey: true}},
		},
	}

	statuses, err := svc.EstablishRelations(sess, schemas, ModeStrict)
	if err != nil {
		t.Fatal(err)
	}
	if !statuses[0].Applied {
		t.Fatalf("forward reference should resolve: %+v", statuses[0])
	}
}

func TestEstablishRelationsSelfReference(t *testing.T) {
	sess := newSQLiteSession(t)
	svc := NewRelationService(NewRelationValidator(), testLogger())

	schemas := []models.TableSchema{
		{
			TableName: "categories",
			Columns: []models.Column{
				{Name: "id", Type: "integer", PrimaryKey: true},
				{Name: "parent_id", Type: "integer"},
			},
			Relations: []models.Relation{
				{Type: "belongsTo", Target: "categories", ForeignKey: "parent_id", As: "parent"},
			},
		},
	}

	statuses, err := svc.EstablishRelations(sess, schemas, ModeStrict)
	if err != nil {
		t.Fatal(err)
	}
	if !statuses[0].Applied {
		t.Fatalf("self reference should resolve: %+v", statuses[0])
	}
	if !sess.Registry.Get("categories").HasAssociation("parent") {
		t.Error("missing self association")
	}
}

func TestEstablishRelationsModes(t *testing.T) {
	schemas := []models.TableSchema{
		{
			TableName: "users",
			Columns:   []models.Column{{Name: "id", Type: "integer", PrimaryKey: true}},
			Relations: []models.Relation{
				{Type: "hasMany", Target: "ghosts"},
			},
		},
	}

	strictSess := newSQLiteSession(t)
	svc := NewRelationService(NewRelationValidator(), testLogger())
	_, err := svc.EstablishRelations(strictSess, schemas, ModeStrict)
	var notFound *apperrors.ModelNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("strict mode error = %v, want ModelNotFoundError", err)
	}

	lenientSess := newSQLiteSession(t)
	statuses, err := svc.EstablishRelations(lenientSess, schemas, ModeLenient)
	if err != nil {
		t.Fatal(err)
	}
	if statuses[0].Applied || statuses[0].Reason == "" {
		t.Errorf("lenient mode should skip with a reason: %+v", statuses[0])
	}
}

func TestEstablishRelationsBelongsToManyRequiresThrough(t *testing.T) {
	sess := newSQLiteSession(t)
	svc := NewRelationService(NewRelationValidator(), testLogger())

	schemas := []models.TableSchema{
		{
			TableName: "students",
			Columns:   []models.Column{{Name: "id", Type: "integer", PrimaryKey: true}},
			Relations: []models.Relation{
				{Type: "belongsToMany", Target: "courses"},
			},
		},
		{
			TableName: "courses",
			Columns:   []models.Column{{Name: "id", Type: "integer", PrimaryKey: true}},
		},
	}

	// Missing through is a hard error even in lenient mode.
	_, err := svc.EstablishRelations(sess, schemas, ModeLenient)
	var verr *apperrors.RelationValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error = %v, want RelationValidationError", err)
	}
}

func TestEstablishRelationsBelongsToManyWithThrough(t *testing.T) {
	sess := newSQLiteSession(t)
	svc := NewRelationService(NewRelationValidator(), testLogger())

	schemas := []models.TableSchema{
		{
			TableName: "students",
			Columns:   []models.Column{{Name: "id", Type: "integer", PrimaryKey: true}},
			Relations: []models.Relation{
				{Type: "belongsToMany", Target: "courses", Through: "enrollments"},
			},
		},
		{
			TableName: "courses",
			Columns:   []models.Column{{Name: "id", Type: "integer", PrimaryKey: true}},
		},
		{
			TableName: "enrollments",
			Columns: []models.Column{
				{Name: "student_id", Type: "integer", PrimaryKey: true},
				{Name: "course_id", Type: "integer", PrimaryKey: true},
			},
		},
	}

	statuses, err := svc.EstablishRelations(sess, schemas, ModeStrict)
	if err != nil {
		t.Fatal(err)
	}
	if !statuses[0].Applied {
		t.Fatalf("belongsToMany with through should apply: %+v", statuses[0])
	}
	assoc := sess.Registry.Get("students").Associations["courses"]
	if assoc == nil || assoc.Through != "enrollments" {
		t.Errorf("association should carry the through table: %+v", assoc)
	}
}
