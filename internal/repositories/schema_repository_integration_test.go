package repositories

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"schemabridge/internal/database"
)

// Spins up a disposable Postgres and checks catalog introspection against it.
// Needs Docker; skipped with -short.
func TestPostgresIntrospection(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := context.Background()
	ctr, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("bridge"),
		tcpostgres.WithUsername("bridge"),
		tcpostgres.WithPassword("bridge"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(ctr); err != nil {
			t.Logf("terminating container: %v", err)
		}
	})

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatal(err)
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Fatal(err)
	}
	sess := database.NewSession(uuid.New(), database.Postgres, db)
	t.Cleanup(func() { sess.Close() })

	stmts := []string{
		`CREATE TABLE users (
			id INTEGER GENERATED ALWAYS AS IDENTITY,
			email VARCHAR(255) NOT NULL UNIQUE,
			joined_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (id)
		)`,
		`CREATE TABLE posts (
			id INTEGER GENERATED ALWAYS AS IDENTITY,
			user_id INTEGER REFERENCES users(id) ON DELETE SET NULL,
			title TEXT,
			PRIMARY KEY (id)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := sess.DB.ExecContext(ctx, stmt); err != nil {
			t.Fatal(err)
		}
	}

	repo := NewSchemaRepository()

	tables, err := repo.ListTables(ctx, sess)
	if err != nil {
		t.Fatal(err)
	}
	if len(tables) != 2 {
		t.Fatalf("ListTables = %v", tables)
	}

	cols, err := repo.DescribeTable(ctx, sess, "users")
	if err != nil {
		t.Fatal(err)
	}
	byName := make(map[string]NativeColumn, len(cols))
	for _, c := range cols {
		byName[c.Name] = c
	}
	if !byName["id"].PrimaryKey || !byName["id"].AutoIncrement {
		t.Errorf("id = %+v, want identity primary key", byName["id"])
	}
	if byName["email"].Nullable {
		t.Error("email should be NOT NULL")
	}
	if byName["joined_at"].Default == nil {
		t.Error("joined_at should report its default")
	}

	fks, err := repo.ListForeignKeys(ctx, sess, "posts")
	if err != nil {
		t.Fatal(err)
	}
	if len(fks) != 1 {
		t.Fatalf("ListForeignKeys = %v", fks)
	}
	if fks[0].Column != "user_id" || fks[0].RefTable != "users" || fks[0].RefColumn != "id" {
		t.Errorf("foreign key = %+v", fks[0])
	}

	exists, err := repo.TableExists(ctx, sess, "users")
	if err != nil || !exists {
		t.Errorf("TableExists(users) = %v, %v", exists, err)
	}
	exists, err = repo.TableExists(ctx, sess, "nope")
	if err != nil || exists {
		t.Errorf("TableExists(nope) = %v, %v", exists, err)
	}
}
