// Package testutil holds helpers shared by tests across packages.
package testutil

import (
	"context"
	"os"
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/trezcool/masomo-meet/core"
	"github.com/trezcool/masomo-meet/core/teacher"
	"github.com/trezcool/masomo-meet/storage/database"
)

// CreateTeacher stores a teacher or fails the test.
func CreateTeacher(t *testing.T, repo teacher.Repository, name, email, department string) teacher.Teacher {
	t.Helper()
	tc, err := repo.UpdateOrCreateTeacher(context.Background(), teacher.Teacher{Name: name, Email: email, Department: department})
	if err != nil {
		t.Fatalf("CreateTeacher() failed: %v", err)
	}
	return tc
}

// PrepareDB opens & migrates the test database, and empties it once the test is done.
// The test is skipped when TEST_DATABASE_HOST is unset.
func PrepareDB(t *testing.T) *sqlx.DB {
	t.Helper()
	if os.Getenv("TEST_DATABASE_HOST") == "" {
		t.Skip("TEST_DATABASE_HOST not set")
	}

	t.Setenv("ENV", "TEST")
	conf := core.NewConfig()
	if err := database.CreateIfNotExist(conf); err != nil {
		t.Fatalf("CreateIfNotExist() failed: %v", err)
	}
	db, err := database.Open(conf)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err = database.Migrate(db.DB); err != nil {
		t.Fatalf("Migrate() failed: %v", err)
	}

	t.Cleanup(func() {
		_, _ = db.Exec("TRUNCATE teacher, meeting")
		_ = db.Close()
	})
	return db
}
