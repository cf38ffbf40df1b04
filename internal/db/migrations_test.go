package db

import (
	"io"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	embeddedmigrations "github.com/terraincognita07/dosalabel/migrations"
	"gorm.io/gorm"
)

func openTestSQLite(t *testing.T, path string) *gorm.DB {
	t.Helper()

	database, err := OpenSQLite(path, log.New(io.Discard))
	if err != nil {
		t.Fatalf("OpenSQLite(%s) returned error: %v", path, err)
	}
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return database
}

func TestOpenSQLiteAppliesEmbeddedMigrations(t *testing.T) {
	database := openTestSQLite(t, filepath.Join(t.TempDir(), "nested", "labels.db"))

	for _, column := range []string{"state_key", "payload", "revision", "updated_at"} {
		if !database.Migrator().HasColumn("label_states", column) {
			t.Fatalf("expected label_states.%s to exist", column)
		}
	}

	files, err := fs.Glob(embeddedmigrations.Files, "*.sql")
	if err != nil {
		t.Fatalf("glob embedded migrations: %v", err)
	}
	var applied int64
	if err := database.Raw(`SELECT COUNT(*) FROM schema_migrations`).Scan(&applied).Error; err != nil {
		t.Fatalf("count schema_migrations: %v", err)
	}
	if applied != int64(len(files)) {
		t.Fatalf("applied migrations = %d, want %d", applied, len(files))
	}
}

func TestOpenSQLiteIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labels.db")

	first, err := OpenSQLite(path, log.New(io.Discard))
	if err != nil {
		t.Fatalf("first OpenSQLite returned error: %v", err)
	}
	if err := first.Exec(`INSERT INTO label_states(state_key, payload) VALUES ('k', '{}')`).Error; err != nil {
		t.Fatalf("seed label state: %v", err)
	}
	if sqlDB, err := first.DB(); err == nil {
		_ = sqlDB.Close()
	}

	database := openTestSQLite(t, path)
	var payload string
	if err := database.Raw(`SELECT payload FROM label_states WHERE state_key = 'k'`).Scan(&payload).Error; err != nil {
		t.Fatalf("load seeded state: %v", err)
	}
	if payload != "{}" {
		t.Fatalf("payload = %q after reopen", payload)
	}
}

func TestMigratorSkipsExistingColumn(t *testing.T) {
	database := openTestSQLite(t, filepath.Join(t.TempDir(), "labels.db"))

	exists, err := columnAlreadyAdded(database, "ALTER TABLE label_states ADD COLUMN revision INTEGER NOT NULL DEFAULT 0")
	if err != nil {
		t.Fatalf("columnAlreadyAdded returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected revision column to be detected")
	}

	exists, err = columnAlreadyAdded(database, "ALTER TABLE \"label_states\" ADD COLUMN checksum TEXT")
	if err != nil {
		t.Fatalf("columnAlreadyAdded returned error: %v", err)
	}
	if exists {
		t.Fatal("unknown column must not be reported as existing")
	}
}

func TestSplitStatements(t *testing.T) {
	t.Parallel()

	got := splitStatements("CREATE TABLE a (x INT);\n\n ; ALTER TABLE a ADD COLUMN y INT;")
	if len(got) != 2 || got[0] != "CREATE TABLE a (x INT)" || got[1] != "ALTER TABLE a ADD COLUMN y INT" {
		t.Fatalf("splitStatements() = %#v", got)
	}
}
