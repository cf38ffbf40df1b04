package db

import (
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
	"strings"

	embeddedmigrations "github.com/terraincognita07/dosalabel/migrations"
	"gorm.io/gorm"
)

var (
	migrationFileName = regexp.MustCompile(`^(\d+)_.*\.sql$`)
	addColumnPattern  = regexp.MustCompile(`(?i)^ALTER\s+TABLE\s+([^\s]+)\s+ADD\s+COLUMN\s+([^\s]+)\b`)
)

type schemaStep struct {
	version string
	order   int
	file    string
	sql     string
}

// migrator applies forward-only SQL files embedded in the binary. Applied
// versions are tracked in schema_migrations.
type migrator struct {
	database *gorm.DB
	files    fs.FS
}

func newMigrator(database *gorm.DB) *migrator {
	return &migrator{database: database, files: embeddedmigrations.Files}
}

func (m *migrator) run() error {
	const bookkeeping = `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);`
	if err := m.database.Exec(bookkeeping).Error; err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	steps, err := m.pending()
	if err != nil {
		return err
	}
	for _, step := range steps {
		if err := m.apply(step); err != nil {
			return err
		}
	}
	return nil
}

// pending returns the embedded steps not yet recorded, in version order.
func (m *migrator) pending() ([]schemaStep, error) {
	entries, err := fs.ReadDir(m.files, ".")
	if err != nil {
		return nil, fmt.Errorf("read embedded migrations: %w", err)
	}

	var applied []string
	if err := m.database.Raw(`SELECT version FROM schema_migrations`).Scan(&applied).Error; err != nil {
		return nil, fmt.Errorf("load applied migration versions: %w", err)
	}
	done := make(map[string]bool, len(applied))
	for _, version := range applied {
		done[version] = true
	}

	byVersion := make(map[string]string, len(entries))
	steps := make([]schemaStep, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		matches := migrationFileName.FindStringSubmatch(name)
		if matches == nil {
			continue
		}
		version := matches[1]
		if previous, ok := byVersion[version]; ok {
			return nil, fmt.Errorf("duplicate migration version %s in %s and %s", version, previous, name)
		}
		byVersion[version] = name
		if done[version] {
			continue
		}

		order, err := strconv.Atoi(version)
		if err != nil {
			return nil, fmt.Errorf("parse migration version from %s: %w", name, err)
		}
		body, err := fs.ReadFile(m.files, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		steps = append(steps, schemaStep{version: version, order: order, file: name, sql: string(body)})
	}

	sort.Slice(steps, func(i, j int) bool {
		return steps[i].order < steps[j].order
	})
	return steps, nil
}

func (m *migrator) apply(step schemaStep) error {
	return m.database.Transaction(func(tx *gorm.DB) error {
		statements := splitStatements(step.sql)
		if len(statements) == 0 {
			return errors.New("migration has no SQL statements")
		}

		for _, statement := range statements {
			exists, err := columnAlreadyAdded(tx, statement)
			if err != nil {
				return fmt.Errorf("inspect migration %s: %w", step.file, err)
			}
			if exists {
				continue
			}
			if err := tx.Exec(statement).Error; err != nil {
				return fmt.Errorf("execute migration %s statement %q: %w", step.file, statement, err)
			}
		}

		if err := tx.Exec(`INSERT INTO schema_migrations(version, name) VALUES (?, ?)`, step.version, step.file).Error; err != nil {
			return fmt.Errorf("record migration %s: %w", step.file, err)
		}
		return nil
	})
}

func splitStatements(body string) []string {
	parts := strings.Split(body, ";")
	statements := make([]string, 0, len(parts))
	for _, part := range parts {
		if statement := strings.TrimSpace(part); statement != "" {
			statements = append(statements, statement)
		}
	}
	return statements
}

// columnAlreadyAdded makes ADD COLUMN statements idempotent; SQLite has no
// IF NOT EXISTS form for them.
func columnAlreadyAdded(database *gorm.DB, statement string) (bool, error) {
	matches := addColumnPattern.FindStringSubmatch(statement)
	if len(matches) != 3 {
		return false, nil
	}
	table := trimIdentifier(matches[1])
	column := trimIdentifier(matches[2])

	var columns []struct {
		Name string `gorm:"column:name"`
	}
	query := fmt.Sprintf(`PRAGMA table_info("%s")`, strings.ReplaceAll(table, `"`, `""`))
	if err := database.Raw(query).Scan(&columns).Error; err != nil {
		return false, fmt.Errorf("load table_info for %s: %w", table, err)
	}
	for _, existing := range columns {
		if strings.EqualFold(strings.TrimSpace(existing.Name), column) {
			return true, nil
		}
	}
	return false, nil
}

func trimIdentifier(identifier string) string {
	return strings.TrimSpace(strings.Trim(strings.TrimSpace(identifier), "\"`[]"))
}
