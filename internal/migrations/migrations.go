package migrations

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
)

type migration struct {
	Version int
	Name    string
	Path    string
}

// Apply runs every V<n>__*.sql file in dir that is not yet recorded in
// schema_migrations, in version order, each inside its own transaction.
func Apply(ctx context.Context, db *sqlx.DB, dir string) error {
	if err := ensureTable(ctx, db); err != nil {
		return err
	}
	migs, err := listMigrations(dir)
	if err != nil {
		return err
	}
	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return err
	}
	for _, mig := range migs {
		if applied[mig.Version] {
			continue
		}
		if err := applyMigration(ctx, db, mig); err != nil {
			return err
		}
	}
	return nil
}

func ensureTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version INTEGER PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`)
	if err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}
	return nil
}

func listMigrations(dir string) ([]migration, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	migs := make([]migration, 0, len(entries))
	seen := map[int]string{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}
		version, ok := parseVersion(name)
		if !ok {
			return nil, fmt.Errorf("migration %s: name must look like V<n>__description.sql", name)
		}
		if other, dup := seen[version]; dup {
			return nil, fmt.Errorf("migrations %s and %s share version %d", other, name, version)
		}
		seen[version] = name
		migs = append(migs, migration{
			Version: version,
			Name:    name,
			Path:    filepath.Join(dir, name),
		})
	}
	sort.Slice(migs, func(i, j int) bool { return migs[i].Version < migs[j].Version })
	return migs, nil
}

func appliedVersions(ctx context.Context, db *sqlx.DB) (map[int]bool, error) {
	rows := []int{}
	if err := db.SelectContext(ctx, &rows, `SELECT version FROM schema_migrations`); err != nil {
		return nil, err
	}
	applied := make(map[int]bool, len(rows))
	for _, version := range rows {
		applied[version] = true
	}
	return applied, nil
}

func applyMigration(ctx context.Context, db *sqlx.DB, mig migration) error {
	content, err := os.ReadFile(mig.Path)
	if err != nil {
		return err
	}
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("apply %s: %w", mig.Name, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version, name) VALUES ($1, $2)`, mig.Version, mig.Name); err != nil {
		return fmt.Errorf("record %s: %w", mig.Name, err)
	}
	return tx.Commit()
}

func parseVersion(name string) (int, bool) {
	if !strings.HasPrefix(name, "V") {
		return 0, false
	}
	raw, _, ok := strings.Cut(name[1:], "__")
	if !ok {
		return 0, false
	}
	value, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || value <= 0 {
		return 0, false
	}
	return value, true
}
