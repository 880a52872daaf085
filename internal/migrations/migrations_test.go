package migrations

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMigrations(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}
	return dir
}

func TestParseVersion(t *testing.T) {
	v, ok := parseVersion("V12__add_marks.sql")
	assert.True(t, ok)
	assert.Equal(t, 12, v)

	for _, name := range []string{"12__x.sql", "Vx__x.sql", "V3.sql", "V0__zero.sql"} {
		_, ok := parseVersion(name)
		assert.False(t, ok, name)
	}
}

func TestListMigrationsOrdersByVersion(t *testing.T) {
	dir := writeMigrations(t, map[string]string{
		"V10__ten.sql": "SELECT 10",
		"V2__two.sql":  "SELECT 2",
		"V1__one.sql":  "SELECT 1",
		"README.md":    "ignored",
	})
	migs, err := listMigrations(dir)
	require.NoError(t, err)
	require.Len(t, migs, 3)
	assert.Equal(t, []int{1, 2, 10}, []int{migs[0].Version, migs[1].Version, migs[2].Version})
}

func TestListMigrationsRejectsBadNames(t *testing.T) {
	dir := writeMigrations(t, map[string]string{"init.sql": "SELECT 1"})
	_, err := listMigrations(dir)
	assert.Error(t, err)

	dir = writeMigrations(t, map[string]string{"V1__a.sql": "", "V1__b.sql": ""})
	_, err = listMigrations(dir)
	assert.Error(t, err)
}

func TestApplySkipsRecordedVersions(t *testing.T) {
	dir := writeMigrations(t, map[string]string{
		"V1__students.sql": "CREATE TABLE students (id BIGSERIAL PRIMARY KEY)",
		"V2__marks.sql":    "CREATE TABLE marks (id BIGSERIAL PRIMARY KEY)",
	})
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := sqlx.NewDb(raw, "pgx")
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS schema_migrations")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT version FROM schema_migrations")).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(1))
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE marks")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schema_migrations")).
		WithArgs(int64(2), "V2__marks.sql").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, Apply(context.Background(), db, dir))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyRollsBackFailedMigration(t *testing.T) {
	dir := writeMigrations(t, map[string]string{"V1__broken.sql": "CREATE TABLE"})
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := sqlx.NewDb(raw, "pgx")
	defer db.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery("SELECT version FROM schema_migrations").WillReturnRows(sqlmock.NewRows([]string{"version"}))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err = Apply(context.Background(), db, dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "V1__broken.sql")
	assert.NoError(t, mock.ExpectationsWereMet())
}
