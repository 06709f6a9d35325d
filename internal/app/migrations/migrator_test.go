package migrations

import (
	"context"
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFS() fstest.MapFS {
	return fstest.MapFS{
		"002_tags.sql": {Data: []byte("ALTER TABLE exams ADD COLUMN x INT")},
		"001_init.sql": {Data: []byte("CREATE TABLE exams (id UUID)")},
		"README.md":    {Data: []byte("not a migration")},
	}
}

func TestMigrateAllAppliesPendingInOrder(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").WillReturnResult(pgxmock.NewResult("CREATE", 0))

	mock.ExpectQuery("SELECT EXISTS").WithArgs("001").WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	mock.ExpectQuery("SELECT EXISTS").WithArgs("002").WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec("ALTER TABLE exams").WillReturnResult(pgxmock.NewResult("ALTER", 0))
	mock.ExpectExec("INSERT INTO schema_migrations").WithArgs("002").WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	m := NewMigrator(mock, zerolog.Nop())
	require.NoError(t, m.MigrateAll(context.Background(), testFS()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyRollsBackOnFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT EXISTS").WithArgs("001").WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE exams").WillReturnError(errors.New("syntax error"))
	mock.ExpectRollback()

	m := NewMigrator(mock, zerolog.Nop())
	err = m.Apply(context.Background(), testFS(), "001_init.sql")
	assert.ErrorContains(t, err, "001_init.sql")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEmbeddedMigrationsCreateTables(t *testing.T) {
	data, err := fs.ReadFile(Files(), "001_init.sql")
	require.NoError(t, err)
	for _, table := range []string{"users", "exams", "question_bank", "templates"} {
		assert.Contains(t, string(data), "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
	assert.Contains(t, string(data), "CONSTRAINT users_email_key UNIQUE")
}
