package seed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const libraryID = "0d9f1d5e-3a55-4b0c-9a51-4c3f1a7e2b10"

func TestCreateDefaultDataSkipsExistingTemplates(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT EXISTS\\(SELECT 1 FROM users").WithArgs(LibraryEmail).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery("SELECT id, email, password").WithArgs(LibraryEmail).
		WillReturnRows(pgxmock.NewRows([]string{"id", "email", "password", "first_name", "last_name", "institution", "created_at", "updated_at"}).
			AddRow(libraryID, LibraryEmail, "hash", "ExamCraft", "Library", nil, now, now))

	templates := DefaultTemplates()
	mock.ExpectQuery("SELECT EXISTS\\(SELECT 1 FROM templates").WithArgs(templates[0].Name).
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))
	for i, tpl := range templates[1:] {
		mock.ExpectQuery("SELECT EXISTS\\(SELECT 1 FROM templates").WithArgs(tpl.Name).
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectQuery("INSERT INTO templates").
			WithArgs(libraryID, tpl.Name, pgxmock.AnyArg(), pgxmock.AnyArg(), true).
			WillReturnRows(pgxmock.NewRows([]string{"id", "usage_count", "created_at"}).AddRow("tpl-"+string(rune('a'+i)), 0, now))
	}

	require.NoError(t, CreateDefaultData(context.Background(), mock, zerolog.Nop()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateDefaultDataStopsWithoutOwner(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT EXISTS\\(SELECT 1 FROM users").WithArgs(LibraryEmail).
		WillReturnError(errors.New("connection reset"))

	err = CreateDefaultData(context.Background(), mock, zerolog.Nop())
	assert.ErrorContains(t, err, "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDefaultTemplatesArePublicHeaders(t *testing.T) {
	for _, tpl := range DefaultTemplates() {
		assert.True(t, tpl.IsPublic)
		require.NotNil(t, tpl.HeaderComponent)
		assert.NotEmpty(t, tpl.HeaderComponent.ID)
		assert.Equal(t, tpl.Name, tpl.HeaderComponent.ExamTitle)
	}
}
