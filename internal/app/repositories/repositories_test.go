package repositories

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/examcraft/internal/app/models"
	"github.com/yigit/examcraft/internal/pkg/apperrors"
)

const (
	userID = "3f1c3b8e-8a3e-4a57-9d1e-2b8f3f5c6a10"
	examID = "9b2f7c64-1f0e-4c3a-8f57-5d7e2a1c0b33"
)

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		mock.Close()
	})
	return mock
}

func sampleComponents(t *testing.T) []byte {
	t.Helper()
	data, err := json.Marshal(models.Components{
		&models.TextComponent{BaseComponent: models.BaseComponent{ID: "t1"}, Content: "Explain", Points: models.Float(4)},
	})
	require.NoError(t, err)
	return data
}

func TestUserCreateMapsDuplicateEmail(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("a@b.fr", "hash", "Marie", "Curie", (*string)(nil)).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: usersEmailKey})

	err := repo.Create(context.Background(), &models.User{Email: "a@b.fr", Password: "hash", FirstName: "Marie", LastName: "Curie"})
	assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
}

func TestUserGetByEmailNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewUserRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, password")).
		WithArgs("nobody@b.fr").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "nobody@b.fr")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestExamGetByIDScopesToOwner(t *testing.T) {
	mock := newMock(t)
	repo := NewExamRepository(mock)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM exams WHERE id = $1 AND user_id = $2")).
		WithArgs(examID, userID).
		WillReturnRows(mock.NewRows(examColumns).
			AddRow(examID, userID, "Physique", sampleComponents(t), 4.0, []string{"physique"}, now, now))

	exam, err := repo.GetByID(context.Background(), userID, examID)
	require.NoError(t, err)
	assert.Equal(t, "Physique", exam.Title)
	require.Len(t, exam.Components, 1)
	assert.Equal(t, models.ComponentText, exam.Components[0].Kind())
	assert.Equal(t, []string{"physique"}, exam.Tags)
}

func TestExamGetByIDOfAnotherUserIsNotFound(t *testing.T) {
	mock := newMock(t)
	repo := NewExamRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("FROM exams WHERE id = $1 AND user_id = $2")).
		WithArgs(examID, "someone-else").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(context.Background(), "someone-else", examID)
	assert.ErrorIs(t, err, apperrors.ErrExamNotFound)
}

func TestExamListReadsWindowCount(t *testing.T) {
	mock := newMock(t)
	repo := NewExamRepository(mock)
	now := time.Now()

	cols := append(append([]string{}, examColumns...), "count")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, title")).
		WithArgs(userID).
		WillReturnRows(mock.NewRows(cols).
			AddRow(examID, userID, "A", []byte("[]"), 0.0, []string{}, now, now, int64(12)).
			AddRow("other", userID, "B", sampleComponents(t), 4.0, []string{}, now, now, int64(12)))

	exams, total, err := repo.List(context.Background(), userID, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)
	require.Len(t, exams, 2)
	assert.Empty(t, exams[0].Components)
	assert.Len(t, exams[1].Components, 1)
}

func TestExamCreate(t *testing.T) {
	mock := newMock(t)
	repo := NewExamRepository(mock)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO exams (user_id,title,components,total_points,tags)")).
		WithArgs(userID, "Untitled", pgxmock.AnyArg(), 0.0, []string{}).
		WillReturnRows(mock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(examID, now, now))

	exam := &models.Exam{UserID: userID}
	exam.Normalize()
	require.NoError(t, repo.Create(context.Background(), exam))
	assert.Equal(t, examID, exam.ID)
}

func TestExamUpdateOfMissingExam(t *testing.T) {
	mock := newMock(t)
	repo := NewExamRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE exams SET")).
		WithArgs("T", pgxmock.AnyArg(), 0.0, []string{}, examID, userID).
		WillReturnError(pgx.ErrNoRows)

	exam := &models.Exam{ID: examID, UserID: userID, Title: "T"}
	exam.Normalize()
	assert.ErrorIs(t, repo.Update(context.Background(), exam), apperrors.ErrExamNotFound)
}

func TestExamDelete(t *testing.T) {
	mock := newMock(t)
	repo := NewExamRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM exams WHERE id = $1 AND user_id = $2")).
		WithArgs(examID, userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM exams")).
		WithArgs(examID, userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, repo.Delete(context.Background(), userID, examID))
	assert.ErrorIs(t, repo.Delete(context.Background(), userID, examID), apperrors.ErrExamNotFound)
}

func TestQuestionBankListAppliesFilters(t *testing.T) {
	mock := newMock(t)
	repo := NewQuestionBankRepository(mock)
	component, err := models.EncodeComponent(&models.QCMComponent{
		BaseComponent: models.BaseComponent{ID: "q1"},
		Question:      "2+2?",
		Options:       []models.QCMOption{{ID: "a", Text: "4", IsCorrect: true}, {ID: "b", Text: "5"}},
	})
	require.NoError(t, err)
	difficulty, subject := "easy", "math"

	cols := append(append([]string{}, questionColumns...), "count")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id = $1 AND tags && $2 AND difficulty = $3 AND subject = $4 ORDER BY created_at DESC")).
		WithArgs(userID, []string{"algebra"}, "easy", "math").
		WillReturnRows(mock.NewRows(cols).
			AddRow("qb1", userID, component, []string{"algebra"}, &difficulty, &subject, 3, time.Now(), int64(1)))

	items, total, err := repo.List(context.Background(), userID, QuestionFilter{Tags: []string{"algebra"}, Difficulty: "easy", Subject: "math"}, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, models.ComponentQCM, items[0].Component.Kind())
	assert.Equal(t, 3, items[0].UsageCount)
}

func TestQuestionBankIncrementUsageOfMissingQuestion(t *testing.T) {
	mock := newMock(t)
	repo := NewQuestionBankRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE question_bank SET usage_count = usage_count + 1")).
		WithArgs("qb1", userID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	assert.ErrorIs(t, repo.IncrementUsage(context.Background(), userID, "qb1"), apperrors.ErrQuestionNotFound)
}

func TestTemplateListIncludesPublic(t *testing.T) {
	mock := newMock(t)
	repo := NewTemplateRepository(mock)
	header, err := models.EncodeComponent(models.NewDefault(models.ComponentHeader, 0))
	require.NoError(t, err)
	description := "Lycée"

	mock.ExpectQuery(regexp.QuoteMeta("WHERE (user_id = $1 OR is_public = $2) ORDER BY created_at DESC")).
		WithArgs(userID, true).
		WillReturnRows(mock.NewRows(templateColumns).
			AddRow("tp1", "admin", "Standard", &description, header, true, 7, time.Now()))

	templates, err := repo.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, templates, 1)
	assert.True(t, templates[0].IsPublic)
	assert.NotNil(t, templates[0].HeaderComponent)
}

func TestTemplateDeleteOnlyOwn(t *testing.T) {
	mock := newMock(t)
	repo := NewTemplateRepository(mock)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM templates WHERE id = $1 AND user_id = $2")).
		WithArgs("tp1", userID).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), userID, "tp1"), apperrors.ErrTemplateNotFound)
}
