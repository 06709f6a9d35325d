package repositories

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/yigit/examcraft/internal/app/models"
	"github.com/yigit/examcraft/internal/pkg/apperrors"
	"github.com/yigit/examcraft/internal/pkg/dberrors"
)

var questionColumns = []string{"id", "user_id", "component", "tags", "difficulty", "subject", "usage_count", "created_at"}

// QuestionFilter narrows a question bank listing. Zero fields match everything.
type QuestionFilter struct {
	Tags       []string // any overlap matches
	Difficulty string
	Subject    string
}

// QuestionBankRepository handles database operations for saved questions
type QuestionBankRepository struct {
	db DBTX
}

// NewQuestionBankRepository creates a new QuestionBankRepository
func NewQuestionBankRepository(db DBTX) *QuestionBankRepository {
	return &QuestionBankRepository{db: db}
}

func scanQuestion(row pgx.Row, extra ...any) (*models.QuestionBankItem, error) {
	var (
		q         models.QuestionBankItem
		component []byte
	)
	dest := append([]any{&q.ID, &q.UserID, &component, &q.Tags, &q.Difficulty, &q.Subject, &q.UsageCount, &q.CreatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	c, err := models.DecodeComponent(component)
	if err != nil {
		return nil, fmt.Errorf("question %s: %w", q.ID, err)
	}
	q.Component = c
	return &q, nil
}

// List returns one page of the user's questions, newest first
func (r *QuestionBankRepository) List(ctx context.Context, userID string, filter QuestionFilter, offset, limit uint64) ([]*models.QuestionBankItem, int64, error) {
	query := squirrel.Select(questionColumns...).
		Column("COUNT(*) OVER()").
		From("question_bank").
		Where(squirrel.Eq{"user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	if len(filter.Tags) > 0 {
		query = query.Where("tags && ?", filter.Tags)
	}
	if filter.Difficulty != "" {
		query = query.Where(squirrel.Eq{"difficulty": filter.Difficulty})
	}
	if filter.Subject != "" {
		query = query.Where(squirrel.Eq{"subject": filter.Subject})
	}
	query = query.OrderBy("created_at DESC").Limit(limit).Offset(offset)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	items := []*models.QuestionBankItem{}
	var total int64
	for rows.Next() {
		q, err := scanQuestion(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		items = append(items, q)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}
	return items, total, nil
}

// Create inserts item and fills its generated fields
func (r *QuestionBankRepository) Create(ctx context.Context, item *models.QuestionBankItem) error {
	component, err := models.EncodeComponent(item.Component)
	if err != nil {
		return fmt.Errorf("error encoding component: %w", err)
	}

	query := squirrel.Insert("question_bank").
		Columns("user_id", "component", "tags", "difficulty", "subject").
		Values(item.UserID, component, item.Tags, item.Difficulty, item.Subject).
		Suffix("RETURNING id, usage_count, created_at").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&item.ID, &item.UsageCount, &item.CreatedAt); err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	return nil
}

// Delete removes an owned question
func (r *QuestionBankRepository) Delete(ctx context.Context, userID, id string) error {
	sql, args, err := squirrel.Delete("question_bank").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	return execOwned(ctx, r.db, sql, args, apperrors.ErrQuestionNotFound)
}

// IncrementUsage counts one more reuse of an owned question
func (r *QuestionBankRepository) IncrementUsage(ctx context.Context, userID, id string) error {
	sql, args, err := squirrel.Update("question_bank").
		Set("usage_count", squirrel.Expr("usage_count + 1")).
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	return execOwned(ctx, r.db, sql, args, apperrors.ErrQuestionNotFound)
}

// execOwned runs a statement that must touch exactly one visible row
func execOwned(ctx context.Context, db DBTX, sql string, args []any, notFound error) error {
	result, err := db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsNotFound(err) {
			return notFound
		}
		return fmt.Errorf("error executing query: %w", err)
	}
	if result.RowsAffected() == 0 {
		return notFound
	}
	return nil
}
