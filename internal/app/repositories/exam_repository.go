package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/yigit/examcraft/internal/app/models"
	"github.com/yigit/examcraft/internal/pkg/apperrors"
	"github.com/yigit/examcraft/internal/pkg/dberrors"
)

var examColumns = []string{"id", "user_id", "title", "components", "total_points", "tags", "created_at", "updated_at"}

// ExamRepository handles database operations for exams. Every query is
// scoped to the owner, so an exam of another user reads as missing.
type ExamRepository struct {
	db DBTX
}

// NewExamRepository creates a new ExamRepository
func NewExamRepository(db DBTX) *ExamRepository {
	return &ExamRepository{db: db}
}

func scanExam(row pgx.Row, extra ...any) (*models.Exam, error) {
	var (
		e          models.Exam
		components []byte
	)
	dest := append([]any{&e.ID, &e.UserID, &e.Title, &components, &e.TotalPoints, &e.Tags, &e.CreatedAt, &e.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(components, &e.Components); err != nil {
		return nil, fmt.Errorf("exam %s: %w", e.ID, err)
	}
	return &e, nil
}

// List returns one page of the user's exams, most recently updated first,
// along with the total count
func (r *ExamRepository) List(ctx context.Context, userID string, offset, limit uint64) ([]*models.Exam, int64, error) {
	query := squirrel.Select(examColumns...).
		Column("COUNT(*) OVER()").
		From("exams").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("updated_at DESC").
		Limit(limit).
		Offset(offset).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	exams := []*models.Exam{}
	var total int64
	for rows.Next() {
		e, err := scanExam(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %w", err)
		}
		exams = append(exams, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %w", err)
	}
	return exams, total, nil
}

// GetByID retrieves an exam owned by userID
func (r *ExamRepository) GetByID(ctx context.Context, userID, id string) (*models.Exam, error) {
	query := squirrel.Select(examColumns...).
		From("exams").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	e, err := scanExam(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if dberrors.IsNotFound(err) {
			return nil, apperrors.ErrExamNotFound
		}
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	return e, nil
}

// Create inserts exam and fills its generated fields
func (r *ExamRepository) Create(ctx context.Context, exam *models.Exam) error {
	components, err := json.Marshal(exam.Components)
	if err != nil {
		return fmt.Errorf("error encoding components: %w", err)
	}

	query := squirrel.Insert("exams").
		Columns("user_id", "title", "components", "total_points", "tags").
		Values(exam.UserID, exam.Title, components, exam.TotalPoints, exam.Tags).
		Suffix("RETURNING id, created_at, updated_at").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exam.ID, &exam.CreatedAt, &exam.UpdatedAt); err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	return nil
}

// Update stores title, components, points and tags of an owned exam
func (r *ExamRepository) Update(ctx context.Context, exam *models.Exam) error {
	components, err := json.Marshal(exam.Components)
	if err != nil {
		return fmt.Errorf("error encoding components: %w", err)
	}

	query := squirrel.Update("exams").
		Set("title", exam.Title).
		Set("components", components).
		Set("total_points", exam.TotalPoints).
		Set("tags", exam.Tags).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": exam.ID, "user_id": exam.UserID}).
		Suffix("RETURNING updated_at").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&exam.UpdatedAt); err != nil {
		if dberrors.IsNotFound(err) {
			return apperrors.ErrExamNotFound
		}
		return fmt.Errorf("error executing query: %w", err)
	}
	return nil
}

// Delete removes an owned exam
func (r *ExamRepository) Delete(ctx context.Context, userID, id string) error {
	query := squirrel.Delete("exams").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsNotFound(err) {
			return apperrors.ErrExamNotFound
		}
		return fmt.Errorf("error executing query: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrExamNotFound
	}
	return nil
}
