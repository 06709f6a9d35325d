package repositories

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/yigit/examcraft/internal/app/models"
	"github.com/yigit/examcraft/internal/pkg/apperrors"
)

var templateColumns = []string{"id", "user_id", "name", "description", "header_component", "is_public", "usage_count", "created_at"}

// TemplateRepository handles database operations for header templates
type TemplateRepository struct {
	db DBTX
}

// NewTemplateRepository creates a new TemplateRepository
func NewTemplateRepository(db DBTX) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// List returns the user's own templates and every public one, newest first
func (r *TemplateRepository) List(ctx context.Context, userID string) ([]*models.Template, error) {
	sql, args, err := squirrel.Select(templateColumns...).
		From("templates").
		Where(squirrel.Or{squirrel.Eq{"user_id": userID}, squirrel.Eq{"is_public": true}}).
		OrderBy("created_at DESC").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing query: %w", err)
	}
	defer rows.Close()

	templates := []*models.Template{}
	for rows.Next() {
		var (
			t      models.Template
			header []byte
		)
		if err := rows.Scan(&t.ID, &t.UserID, &t.Name, &t.Description, &header, &t.IsPublic, &t.UsageCount, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning row: %w", err)
		}
		t.HeaderComponent = &models.HeaderComponent{}
		if err := json.Unmarshal(header, t.HeaderComponent); err != nil {
			return nil, fmt.Errorf("template %s: %w", t.ID, err)
		}
		templates = append(templates, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return templates, nil
}

// Create inserts template and fills its generated fields
func (r *TemplateRepository) Create(ctx context.Context, template *models.Template) error {
	header, err := models.EncodeComponent(template.HeaderComponent)
	if err != nil {
		return fmt.Errorf("error encoding header: %w", err)
	}

	sql, args, err := squirrel.Insert("templates").
		Columns("user_id", "name", "description", "header_component", "is_public").
		Values(template.UserID, template.Name, template.Description, header, template.IsPublic).
		Suffix("RETURNING id, usage_count, created_at").
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&template.ID, &template.UsageCount, &template.CreatedAt); err != nil {
		return fmt.Errorf("error executing query: %w", err)
	}
	return nil
}

// PublicNameExists reports whether a public template is already called name
func (r *TemplateRepository) PublicNameExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, "SELECT EXISTS(SELECT 1 FROM templates WHERE is_public AND name = $1)", name).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("error executing query: %w", err)
	}
	return exists, nil
}

// Delete removes a template owned by userID
func (r *TemplateRepository) Delete(ctx context.Context, userID, id string) error {
	sql, args, err := squirrel.Delete("templates").
		Where(squirrel.Eq{"id": id, "user_id": userID}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	return execOwned(ctx, r.db, sql, args, apperrors.ErrTemplateNotFound)
}

// IncrementUsage counts one more use of a template visible to userID
func (r *TemplateRepository) IncrementUsage(ctx context.Context, userID, id string) error {
	sql, args, err := squirrel.Update("templates").
		Set("usage_count", squirrel.Expr("usage_count + 1")).
		Where(squirrel.Eq{"id": id}).
		Where(squirrel.Or{squirrel.Eq{"user_id": userID}, squirrel.Eq{"is_public": true}}).
		PlaceholderFormat(squirrel.Dollar).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}
	return execOwned(ctx, r.db, sql, args, apperrors.ErrTemplateNotFound)
}
