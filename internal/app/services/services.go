package services

import (
	"context"

	"github.com/yigit/examcraft/internal/app/models"
	"github.com/yigit/examcraft/internal/app/repositories"
)

// Services defined in this package:
// - AuthService: registration and login of teachers
// - ExamService: exam CRUD, summaries, generated question import, draft snapshots
// - ExportService: PDF export of exams and correction grids
// - QuestionBankService: reusable questions
// - TemplateService: reusable exam headers

// UserStore is the persistence AuthService needs
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}

// ExamStore is the persistence ExamService needs. Every lookup is scoped to
// its owner.
type ExamStore interface {
	List(ctx context.Context, userID string, offset, limit uint64) ([]*models.Exam, int64, error)
	GetByID(ctx context.Context, userID, id string) (*models.Exam, error)
	Create(ctx context.Context, exam *models.Exam) error
	Update(ctx context.Context, exam *models.Exam) error
	Delete(ctx context.Context, userID, id string) error
}

// QuestionStore is the persistence QuestionBankService needs
type QuestionStore interface {
	List(ctx context.Context, userID string, filter repositories.QuestionFilter, offset, limit uint64) ([]*models.QuestionBankItem, int64, error)
	Create(ctx context.Context, item *models.QuestionBankItem) error
	Delete(ctx context.Context, userID, id string) error
	IncrementUsage(ctx context.Context, userID, id string) error
}

// TemplateStore is the persistence TemplateService needs
type TemplateStore interface {
	List(ctx context.Context, userID string) ([]*models.Template, error)
	Create(ctx context.Context, template *models.Template) error
	Delete(ctx context.Context, userID, id string) error
	IncrementUsage(ctx context.Context, userID, id string) error
}
