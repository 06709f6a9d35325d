package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/yigit/examcraft/internal/app/models"
	"github.com/yigit/examcraft/internal/app/models/dto"
	"github.com/yigit/examcraft/internal/app/repositories"
	"github.com/yigit/examcraft/internal/pkg/apperrors"
	"github.com/yigit/examcraft/internal/pkg/helpers"
)

// QuestionBankService manages the reusable questions of a teacher
type QuestionBankService struct {
	questionRepo QuestionStore
	logger       zerolog.Logger
}

// NewQuestionBankService creates a new QuestionBankService
func NewQuestionBankService(questionRepo QuestionStore, logger zerolog.Logger) *QuestionBankService {
	return &QuestionBankService{questionRepo: questionRepo, logger: logger}
}

// List returns one page of matching questions
func (s *QuestionBankService) List(ctx context.Context, userID string, filter *dto.QuestionBankFilter) (*dto.PaginatedResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.PageSize)
	items, total, err := s.questionRepo.List(ctx, userID, repositories.QuestionFilter{
		Tags:       filter.Tags,
		Difficulty: filter.Difficulty,
		Subject:    filter.Subject,
	}, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing questions: %w", err)
	}
	return &dto.PaginatedResponse{
		Items:      items,
		Pagination: helpers.NewPaginationInfo(total, filter.Page, int(limit)),
	}, nil
}

// Add saves a component to the bank. Page breaks and unknown types carry
// nothing worth reusing and are refused.
func (s *QuestionBankService) Add(ctx context.Context, userID string, req *dto.CreateQuestionRequest) (*models.QuestionBankItem, error) {
	component, err := models.DecodeComponent(req.Component)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrValidationFailed, err)
	}
	if _, unknown := component.(*models.UnknownComponent); unknown {
		return nil, fmt.Errorf("%w: unknown component type %q", apperrors.ErrValidationFailed, component.Kind())
	}
	if component.Kind() == models.ComponentPageBreak {
		return nil, fmt.Errorf("%w: page breaks cannot be saved", apperrors.ErrValidationFailed)
	}
	if component.Base().ID == "" {
		component.Base().ID = models.NewComponentID(component.Kind())
	}

	item := &models.QuestionBankItem{
		UserID:     userID,
		Component:  component,
		Tags:       req.Tags,
		Difficulty: req.Difficulty,
		Subject:    req.Subject,
	}
	if item.Tags == nil {
		item.Tags = []string{}
	}
	if err := s.questionRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("error saving question: %w", err)
	}
	return item, nil
}

// Delete removes an owned question
func (s *QuestionBankService) Delete(ctx context.Context, userID, id string) error {
	return s.questionRepo.Delete(ctx, userID, id)
}

// Use counts one reuse of an owned question
func (s *QuestionBankService) Use(ctx context.Context, userID, id string) error {
	return s.questionRepo.IncrementUsage(ctx, userID, id)
}

// TemplateService manages reusable exam headers
type TemplateService struct {
	templateRepo TemplateStore
	logger       zerolog.Logger
}

// NewTemplateService creates a new TemplateService
func NewTemplateService(templateRepo TemplateStore, logger zerolog.Logger) *TemplateService {
	return &TemplateService{templateRepo: templateRepo, logger: logger}
}

// List returns the user's templates and the public ones
func (s *TemplateService) List(ctx context.Context, userID string) ([]*models.Template, error) {
	return s.templateRepo.List(ctx, userID)
}

// Create saves a header as a template
func (s *TemplateService) Create(ctx context.Context, userID string, req *dto.CreateTemplateRequest) (*models.Template, error) {
	header := req.HeaderComponent
	if header.ID == "" {
		header.ID = models.NewComponentID(models.ComponentHeader)
	}
	template := &models.Template{
		UserID:          userID,
		Name:            req.Name,
		Description:     req.Description,
		HeaderComponent: header,
		IsPublic:        req.IsPublic,
	}
	if err := s.templateRepo.Create(ctx, template); err != nil {
		return nil, fmt.Errorf("error saving template: %w", err)
	}
	s.logger.Info().Str("templateId", template.ID).Bool("public", template.IsPublic).Msg("Template created")
	return template, nil
}

// Delete removes an owned template
func (s *TemplateService) Delete(ctx context.Context, userID, id string) error {
	return s.templateRepo.Delete(ctx, userID, id)
}

// Use counts one use of a visible template
func (s *TemplateService) Use(ctx context.Context, userID, id string) error {
	return s.templateRepo.IncrementUsage(ctx, userID, id)
}
