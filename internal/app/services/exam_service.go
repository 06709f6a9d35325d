package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/yigit/examcraft/internal/app/models"
	"github.com/yigit/examcraft/internal/app/models/dto"
	"github.com/yigit/examcraft/internal/pkg/helpers"
)

// ExamService defines the exam operations of a signed in teacher. An exam
// of another user behaves exactly like a missing one.
type ExamService interface {
	List(ctx context.Context, userID string, page, size int) (*dto.PaginatedResponse, error)
	Get(ctx context.Context, userID, id string) (*models.Exam, error)
	Create(ctx context.Context, userID string, req *dto.CreateExamRequest) (*models.Exam, error)
	Update(ctx context.Context, userID, id string, req *dto.UpdateExamRequest) (*models.Exam, error)
	Delete(ctx context.Context, userID, id string) error
	Summary(ctx context.Context, userID, id string) (*models.Summary, error)
	ImportGenerated(ctx context.Context, userID, id string, questions []models.GeneratedQuestion) (*models.Exam, error)
	SaveSnapshot(ctx context.Context, userID, id, title string, components models.Components) error
}

type examServiceImpl struct {
	examRepo ExamStore
	logger   zerolog.Logger
}

// NewExamService creates a new ExamService
func NewExamService(examRepo ExamStore, logger zerolog.Logger) ExamService {
	return &examServiceImpl{examRepo: examRepo, logger: logger}
}

// List returns one page of the user's exams without their components
func (s *examServiceImpl) List(ctx context.Context, userID string, page, size int) (*dto.PaginatedResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	exams, total, err := s.examRepo.List(ctx, userID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("error listing exams: %w", err)
	}

	items := lo.Map(exams, func(e *models.Exam, _ int) dto.ExamListItem { return dto.NewExamListItem(e) })
	return &dto.PaginatedResponse{
		Items:      items,
		Pagination: helpers.NewPaginationInfo(total, page, int(limit)),
	}, nil
}

// Get retrieves an owned exam
func (s *examServiceImpl) Get(ctx context.Context, userID, id string) (*models.Exam, error) {
	return s.examRepo.GetByID(ctx, userID, id)
}

// Create stores a new exam. A blank title becomes the default one and the
// total is derived from the components.
func (s *examServiceImpl) Create(ctx context.Context, userID string, req *dto.CreateExamRequest) (*models.Exam, error) {
	if err := models.ValidateIdentity(req.Components); err != nil {
		return nil, err
	}

	exam := &models.Exam{
		UserID:     userID,
		Title:      req.Title,
		Components: req.Components,
		Tags:       req.Tags,
	}
	exam.Normalize()
	if err := s.examRepo.Create(ctx, exam); err != nil {
		return nil, fmt.Errorf("error creating exam: %w", err)
	}

	s.logger.Info().Str("examId", exam.ID).Str("userId", userID).Int("components", len(exam.Components)).Msg("Exam created")
	return exam, nil
}

// Update replaces the fields present in req
func (s *examServiceImpl) Update(ctx context.Context, userID, id string, req *dto.UpdateExamRequest) (*models.Exam, error) {
	exam, err := s.examRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		exam.Title = *req.Title
	}
	if req.Components != nil {
		if err := models.ValidateIdentity(*req.Components); err != nil {
			return nil, err
		}
		exam.Components = *req.Components
	}
	if req.Tags != nil {
		exam.Tags = *req.Tags
	}
	return exam, s.save(ctx, exam)
}

// Delete removes an owned exam
func (s *examServiceImpl) Delete(ctx context.Context, userID, id string) error {
	if err := s.examRepo.Delete(ctx, userID, id); err != nil {
		return err
	}
	s.logger.Info().Str("examId", id).Str("userId", userID).Msg("Exam deleted")
	return nil
}

// Summary computes the totals of an owned exam
func (s *examServiceImpl) Summary(ctx context.Context, userID, id string) (*models.Summary, error) {
	exam, err := s.examRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	summary := models.Summarize(exam.Components)
	return &summary, nil
}

// ImportGenerated appends one qcm per generated question. Nothing is stored
// when any question is malformed.
func (s *examServiceImpl) ImportGenerated(ctx context.Context, userID, id string, questions []models.GeneratedQuestion) (*models.Exam, error) {
	exam, err := s.examRepo.GetByID(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	next := len(exam.Components)
	for _, c := range exam.Components {
		if c != nil {
			next = max(next, c.Base().Order+1)
		}
	}
	for i, q := range questions {
		qcm, err := models.FromGenerated(q, next+i)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		exam.Components = append(exam.Components, qcm)
	}

	if err := s.save(ctx, exam); err != nil {
		return nil, err
	}
	s.logger.Info().Str("examId", id).Int("imported", len(questions)).Msg("Generated questions imported")
	return exam, nil
}

// SaveSnapshot writes an editor snapshot over the stored exam. An empty
// title keeps the stored one.
func (s *examServiceImpl) SaveSnapshot(ctx context.Context, userID, id, title string, components models.Components) error {
	if err := models.ValidateIdentity(components); err != nil {
		return err
	}
	exam, err := s.examRepo.GetByID(ctx, userID, id)
	if err != nil {
		return err
	}
	if title != "" {
		exam.Title = title
	}
	exam.Components = components
	return s.save(ctx, exam)
}

func (s *examServiceImpl) save(ctx context.Context, exam *models.Exam) error {
	exam.Normalize()
	if err := s.examRepo.Update(ctx, exam); err != nil {
		return fmt.Errorf("error updating exam: %w", err)
	}
	return nil
}
