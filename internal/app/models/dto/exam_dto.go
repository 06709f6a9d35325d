package dto

import (
	"time"

	"github.com/yigit/examcraft/internal/app/models"
)

// CreateExamRequest creates an exam. An empty title becomes "Untitled".
type CreateExamRequest struct {
	Title      string            `json:"title" binding:"max=255" example:"Contrôle de physique"`
	Components models.Components `json:"components"`
	Tags       []string          `json:"tags" binding:"omitempty,max=20,dive,max=50"`
}

// UpdateExamRequest replaces only the fields it carries
type UpdateExamRequest struct {
	Title      *string            `json:"title,omitempty" binding:"omitempty,max=255"`
	Components *models.Components `json:"components,omitempty"`
	Tags       *[]string          `json:"tags,omitempty" binding:"omitempty,max=20"`
}

// ExamResponse is a full exam
type ExamResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Components  models.Components `json:"components"`
	TotalPoints float64           `json:"totalPoints" example:"20"`
	Tags        []string          `json:"tags"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// ExamListItem is an exam without its components
type ExamListItem struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	TotalPoints    float64   `json:"totalPoints"`
	ComponentCount int       `json:"componentCount"`
	Tags           []string  `json:"tags"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// NewExamResponse maps an exam onto its representation
func NewExamResponse(e *models.Exam) ExamResponse {
	return ExamResponse{
		ID:          e.ID,
		Title:       e.Title,
		Components:  e.Components,
		TotalPoints: e.TotalPoints,
		Tags:        e.Tags,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

// NewExamListItem maps an exam onto its list representation
func NewExamListItem(e *models.Exam) ExamListItem {
	return ExamListItem{
		ID:             e.ID,
		Title:          e.Title,
		TotalPoints:    e.TotalPoints,
		ComponentCount: len(e.Components),
		Tags:           e.Tags,
		UpdatedAt:      e.UpdatedAt,
	}
}

// ExportOptions tunes one export
type ExportOptions struct {
	HidePoints    bool   `json:"hidePoints" example:"false"`
	Watermark     string `json:"watermark" binding:"max=40" example:"BROUILLON"`
	AutoNumbering bool   `json:"autoNumbering" example:"true"`
}

// AdHocExportRequest exports components that are not stored
type AdHocExportRequest struct {
	Title      string            `json:"title" binding:"max=255"`
	Components models.Components `json:"components"`
	Options    ExportOptions     `json:"options"`
}

// GeneratedQuestionsRequest imports questions from the generation service
type GeneratedQuestionsRequest struct {
	Questions []models.GeneratedQuestion `json:"questions" binding:"required,min=1,max=50"`
}

// DraftRequest is an editor snapshot sent by the autosave loop
type DraftRequest struct {
	Title      string            `json:"title" binding:"max=255"`
	Components models.Components `json:"components"`
}

// DraftResponse is the latest snapshot of an exam being edited
type DraftResponse struct {
	Title      string            `json:"title"`
	Components models.Components `json:"components"`
	SavedAt    time.Time         `json:"savedAt"`
}

// ValidationReport lists the rule violations of a component list
type ValidationReport struct {
	Valid  bool                    `json:"valid"`
	Issues []models.ComponentIssue `json:"issues,omitempty"`
}
