package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/examcraft/internal/app/models"
	"github.com/yigit/examcraft/internal/app/models/dto"
	"github.com/yigit/examcraft/internal/app/services"
	"github.com/yigit/examcraft/internal/middleware"
	"github.com/yigit/examcraft/internal/pkg/helpers"
)

// ExamController handles exam CRUD, drafts and generated questions
type ExamController struct {
	examService services.ExamService
	drafts      DraftStore
	autosave    DraftScheduler
}

// NewExamController creates a new ExamController. autosave may be nil, drafts
// are then only kept in the draft store.
func NewExamController(examService services.ExamService, drafts DraftStore, autosave DraftScheduler) *ExamController {
	return &ExamController{examService: examService, drafts: drafts, autosave: autosave}
}

// ListExams lists the exams of the signed in teacher
// @Summary List exams
// @Tags exams
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Page size (default: 20)"
// @Success 200 {object} dto.StructuredResponse{data=dto.PaginatedResponse{items=[]dto.ExamListItem}} "Exams"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /exams [get]
func (c *ExamController) ListExams(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)
	resp, err := c.examService.List(ctx.Request.Context(), userID, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(resp, "Exams retrieved"))
}

// GetExam returns one exam with its components
// @Summary Get exam
// @Tags exams
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exam ID"
// @Success 200 {object} dto.StructuredResponse{data=dto.ExamResponse} "Exam"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Router /exams/{id} [get]
func (c *ExamController) GetExam(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	exam, err := c.examService.Get(ctx.Request.Context(), userID, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.NewExamResponse(exam), "Exam retrieved"))
}

// CreateExam stores a new exam
// @Summary Create exam
// @Tags exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateExamRequest true "Exam"
// @Success 201 {object} dto.StructuredResponse{data=dto.ExamResponse} "Exam created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Router /exams [post]
func (c *ExamController) CreateExam(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	var req dto.CreateExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	exam, err := c.examService.Create(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(dto.NewExamResponse(exam), "Exam created"))
}

// UpdateExam replaces the given fields of an exam
// @Summary Update exam
// @Tags exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exam ID"
// @Param request body dto.UpdateExamRequest true "Fields to replace"
// @Success 200 {object} dto.StructuredResponse{data=dto.ExamResponse} "Exam updated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Router /exams/{id} [put]
func (c *ExamController) UpdateExam(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	var req dto.UpdateExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	exam, err := c.examService.Update(ctx.Request.Context(), userID, ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.NewExamResponse(exam), "Exam updated"))
}

// DeleteExam removes an exam
// @Summary Delete exam
// @Tags exams
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exam ID"
// @Success 200 {object} dto.StructuredResponse "Exam deleted"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Router /exams/{id} [delete]
func (c *ExamController) DeleteExam(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	if err := c.examService.Delete(ctx.Request.Context(), userID, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(nil, "Exam deleted"))
}

// GetSummary returns the totals of an exam
// @Summary Exam summary
// @Tags exams
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exam ID"
// @Success 200 {object} dto.StructuredResponse{data=models.Summary} "Summary"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Router /exams/{id}/summary [get]
func (c *ExamController) GetSummary(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	summary, err := c.examService.Summary(ctx.Request.Context(), userID, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(summary, "Summary computed"))
}

// ValidateComponents checks a component list against every structural rule
// @Summary Validate components
// @Description Reports every rule a component list breaks, without storing anything
// @Tags exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.DraftRequest true "Components to check"
// @Success 200 {object} dto.StructuredResponse{data=dto.ValidationReport} "Validation report"
// @Router /exams/validate [post]
func (c *ExamController) ValidateComponents(ctx *gin.Context) {
	var req dto.DraftRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	report := dto.ValidationReport{Valid: true}
	if err := models.Validate(req.Components); err != nil {
		var invalid *models.ValidationError
		if !errors.As(err, &invalid) {
			middleware.HandleAPIError(ctx, err)
			return
		}
		report = dto.ValidationReport{Valid: false, Issues: invalid.Issues}
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(report, "Components checked"))
}

// ImportGeneratedQuestions appends generated multiple choice questions
// @Summary Import generated questions
// @Tags exams
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exam ID"
// @Param request body dto.GeneratedQuestionsRequest true "Generated questions"
// @Success 200 {object} dto.StructuredResponse{data=dto.ExamResponse} "Questions imported"
// @Failure 400 {object} dto.ErrorResponse "Malformed question"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Router /exams/{id}/generated-questions [post]
func (c *ExamController) ImportGeneratedQuestions(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	var req dto.GeneratedQuestionsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	exam, err := c.examService.ImportGenerated(ctx.Request.Context(), userID, ctx.Param("id"), req.Questions)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.NewExamResponse(exam), "Questions imported"))
}

// SaveDraft stores an editor snapshot and schedules its write back
// @Summary Save draft
// @Tags drafts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exam ID"
// @Param request body dto.DraftRequest true "Editor snapshot"
// @Success 200 {object} dto.StructuredResponse{data=dto.DraftResponse} "Draft saved"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Router /exams/{id}/draft [put]
func (c *ExamController) SaveDraft(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	var req dto.DraftRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	if err := models.ValidateIdentity(req.Components); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	examID := ctx.Param("id")
	if _, err := c.examService.Get(ctx.Request.Context(), userID, examID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	draft, err := c.drafts.Save(ctx.Request.Context(), userID, examID, req.Title, req.Components)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if c.autosave != nil {
		c.autosave.Touch(userID, examID)
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.DraftResponse{
		Title:      draft.Title,
		Components: draft.Components,
		SavedAt:    draft.SavedAt,
	}, "Draft saved"))
}

// GetDraft returns the latest editor snapshot
// @Summary Get draft
// @Tags drafts
// @Produce json
// @Security BearerAuth
// @Param id path string true "Exam ID"
// @Success 200 {object} dto.StructuredResponse{data=dto.DraftResponse} "Draft"
// @Failure 404 {object} dto.ErrorResponse "No draft saved"
// @Router /exams/{id}/draft [get]
func (c *ExamController) GetDraft(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	draft, err := c.drafts.Load(ctx.Request.Context(), userID, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(dto.DraftResponse{
		Title:      draft.Title,
		Components: draft.Components,
		SavedAt:    draft.SavedAt,
	}, "Draft retrieved"))
}
