package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/examcraft/internal/app/models/dto"
	"github.com/yigit/examcraft/internal/middleware"
)

// LibraryController serves the question bank and header templates
type LibraryController struct {
	questions QuestionBank
	templates Templates
}

// NewLibraryController creates a new LibraryController
func NewLibraryController(questions QuestionBank, templates Templates) *LibraryController {
	return &LibraryController{questions: questions, templates: templates}
}

// ListQuestions lists saved components
// @Summary List question bank
// @Tags question-bank
// @Produce json
// @Security BearerAuth
// @Param tags query []string false "Any of these tags"
// @Param difficulty query string false "easy, medium or hard"
// @Param subject query string false "Subject"
// @Param page query int false "Page number (default: 1)"
// @Param pageSize query int false "Page size (default: 20)"
// @Success 200 {object} dto.StructuredResponse{data=dto.PaginatedResponse{items=[]models.QuestionBankItem}} "Questions"
// @Failure 400 {object} dto.ErrorResponse "Invalid filter"
// @Router /question-bank [get]
func (c *LibraryController) ListQuestions(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	var filter dto.QuestionBankFilter
	if err := ctx.ShouldBindQuery(&filter); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	resp, err := c.questions.List(ctx.Request.Context(), userID, &filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(resp, "Questions retrieved"))
}

// AddQuestion saves a component to the question bank
// @Summary Add question
// @Tags question-bank
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateQuestionRequest true "Component and metadata"
// @Success 201 {object} dto.StructuredResponse{data=models.QuestionBankItem} "Question saved"
// @Failure 400 {object} dto.ErrorResponse "Invalid component"
// @Router /question-bank [post]
func (c *LibraryController) AddQuestion(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	var req dto.CreateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	item, err := c.questions.Add(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(item, "Question saved"))
}

// DeleteQuestion removes a saved component
// @Summary Delete question
// @Tags question-bank
// @Produce json
// @Security BearerAuth
// @Param id path string true "Question ID"
// @Success 200 {object} dto.StructuredResponse "Question deleted"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /question-bank/{id} [delete]
func (c *LibraryController) DeleteQuestion(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	if err := c.questions.Delete(ctx.Request.Context(), userID, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(nil, "Question deleted"))
}

// UseQuestion counts one reuse of a saved component
// @Summary Record question usage
// @Tags question-bank
// @Produce json
// @Security BearerAuth
// @Param id path string true "Question ID"
// @Success 200 {object} dto.StructuredResponse "Usage recorded"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /question-bank/{id}/use [post]
func (c *LibraryController) UseQuestion(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	if err := c.questions.Use(ctx.Request.Context(), userID, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(nil, "Usage recorded"))
}

// ListTemplates lists own and public header templates
// @Summary List templates
// @Tags templates
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StructuredResponse{data=[]models.Template} "Templates"
// @Router /templates [get]
func (c *LibraryController) ListTemplates(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	templates, err := c.templates.List(ctx.Request.Context(), userID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(templates, "Templates retrieved"))
}

// CreateTemplate saves a reusable header
// @Summary Create template
// @Tags templates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTemplateRequest true "Template"
// @Success 201 {object} dto.StructuredResponse{data=models.Template} "Template created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request format"
// @Router /templates [post]
func (c *LibraryController) CreateTemplate(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	var req dto.CreateTemplateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	template, err := c.templates.Create(ctx.Request.Context(), userID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(template, "Template created"))
}

// DeleteTemplate removes one of the caller's templates
// @Summary Delete template
// @Tags templates
// @Produce json
// @Security BearerAuth
// @Param id path string true "Template ID"
// @Success 200 {object} dto.StructuredResponse "Template deleted"
// @Failure 404 {object} dto.ErrorResponse "Template not found"
// @Router /templates/{id} [delete]
func (c *LibraryController) DeleteTemplate(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	if err := c.templates.Delete(ctx.Request.Context(), userID, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(nil, "Template deleted"))
}

// UseTemplate counts one application of a template
// @Summary Record template usage
// @Tags templates
// @Produce json
// @Security BearerAuth
// @Param id path string true "Template ID"
// @Success 200 {object} dto.StructuredResponse "Usage recorded"
// @Failure 404 {object} dto.ErrorResponse "Template not found"
// @Router /templates/{id}/use [post]
func (c *LibraryController) UseTemplate(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	if err := c.templates.Use(ctx.Request.Context(), userID, ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewStructuredResponse(nil, "Usage recorded"))
}
