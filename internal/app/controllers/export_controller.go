package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/yigit/examcraft/internal/app/models/dto"
	"github.com/yigit/examcraft/internal/middleware"
)

// ExportController serves PDF exports
type ExportController struct {
	exporter Exporter
}

// NewExportController creates a new ExportController
func NewExportController(exporter Exporter) *ExportController {
	return &ExportController{exporter: exporter}
}

// ExportExam exports a stored exam
// @Summary Export exam to PDF
// @Description Renders the exam to an A4 PDF. Options are optional, missing flags are false.
// @Tags export
// @Accept json
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Exam ID"
// @Param request body dto.ExportOptions false "Export options"
// @Success 200 {file} file "PDF document"
// @Failure 400 {object} dto.ErrorResponse "Exam has no components"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Failure 409 {object} dto.ErrorResponse "Export already running"
// @Failure 500 {object} dto.ErrorResponse "failed to generate PDF, try again"
// @Router /exams/{id}/export [post]
func (c *ExportController) ExportExam(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	var opts dto.ExportOptions
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&opts); err != nil {
			middleware.HandleBindingError(ctx, err)
			return
		}
	}
	doc, err := c.exporter.ExportExam(ctx.Request.Context(), userID, ctx.Param("id"), opts)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	sendPDF(ctx, doc)
}

// ExportCorrectionGrid builds the grading sheet of a stored exam
// @Summary Export correction grid
// @Tags export
// @Produce application/pdf
// @Security BearerAuth
// @Param id path string true "Exam ID"
// @Success 200 {file} file "PDF document"
// @Failure 400 {object} dto.ErrorResponse "Exam has no components"
// @Failure 404 {object} dto.ErrorResponse "Exam not found"
// @Router /exams/{id}/correction-grid [post]
func (c *ExportController) ExportCorrectionGrid(ctx *gin.Context) {
	userID, ok := currentUser(ctx)
	if !ok {
		return
	}
	doc, err := c.exporter.CorrectionGridForExam(ctx.Request.Context(), userID, ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	sendPDF(ctx, doc)
}

// ExportAdHoc exports components sent in the request
// @Summary Export unsaved exam to PDF
// @Tags export
// @Accept json
// @Produce application/pdf
// @Security BearerAuth
// @Param request body dto.AdHocExportRequest true "Exam and options"
// @Success 200 {file} file "PDF document"
// @Failure 400 {object} dto.ErrorResponse "Exam has no components"
// @Failure 500 {object} dto.ErrorResponse "failed to generate PDF, try again"
// @Router /export [post]
func (c *ExportController) ExportAdHoc(ctx *gin.Context) {
	var req dto.AdHocExportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	doc, err := c.exporter.Export(ctx.Request.Context(), req.Title, req.Components, req.Options)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	sendPDF(ctx, doc)
}

// CorrectionGridAdHoc builds the grading sheet of components sent in the request
// @Summary Export correction grid of an unsaved exam
// @Tags export
// @Accept json
// @Produce application/pdf
// @Security BearerAuth
// @Param request body dto.AdHocExportRequest true "Exam"
// @Success 200 {file} file "PDF document"
// @Failure 400 {object} dto.ErrorResponse "Exam has no components"
// @Router /export/correction-grid [post]
func (c *ExportController) CorrectionGridAdHoc(ctx *gin.Context) {
	var req dto.AdHocExportRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		middleware.HandleBindingError(ctx, err)
		return
	}
	doc, err := c.exporter.CorrectionGrid(req.Title, req.Components)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	sendPDF(ctx, doc)
}
