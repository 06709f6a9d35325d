package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/examcraft/internal/app/autosave"
	"github.com/yigit/examcraft/internal/app/models"
	"github.com/yigit/examcraft/internal/app/models/dto"
	"github.com/yigit/examcraft/internal/app/services"
	"github.com/yigit/examcraft/internal/middleware"
)

// Authenticator is the account API the auth endpoints need
type Authenticator interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	Me(ctx context.Context, userID string) (*dto.UserResponse, error)
}

// Exporter produces the PDF documents
type Exporter interface {
	ExportExam(ctx context.Context, userID, examID string, opts dto.ExportOptions) (*services.PDFDocument, error)
	CorrectionGridForExam(ctx context.Context, userID, examID string) (*services.PDFDocument, error)
	Export(ctx context.Context, title string, cs []models.Component, opts dto.ExportOptions) (*services.PDFDocument, error)
	CorrectionGrid(title string, cs []models.Component) (*services.PDFDocument, error)
}

// DraftStore keeps editor snapshots
type DraftStore interface {
	Save(ctx context.Context, userID, examID, title string, components models.Components) (*autosave.Draft, error)
	Load(ctx context.Context, userID, examID string) (*autosave.Draft, error)
}

// DraftScheduler schedules the write back of a draft
type DraftScheduler interface {
	Touch(userID, examID string)
}

// QuestionBank is the question bank API
type QuestionBank interface {
	List(ctx context.Context, userID string, filter *dto.QuestionBankFilter) (*dto.PaginatedResponse, error)
	Add(ctx context.Context, userID string, req *dto.CreateQuestionRequest) (*models.QuestionBankItem, error)
	Delete(ctx context.Context, userID, id string) error
	Use(ctx context.Context, userID, id string) error
}

// Templates is the header template API
type Templates interface {
	List(ctx context.Context, userID string) ([]*models.Template, error)
	Create(ctx context.Context, userID string, req *dto.CreateTemplateRequest) (*models.Template, error)
	Delete(ctx context.Context, userID, id string) error
	Use(ctx context.Context, userID, id string) error
}

// currentUser returns the authenticated user id or answers 401
func currentUser(ctx *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
	}
	return userID, ok
}

// sendPDF writes doc as a download
func sendPDF(ctx *gin.Context, doc *services.PDFDocument) {
	ctx.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, doc.Filename))
	ctx.Header("X-Page-Count", fmt.Sprint(doc.Pages))
	ctx.Data(http.StatusOK, "application/pdf", doc.Data)
}
