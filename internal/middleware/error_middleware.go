package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/examcraft/internal/app/models"
	"github.com/yigit/examcraft/internal/app/models/dto"
	"github.com/yigit/examcraft/internal/pkg/apperrors"
	"github.com/yigit/examcraft/internal/pkg/filestorage"
	"github.com/yigit/examcraft/internal/pkg/logger"
)

// RenderFailedMessage is the only text a client sees when drawing a PDF fails
const RenderFailedMessage = "failed to generate PDF, try again"

type errorMapping struct {
	target  error
	status  int
	code    dto.ErrorCode
	message string
}

// errorMappings is checked in order, the first match wins
var errorMappings = []errorMapping{
	{apperrors.ErrExamNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Exam not found"},
	{apperrors.ErrQuestionNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Question not found"},
	{apperrors.ErrTemplateNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Template not found"},
	{apperrors.ErrDraftNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "No draft saved for this exam"},
	{apperrors.ErrUserNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "User not found"},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},
	{apperrors.ErrPermissionDenied, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"},
	{apperrors.ErrEmailAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Email already exists"},
	{apperrors.ErrResourceAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"},
	{apperrors.ErrExportInProgress, http.StatusConflict, dto.ErrorCodeResourceInvalid, "An export of this exam is already running"},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeResourceInvalid, "Conflict"},
	{apperrors.ErrEmptyExam, http.StatusBadRequest, dto.ErrorCodeEmptyExam, "The exam has no components to export"},
	{filestorage.ErrUnsupportedType, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Only png, jpeg and gif images are accepted"},
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Bad request"},
	{apperrors.ErrRenderFailed, http.StatusInternalServerError, dto.ErrorCodeRenderFailed, RenderFailedMessage},
}

// HandleAPIError maps err onto a status code and the standard error envelope
func HandleAPIError(c *gin.Context, err error) {
	var invalid *models.ValidationError
	if errors.As(err, &invalid) {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid exam components").WithDetails(invalid.Issues)
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}
	if errors.Is(err, models.ErrInvalidComponents) {
		detail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid exam components").WithDetails(err.Error())
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(detail))
		return
	}

	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		detail := dto.NewErrorDetail(m.code, m.message)
		if m.status == http.StatusBadRequest {
			detail = detail.WithDetails(err.Error())
		}
		if m.status >= http.StatusInternalServerError {
			logger.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
		}
		c.JSON(m.status, dto.NewErrorResponse(detail))
		return
	}

	var custom *apperrors.CustomError
	if errors.As(err, &custom) {
		detail := dto.NewErrorDetail(dto.ErrorCodeInternalServer, custom.Message)
		if custom.Details != nil {
			detail = detail.WithDetails(custom.Details)
		}
		logger.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(detail))
		return
	}

	logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled error")
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
		dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").WithSeverity(dto.ErrorSeverityCritical),
	))
}
