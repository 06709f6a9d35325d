package controllers

import (
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/examcraft/internal/app/models/dto"
	"github.com/yigit/examcraft/internal/middleware"
	"github.com/yigit/examcraft/internal/pkg/filestorage"
)

// ImageSaver stores uploaded images
type ImageSaver interface {
	SaveImage(fileHeader *multipart.FileHeader) (*filestorage.FileInfo, error)
}

// UploadController accepts images referenced by image components
type UploadController struct {
	storage ImageSaver
}

// NewUploadController creates a new UploadController
func NewUploadController(storage ImageSaver) *UploadController {
	return &UploadController{storage: storage}
}

// UploadImage stores one png, jpeg or gif image
// @Summary Upload image
// @Description The returned url can be used as the src of an image component
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Image file"
// @Success 201 {object} dto.StructuredResponse{data=dto.UploadResponse} "Image stored"
// @Failure 400 {object} dto.ErrorResponse "Unsupported file"
// @Router /uploads [post]
func (c *UploadController) UploadImage(ctx *gin.Context) {
	if _, ok := currentUser(ctx); !ok {
		return
	}
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "A file field is required").WithField("file")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}
	info, err := c.storage.SaveImage(fileHeader)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewStructuredResponse(dto.UploadResponse{
		URL:      info.URL,
		Filename: info.Filename,
		FileSize: info.FileSize,
		MimeType: info.MimeType,
	}, "Image stored"))
}
