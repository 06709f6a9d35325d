package dto

import (
	"encoding/json"

	"github.com/yigit/examcraft/internal/app/models"
)

// QuestionBankFilter narrows the question bank listing
type QuestionBankFilter struct {
	Tags       []string `form:"tags"`
	Difficulty string   `form:"difficulty" binding:"omitempty,oneof=easy medium hard"`
	Subject    string   `form:"subject"`
	Page       int      `form:"page,default=1" binding:"min=1"`
	PageSize   int      `form:"pageSize,default=20" binding:"min=1,max=100"`
}

// CreateQuestionRequest saves a component to the question bank
type CreateQuestionRequest struct {
	Component  json.RawMessage `json:"component" binding:"required" swaggertype:"object"`
	Tags       []string        `json:"tags" binding:"omitempty,max=20,dive,max=50"`
	Difficulty *string         `json:"difficulty,omitempty" binding:"omitempty,oneof=easy medium hard"`
	Subject    *string         `json:"subject,omitempty" binding:"omitempty,max=100"`
}

// CreateTemplateRequest saves a reusable header
type CreateTemplateRequest struct {
	Name            string                  `json:"name" binding:"required,max=255" example:"Lycée header"`
	Description     *string                 `json:"description,omitempty" binding:"omitempty,max=1000"`
	HeaderComponent *models.HeaderComponent `json:"headerComponent" binding:"required"`
	IsPublic        bool                    `json:"isPublic"`
}

// UploadResponse describes a stored image
type UploadResponse struct {
	URL      string `json:"url" example:"/uploads/0b8e7c1a.png"`
	Filename string `json:"filename" example:"figure.png"`
	FileSize int64  `json:"fileSize" example:"20480"`
	MimeType string `json:"mimeType" example:"image/png"`
}
