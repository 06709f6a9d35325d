package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/examcraft/internal/app/controllers"
	"github.com/yigit/examcraft/internal/app/models/dto"
	"github.com/yigit/examcraft/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	examController *controllers.ExamController,
	exportController *controllers.ExportController,
	libraryController *controllers.LibraryController,
	uploadController *controllers.UploadController,
	authMiddleware *middleware.AuthMiddleware,
) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public Auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())
	{
		authenticated.GET("/auth/me", authController.Me)

		exams := authenticated.Group("/exams")
		{
			exams.GET("", examController.ListExams)
			exams.POST("", examController.CreateExam)
			exams.POST("/validate", examController.ValidateComponents)
			exams.GET("/:id", examController.GetExam)
			exams.PUT("/:id", examController.UpdateExam)
			exams.DELETE("/:id", examController.DeleteExam)
			exams.GET("/:id/summary", examController.GetSummary)
			exams.POST("/:id/generated-questions", examController.ImportGeneratedQuestions)

			exams.PUT("/:id/draft", examController.SaveDraft)
			exams.GET("/:id/draft", examController.GetDraft)

			exams.POST("/:id/export", exportController.ExportExam)
			exams.POST("/:id/correction-grid", exportController.ExportCorrectionGrid)
		}

		// Unsaved exams straight from the editor
		export := authenticated.Group("/export")
		{
			export.POST("", exportController.ExportAdHoc)
			export.POST("/correction-grid", exportController.CorrectionGridAdHoc)
		}

		questionBank := authenticated.Group("/question-bank")
		{
			questionBank.GET("", libraryController.ListQuestions)
			questionBank.POST("", libraryController.AddQuestion)
			questionBank.DELETE("/:id", libraryController.DeleteQuestion)
			questionBank.POST("/:id/use", libraryController.UseQuestion)
		}

		templates := authenticated.Group("/templates")
		{
			templates.GET("", libraryController.ListTemplates)
			templates.POST("", libraryController.CreateTemplate)
			templates.DELETE("/:id", libraryController.DeleteTemplate)
			templates.POST("/:id/use", libraryController.UseTemplate)
		}

		authenticated.POST("/uploads", uploadController.UploadImage)
	}

	// Health check endpoint (public)
	v1.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, dto.NewStructuredResponse(gin.H{"status": "ok"}, "Service is healthy"))
	})

	// Swagger and static uploads are set up in bootstrap.go
}
