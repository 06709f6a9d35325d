package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/yigit/examcraft/docs" // Import generated swagger docs
	"github.com/yigit/examcraft/internal/app/autosave"
	appControllers "github.com/yigit/examcraft/internal/app/controllers"
	appMigrations "github.com/yigit/examcraft/internal/app/migrations"
	appRepos "github.com/yigit/examcraft/internal/app/repositories"
	appRoutes "github.com/yigit/examcraft/internal/app/routes"
	appServices "github.com/yigit/examcraft/internal/app/services"
	"github.com/yigit/examcraft/internal/config"
	"github.com/yigit/examcraft/internal/db"
	appMiddleware "github.com/yigit/examcraft/internal/middleware"
	"github.com/yigit/examcraft/internal/pdf/images"
	pkgAuth "github.com/yigit/examcraft/internal/pkg/auth"
	"github.com/yigit/examcraft/internal/pkg/filestorage"
	"github.com/yigit/examcraft/internal/pkg/logger"
	"github.com/yigit/examcraft/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService         *appServices.AuthService
	ExamService         appServices.ExamService
	ExportService       *appServices.ExportService
	QuestionBankService *appServices.QuestionBankService
	TemplateService     *appServices.TemplateService
	AuthController      *appControllers.AuthController
	ExamController      *appControllers.ExamController
	ExportController    *appControllers.ExportController
	LibraryController   *appControllers.LibraryController
	UploadController    *appControllers.UploadController
	AuthMiddleware      *appMiddleware.AuthMiddleware
	Repos               *appRepos.Repositories
	JWTService          *pkgAuth.JWTService
	Redis               *redis.Client
	Drafts              *autosave.DraftStore
	// Autosave is nil when autosave is disabled
	Autosave    *autosave.Worker
	Logger      zerolog.Logger
	FileStorage *filestorage.LocalStorage
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.ParseLevel(cfg.Logging.Level)
	logger.Configure(logger.Config{
		Level:  logLevel,
		Format: logger.Format(strings.ToLower(cfg.Logging.Format)),
	})

	lgr := logger.Logger()
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	dbPool, err := db.Connect(ctx, cfg, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool, lgr)
	if err := migrator.MigrateAll(ctx, appMigrations.Files()); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(ctx, dbPool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// SetupRedis connects the draft store backend
func SetupRedis(cfg *config.Config, lgr zerolog.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		lgr.Error().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to ping redis")
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Connected to Redis")
	return client, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool appRepos.DBTX, redisClient *redis.Client, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, Redis: redisClient}

	deps.Repos = appRepos.NewRepositories(dbPool)

	var err error
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, int64(cfg.Server.MaxUploadMB)<<20)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: config.Duration(cfg.JWT.AccessTokenExpiration),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	loader := images.NewLoader(images.Config{
		Timeout:     config.Duration(cfg.Export.ImageTimeout),
		MaxBytes:    cfg.Export.MaxImageBytes,
		Concurrency: cfg.Export.ImageConcurrency,
	}, deps.FileStorage, lgr)

	deps.AuthService = appServices.NewAuthService(deps.Repos.UserRepository, deps.JWTService, lgr)
	deps.ExamService = appServices.NewExamService(deps.Repos.ExamRepository, lgr)
	deps.ExportService = appServices.NewExportService(deps.ExamService, loader, appServices.ExportConfig{
		MarginX:           cfg.Export.MarginX,
		MarginY:           cfg.Export.MarginY,
		DefaultWatermark:  cfg.Export.DefaultWatermark,
		SeedByComponentID: cfg.Export.SeedByComponentID,
	}, lgr)
	deps.QuestionBankService = appServices.NewQuestionBankService(deps.Repos.QuestionBankRepository, lgr)
	deps.TemplateService = appServices.NewTemplateService(deps.Repos.TemplateRepository, lgr)

	deps.Drafts = autosave.NewDraftStore(redisClient, config.Duration(cfg.Autosave.DraftTTL))
	var scheduler appControllers.DraftScheduler
	if cfg.Autosave.Enabled {
		deps.Autosave = autosave.NewWorker(deps.Drafts, deps.ExamService,
			config.Duration(cfg.Autosave.Debounce), config.Duration(cfg.Autosave.Interval), lgr)
		scheduler = deps.Autosave
	}

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, lgr)
	deps.ExamController = appControllers.NewExamController(deps.ExamService, deps.Drafts, scheduler)
	deps.ExportController = appControllers.NewExportController(deps.ExportService)
	deps.LibraryController = appControllers.NewLibraryController(deps.QuestionBankService, deps.TemplateService)
	deps.UploadController = appControllers.NewUploadController(deps.FileStorage)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(lgr))
	router.MaxMultipartMemory = int64(cfg.Server.MaxUploadMB) << 20

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json"), ginSwagger.DefaultModelsExpandDepth(1)))

	router.Static(filestorage.URLPrefix, cfg.Server.StoragePath)

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.ExamController,
		deps.ExportController,
		deps.LibraryController,
		deps.UploadController,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
