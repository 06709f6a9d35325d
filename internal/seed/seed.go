package seed

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/yigit/examcraft/internal/app/models"
	"github.com/yigit/examcraft/internal/app/repositories"
	"github.com/yigit/examcraft/internal/pkg/auth"
)

// LibraryEmail owns the built-in public templates. Its password is random and
// never stored in clear, so nobody can sign in as it.
const LibraryEmail = "library@examcraft.app"

// DefaultTemplates are the public headers every teacher can start from
func DefaultTemplates() []*models.Template {
	header := func(title, duration string, fields models.StudentFields) *models.HeaderComponent {
		h := models.NewDefault(models.ComponentHeader, 0).(*models.HeaderComponent)
		h.ID = models.NewComponentID(models.ComponentHeader)
		h.ExamTitle = title
		h.Duration = duration
		h.StudentFields = fields
		return h
	}
	describe := func(s string) *string { return &s }

	return []*models.Template{
		{
			Name:            "Contrôle continu",
			Description:     describe("One hour test with name, first name and class"),
			HeaderComponent: header("Contrôle continu", "1h", models.StudentFields{Name: true, FirstName: true, ClassGroup: true}),
			IsPublic:        true,
		},
		{
			Name:            "Examen final",
			Description:     describe("Two hour end of term exam"),
			HeaderComponent: header("Examen final", "2h", models.StudentFields{Name: true, FirstName: true, ClassGroup: true}),
			IsPublic:        true,
		},
		{
			Name:            "Interrogation écrite",
			Description:     describe("Short quiz, name only"),
			HeaderComponent: header("Interrogation écrite", "20 min", models.StudentFields{Name: true}),
			IsPublic:        true,
		},
	}
}

// CreateDefaultData creates the library user and the public templates if
// they don't exist. Failures are collected, the remaining items are still tried.
func CreateDefaultData(ctx context.Context, db repositories.DBTX, lgr zerolog.Logger) error {
	userRepo := repositories.NewUserRepository(db)
	templateRepo := repositories.NewTemplateRepository(db)

	lgr.Info().Msg("Checking/Creating default data (templates)...")

	owner, err := libraryUser(ctx, userRepo, lgr)
	if err != nil {
		lgr.Error().Err(err).Msg("Error preparing library user")
		return err
	}

	var finalErr error
	for _, t := range DefaultTemplates() {
		exists, err := templateRepo.PublicNameExists(ctx, t.Name)
		if err != nil {
			lgr.Error().Err(err).Str("template", t.Name).Msg("Error checking template")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		if exists {
			continue
		}
		t.UserID = owner.ID
		if err := templateRepo.Create(ctx, t); err != nil {
			lgr.Error().Err(err).Str("template", t.Name).Msg("Error creating template")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		lgr.Info().Str("template", t.Name).Str("id", t.ID).Msg("Default template created")
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}

func libraryUser(ctx context.Context, userRepo *repositories.UserRepository, lgr zerolog.Logger) (*models.User, error) {
	exists, err := userRepo.EmailExists(ctx, LibraryEmail)
	if err != nil {
		return nil, err
	}
	if exists {
		return userRepo.GetByEmail(ctx, LibraryEmail)
	}

	hash, err := auth.HashPassword(uuid.NewString())
	if err != nil {
		return nil, err
	}
	user := &models.User{Email: LibraryEmail, Password: hash, FirstName: "ExamCraft", LastName: "Library"}
	if err := userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	lgr.Info().Str("userID", user.ID).Msg("Library user created")
	return user, nil
}
