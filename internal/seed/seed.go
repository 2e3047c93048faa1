package seed

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/mbaylon/interntrack/internal/app/models"
	appRepos "github.com/mbaylon/interntrack/internal/app/repositories"
	"github.com/mbaylon/interntrack/internal/pkg/apperrors"
	pkgAuth "github.com/mbaylon/interntrack/internal/pkg/auth"
)

// defaultPrograms is the institutional program catalog mapping display names
// to the codes program heads are assigned
var defaultPrograms = []struct {
	Name string
	Code string
}{
	{"BS Information Technology", "BSIT"},
	{"BS Computer Science", "BSCS"},
	{"BS Information Systems", "BSIS"},
}

// CreateDefaultData seeds the program catalog and a default admin account.
// Every step is idempotent so the seed can run on each startup.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, adminPassword string, lgr zerolog.Logger) error {
	var finalErr error

	for _, p := range defaultPrograms {
		_, err := dbPool.Exec(ctx,
			`INSERT INTO programs (name, code) VALUES ($1, $2) ON CONFLICT (code) DO NOTHING`,
			p.Name, p.Code)
		if err != nil {
			lgr.Error().Err(err).Str("code", p.Code).Msg("Error seeding program")
			finalErr = errors.Join(finalErr, err)
		}
	}

	userRepo := appRepos.NewUserRepository(dbPool)
	exists, err := userRepo.ExistsByEmail(ctx, "admin@school.edu.ph")
	if err != nil {
		return errors.Join(finalErr, err)
	}
	if exists {
		return finalErr
	}

	if adminPassword == "" {
		lgr.Warn().Msg("No admin seed password configured, skipping default admin account")
		return finalErr
	}

	hashed, err := pkgAuth.HashPassword(adminPassword)
	if err != nil {
		return errors.Join(finalErr, err)
	}

	admin := &appModels.User{
		Email:     "admin@school.edu.ph",
		Password:  hashed,
		FirstName: "System",
		LastName:  "Administrator",
		RoleType:  appModels.RoleAdmin,
		IsActive:  true,
	}
	if err := userRepo.Create(ctx, admin); err != nil && !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		lgr.Error().Err(err).Msg("Error creating default admin account")
		return errors.Join(finalErr, err)
	}

	lgr.Info().Str("email", admin.Email).Msg("Default admin account created")
	return finalErr
}
