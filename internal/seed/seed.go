package seed

import (
	"context"
	"errors"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	appModels "github.com/mertkaya/courselog/internal/app/models"
	appRepos "github.com/mertkaya/courselog/internal/app/repositories"
	"github.com/mertkaya/courselog/internal/config"
	"github.com/mertkaya/courselog/internal/pkg/apperrors"
	"github.com/mertkaya/courselog/internal/pkg/auth"
	"github.com/rs/zerolog"
)

// CreateDefaultData creates one admin account per configured tenant if none
// exists yet. The password comes from SEED_ADMIN_PASSWORD; without it no
// accounts are created, so production deployments opt in explicitly.
func CreateDefaultData(ctx context.Context, cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	if password == "" {
		lgr.Info().Msg("SEED_ADMIN_PASSWORD not set, skipping default admin creation")
		return nil
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return err
	}

	userRepo := appRepos.NewUserRepository(dbPool)

	var finalErr error
	for _, tenant := range cfg.TenantIDs() {
		admin := &appModels.User{
			Username: "admin",
			Password: hashed,
			Role:     appModels.RoleAdmin,
			Tenant:   tenant,
		}

		err := userRepo.Create(ctx, admin)
		switch {
		case err == nil:
			lgr.Info().Str("tenant", tenant).Msg("Default admin account created")
		case errors.Is(err, apperrors.ErrUsernameTaken):
			// Already seeded.
		default:
			lgr.Error().Err(err).Str("tenant", tenant).Msg("Error creating default admin account")
			finalErr = errors.Join(finalErr, err)
		}
	}

	return finalErr
}
