// Package app provides authentication initialization.
package app

import (
	"context"
	"time"

	"github.com/guttosm/catering-service/config"
	"github.com/guttosm/catering-service/internal/service"
	"github.com/rs/zerolog/log"
)

// initializeAdminAccount seeds the bootstrap admin from configuration when
// the user store has no active admin yet.
func initializeAdminAccount(auth service.AuthService, cfg config.AuthConfig) error {
	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Debug().Msg("ADMIN_EMAIL or ADMIN_PASSWORD not set - skipping admin bootstrap")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	created, err := auth.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		return err
	}
	if created {
		log.Info().Str("email", cfg.AdminEmail).Msg("Created bootstrap admin account")
	}
	return nil
}
