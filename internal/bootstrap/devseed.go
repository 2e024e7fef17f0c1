package bootstrap

import (
	"context"
	"log/slog"
	"os"

	"github.com/centralhub/hub-core/internal/domain/model"
	apperrors "github.com/centralhub/hub-core/internal/errors"
)

// Development-only fixtures. The admin password comes from DEV_ADMIN_PASSWORD
// so it never ships as a hardcoded credential; without it no admin is seeded.
const devAdminEmail = "admin@centralhub.local"

// SeedDevData creates a development administrator and a couple of sample
// modules. Only invoked in dev mode; every step is idempotent.
func SeedDevData(ctx context.Context, services ServiceContainer, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	devModules := []model.CreateModuleRequest{
		{Name: "inventario", Title: "Inventory", URL: "http://localhost:9001"},
		{Name: "reports", Title: "Reports", URL: "http://localhost:9002"},
	}
	for _, req := range devModules {
		if _, err := services.Modules.Create(ctx, req); err != nil {
			if apperrors.IsConflict(err) {
				continue
			}
			return err
		}
		logger.InfoContext(ctx, "seeded dev module", "module", req.Name)
	}

	password := os.Getenv("DEV_ADMIN_PASSWORD")
	if password == "" {
		logger.WarnContext(ctx, "DEV_ADMIN_PASSWORD not set, skipping dev admin seed")
		return nil
	}

	_, err := services.Users.Create(ctx, model.CreateUserRequest{
		Email:    devAdminEmail,
		Password: password,
		FullName: "Dev Administrator",
		Role:     model.RoleAdministrator,
	})
	if err != nil {
		if apperrors.IsConflict(err) {
			return nil
		}
		return err
	}
	logger.InfoContext(ctx, "seeded dev administrator", "email", devAdminEmail)
	return nil
}
