package migrate

import (
	"context"
	"fmt"

	"github.com/praveen037/agriconnect/pkg/config"
	dbpkg "github.com/praveen037/agriconnect/pkg/db"
	"github.com/praveen037/agriconnect/pkg/logger"
)

// Run applies the embedded schema on boot. The gateway's tables are small
// display-state tables, so running them unconditionally is safe.
func Run(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *dbpkg.Client) error {
	sqlDB, err := client.DB().DB()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithFields(ctx, map[string]any{"env": cfg.App.Env, "driver": client.Driver()})
	logg.Info(ctx, "running goose migrations")

	if err := Up(ctx, sqlDB, client.Driver()); err != nil {
		return err
	}

	logg.Info(ctx, "goose migrations completed")
	return nil
}
