package main

import (
	"context"
	"errors"
	"flag"

	"github.com/joho/godotenv"

	"github.com/oksasatya/educatalog/config"
	"github.com/oksasatya/educatalog/internal/domain/entity"
	repo "github.com/oksasatya/educatalog/internal/domain/repository"
	pginfra "github.com/oksasatya/educatalog/internal/infrastructure/postgres"
	"github.com/oksasatya/educatalog/pkg/helpers"
)

// seed upserts an admin account so the user administration routes can be
// exercised on a fresh database.
func main() {
	email := flag.String("email", "admin@educatalog.local", "admin email")
	name := flag.String("name", "Catalog Admin", "admin display name")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolConfig{MaxConns: 2, MinConns: 1, MaxConnLife: cfg.DBMaxConnLife})
	if err != nil {
		logger.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		logger.Fatalf("migration failed: %v", err)
	}

	users := pginfra.NewUserRepository(pool)
	u, err := users.GetByEmail(ctx, entity.NormalizeEmail(*email))
	switch {
	case errors.Is(err, repo.ErrNotFound):
		u = entity.NewUser(*email, *name)
		u.Role = entity.RoleAdmin
		if err := users.Create(ctx, u); err != nil {
			logger.Fatalf("failed to seed admin: %v", err)
		}
	case err != nil:
		logger.Fatalf("lookup admin: %v", err)
	default:
		if _, err := users.SetRole(ctx, u.ID, entity.RoleAdmin); err != nil {
			logger.Fatalf("failed to promote admin: %v", err)
		}
		if u, err = users.SetActive(ctx, u.ID, true); err != nil {
			logger.Fatalf("failed to activate admin: %v", err)
		}
	}
	logger.WithFields(map[string]any{"id": u.ID, "email": u.Email}).Info("admin seeded")
}
