package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/voting-service/internal/config"
	"github.com/spec-kit/voting-service/internal/observability"
	"github.com/spec-kit/voting-service/internal/persistence"
	"github.com/spec-kit/voting-service/internal/repository"
	"github.com/spec-kit/voting-service/internal/service"
)

func main() {
	username := flag.String("username", os.Getenv("ADMIN_USERNAME"), "admin username")
	password := flag.String("password", os.Getenv("ADMIN_PASSWORD"), "admin password")
	flag.Parse()

	if *username == "" || *password == "" {
		fmt.Fprintln(os.Stderr, "usage: create-admin -username NAME -password SECRET")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()
	if !pg.Enabled() {
		logger.Fatal("POSTGRES_DSN is required to create an admin")
	}
	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	accounts := service.NewAccountService(service.AccountDependencies{
		AdminRepo:  repository.NewAdminRepository(pg.PoolHandle()),
		VoterRepo:  repository.NewVoterRepository(pg.PoolHandle()),
		Logger:     logger,
		BcryptCost: cfg.Auth.BcryptCost,
	})

	admin, err := accounts.CreateAdmin(ctx, "", *username, *password)
	if err != nil {
		logger.Fatal("failed to create admin", zap.Error(err))
	}
	fmt.Printf("admin created: id=%s username=%s\n", admin.ID, admin.Username)
}
