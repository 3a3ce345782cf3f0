package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/voting-service/internal/api/http"
	"github.com/spec-kit/voting-service/internal/api/http/handlers"
	"github.com/spec-kit/voting-service/internal/auth"
	"github.com/spec-kit/voting-service/internal/config"
	"github.com/spec-kit/voting-service/internal/events"
	"github.com/spec-kit/voting-service/internal/imagehost"
	"github.com/spec-kit/voting-service/internal/observability"
	"github.com/spec-kit/voting-service/internal/persistence"
	"github.com/spec-kit/voting-service/internal/service"
	"github.com/spec-kit/voting-service/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	stores := persistence.NewStores(pg, redis, cfg.Ballot.SelectionTTL())
	metrics := observability.NewMetrics()

	dispatcher := events.NewInMemoryDispatcher()
	notificationService := service.NewNotificationService(logger, cfg.Notification)
	notifications := worker.StartNotificationWorker(ctx, dispatcher, notificationService, logger)

	var uploader imagehost.Uploader
	if cfg.ImageHost.UploadURL != "" {
		uploader = imagehost.NewHTTPUploader(cfg.ImageHost, logger)
	} else {
		logger.Warn("IMAGE_UPLOAD_URL not provided; candidate images cannot be uploaded")
	}

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		AdminRepo: stores.Admins,
		VoterRepo: stores.Voters,
		Denylist:  stores.Denylist,
		Logger:    logger,
	})
	accountService := service.NewAccountService(service.AccountDependencies{
		AdminRepo:  stores.Admins,
		VoterRepo:  stores.Voters,
		Dispatcher: dispatcher,
		Logger:     logger,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	candidateService := service.NewCandidateService(service.CandidateDependencies{
		CandidateRepo: stores.Candidates,
		Uploader:      uploader,
		MaxImageBytes: cfg.ImageHost.MaxBytes,
		Dispatcher:    dispatcher,
		Logger:        logger,
	})
	ballotService := service.NewBallotService(service.BallotDependencies{
		CandidateRepo:  stores.Candidates,
		VoterRepo:      stores.Voters,
		SelectionStore: stores.Selections,
		Dispatcher:     dispatcher,
		Logger:         logger,
		MaxSelections:  cfg.Ballot.MaxSelections,
	})
	tallyService := service.NewTallyService(stores.Candidates, stores.Voters)

	bootstrapAdmin(ctx, accountService, cfg.Auth, logger)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), stores.Denylist, stores.Admins, stores.Voters)

	app := httptransport.NewApp(cfg.App.Name, int(cfg.ImageHost.MaxBytes)+1<<20)
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, metrics),
		Auth:           handlers.NewAuthHandler(authService, cfg.Auth.CookieSecure),
		Candidates:     handlers.NewCandidatesHandler(candidateService, logger),
		Accounts:       handlers.NewAccountsHandler(accountService),
		Ballot:         handlers.NewBallotHandler(ballotService, candidateService),
		Dashboard:      handlers.NewDashboardHandler(tallyService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Error("shutdown", zap.Error(err))
	}
	cancel()
	notifications.Wait()
}

// bootstrapAdmin creates the first administrator. An existing account with that name is left alone.
func bootstrapAdmin(ctx context.Context, accounts *service.AccountService, cfg config.AuthConfig, logger *zap.Logger) {
	if cfg.BootstrapAdminUsername == "" || cfg.BootstrapAdminPassword == "" {
		return
	}
	if _, err := accounts.CreateAdmin(ctx, "", cfg.BootstrapAdminUsername, cfg.BootstrapAdminPassword); err != nil {
		logger.Info("bootstrap admin not created", zap.String("username", cfg.BootstrapAdminUsername), zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
