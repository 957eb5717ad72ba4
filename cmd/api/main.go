package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	flag "github.com/spf13/pflag"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	httptransport "github.com/spec-kit/helpdesk-service/internal/api/http"
	"github.com/spec-kit/helpdesk-service/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk-service/internal/auth"
	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/events"
	"github.com/spec-kit/helpdesk-service/internal/observability"
	"github.com/spec-kit/helpdesk-service/internal/persistence"
	"github.com/spec-kit/helpdesk-service/internal/repository"
	"github.com/spec-kit/helpdesk-service/internal/service"
	"github.com/spec-kit/helpdesk-service/internal/sheet"
	"github.com/spec-kit/helpdesk-service/internal/worker"
)

type stores struct {
	requests repository.RequestRepository
	users    repository.UserRepository
	checks   map[string]handlers.Pinger
	closers  []func()
}

func main() {
	envFile := flag.String("env-file", ".env", "path to an optional dotenv file")
	backend := flag.String("backend", "", "storage backend override: sheet, memory or postgres")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if *backend != "" {
		cfg.Backend = config.Backend(strings.ToLower(*backend))
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Env == "development")
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	loc, err := cfg.App.Location()
	if err != nil {
		logger.Fatal("invalid APP_TIMEZONE", zap.String("timezone", cfg.App.Timezone), zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := openStores(ctx, cfg, loc, logger)
	if err != nil {
		logger.Fatal("failed to open storage", zap.String("backend", string(cfg.Backend)), zap.Error(err))
	}
	defer func() {
		for _, closeFn := range st.closers {
			closeFn()
		}
	}()

	var revocations auth.Revocations = auth.NoopRevocations{}
	if cfg.Redis.Enabled {
		rdb := persistence.NewRedis(cfg.Redis, logger)
		st.closers = append(st.closers, rdb.Close)
		st.checks["redis"] = rdb
		revocations = auth.NewRedisRevocations(rdb.Client)
	}

	dispatcher := events.NewInMemoryDispatcher(logger)
	worker.StartNotificationWorker(service.NewNotificationService(dispatcher, logger, cfg.Notification))

	directory := service.NewDirectoryService(service.DirectoryDependencies{
		UserRepo:          st.users,
		Dispatcher:        dispatcher,
		Locale:            language.Make(cfg.App.Locale),
		MinPasswordLength: cfg.Auth.MinPasswordLength,
	})
	requests := service.NewRequestService(service.RequestDependencies{
		RequestRepo: st.requests,
		Dispatcher:  dispatcher,
	})
	authService := service.NewAuthService(*cfg, service.AuthDependencies{
		Directory:   directory,
		Revocations: revocations,
	})
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager(), authService.Revocations(), logger)

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, httptransport.MiddlewareConfig{
		Logger:           logger,
		Metrics:          metrics,
		Timeout:          cfg.App.RequestTimeout(),
		CORSAllowOrigins: cfg.App.CORSAllowOrigins,
	})
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, string(cfg.Backend), st.checks, metrics),
		Auth:           handlers.NewAuthHandler(authService),
		Tickets:        handlers.NewTicketsHandler(requests, loc),
		Users:          handlers.NewUsersHandler(directory),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()
	logger.Info("helpdesk service started",
		zap.String("addr", cfg.App.Addr()),
		zap.String("backend", string(cfg.Backend)),
	)

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func openStores(ctx context.Context, cfg *config.Config, loc *time.Location, logger *zap.Logger) (*stores, error) {
	st := &stores{checks: map[string]handlers.Pinger{}}

	switch cfg.Backend {
	case config.BackendSheet:
		client := sheet.NewClient(cfg.Sheet, logger)
		st.requests = repository.NewSheetRequestRepository(client, loc)
		st.users = repository.NewSheetUserRepository(client)
		st.checks["sheet"] = client
		return st, nil

	case config.BackendPostgres:
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			return nil, err
		}
		st.closers = append(st.closers, pg.Close)
		st.checks["postgres"] = pg

		pool := pg.PoolHandle()
		if cfg.Postgres.RunMigrations && pool != nil {
			if err := persistence.RunMigrations(ctx, pool, cfg.Postgres.MigrationsDir, logger); err != nil {
				pg.Close()
				return nil, err
			}
		}
		st.requests = repository.NewTicketRepository(pool)
		st.users = repository.NewUserRepository(pool, cfg.Auth.BcryptCost)
		if err := service.SeedDirectory(ctx, st.users, cfg.Seed, logger); err != nil {
			pg.Close()
			return nil, err
		}
		return st, nil

	default:
		st.requests = repository.NewMemoryRequestRepository()
		st.users = repository.NewMemoryUserRepository()
		if err := service.SeedDirectory(ctx, st.users, cfg.Seed, logger); err != nil {
			return nil, err
		}
		if err := service.SeedTickets(ctx, st.requests, cfg.Seed.Divisions); err != nil {
			return nil, err
		}
		return st, nil
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
