package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	appanalytics "github.com/jhoicas/Inventario-dashboard/internal/application/analytics"
	"github.com/jhoicas/Inventario-dashboard/internal/application/auth"
	"github.com/jhoicas/Inventario-dashboard/internal/application/inventory"
	"github.com/jhoicas/Inventario-dashboard/internal/application/report"
	"github.com/jhoicas/Inventario-dashboard/internal/application/usecase"
	"github.com/jhoicas/Inventario-dashboard/internal/domain/repository"
	"github.com/jhoicas/Inventario-dashboard/internal/infrastructure/memory"
	"github.com/jhoicas/Inventario-dashboard/internal/infrastructure/notify"
	infrapdf "github.com/jhoicas/Inventario-dashboard/internal/infrastructure/pdf"
	"github.com/jhoicas/Inventario-dashboard/internal/infrastructure/postgres"
	infraredis "github.com/jhoicas/Inventario-dashboard/internal/infrastructure/redis"
	"github.com/jhoicas/Inventario-dashboard/internal/infrastructure/remote"
	httpRouter "github.com/jhoicas/Inventario-dashboard/internal/interfaces/http"
	"github.com/jhoicas/Inventario-dashboard/pkg/config"
	"github.com/jhoicas/Inventario-dashboard/pkg/logger"
	"github.com/jhoicas/Inventario-dashboard/pkg/telemetry"
)

const swaggerFile = "./docs/swagger.json"

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Levanta la API HTTP del dashboard",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("cargar configuración: %w", err)
			}
			log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
			return serve(cmd.Context(), cfg, log)
		},
	}
}

// closer libera un recurso al apagar.
type closer func() error

func serve(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("remote", cfg.Remote.BaseURL).
		Str("sessions", cfg.Session.Backend).
		Str("mirror", cfg.Mirror.Backend).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET es obligatorio")
	}

	shutdownTelemetry, err := telemetry.Init(ctx, cfg.Telemetry, version)
	if err != nil {
		return fmt.Errorf("telemetría: %w", err)
	}
	defer func() {
		if err := shutdownTelemetry(context.Background()); err != nil {
			log.Error().Err(err).Msg("cerrar telemetría")
		}
	}()

	var pool *pgxpool.Pool
	if cfg.Session.Backend == config.SessionBackendPostgres || cfg.Mirror.Backend == config.SessionBackendPostgres {
		pool, err = postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		defer pool.Close()
	}

	sessionRepo, closeSessions, err := buildSessionRepository(ctx, cfg, pool, log)
	if err != nil {
		return err
	}
	defer closeSessions()

	mirror := buildProductMirror(cfg, pool)
	alerts, closeAlerts := buildAlertPublisher(cfg, log)
	defer func() {
		if err := closeAlerts(); err != nil {
			log.Error().Err(err).Msg("cerrar publicador de alertas")
		}
	}()

	client := remote.New(cfg.Remote, log)
	sessions := auth.NewSessionManager(sessionRepo, client, log)
	authUC := auth.NewAuthUseCase(client, sessions, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)

	registerMovementUC := inventory.NewRegisterMovementUseCase(sessions, client, client, mirror, alerts, log)
	stockOverviewUC := inventory.NewStockOverviewUseCase(sessions, client, mirror, log)
	movementHistoryUC := inventory.NewMovementHistoryUseCase(sessions, client)
	replenishmentUC := inventory.NewReplenishmentUseCase(sessions, client)
	productUC := usecase.NewProductUseCase(sessions, client, mirror, log)
	categoryUC := usecase.NewCategoryUseCase(sessions, client, mirror, log)
	dashboardUC := appanalytics.NewDashboardUseCase(sessions, client, client)
	lowStockReportUC := report.NewLowStockReportUseCase(replenishmentUC, infrapdf.NewMarotoPDFGenerator())

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    "Toolgear Dashboard API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "version": version})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:           authUC,
		Sessions:         sessions,
		ProductUC:        productUC,
		CategoryUC:       categoryUC,
		RegisterMovement: registerMovementUC,
		StockOverview:    stockOverviewUC,
		MovementHistory:  movementHistoryUC,
		Replenishment:    replenishmentUC,
		DashboardUC:      dashboardUC,
		LowStockReport:   lowStockReportUC,
		JWTSecret:        cfg.JWT.Secret,
		AuthPerMinute:    cfg.RateLimit.AuthPerMinute,
		AuthBurst:        cfg.RateLimit.AuthBurst,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(cfg.HTTP.Addr())
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("servidor HTTP: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
	registerMovementUC.Wait()

	log.Info().Msg("aplicación detenida")
	return nil
}

// buildSessionRepository elige el backend de sesiones según SESSION_BACKEND.
func buildSessionRepository(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, log *logger.Logger) (repository.SessionRepository, func(), error) {
	switch cfg.Session.Backend {
	case config.SessionBackendPostgres:
		repo := postgres.NewSessionRepository(pool, cfg.Session.TTL())
		purgeCtx, cancel := context.WithCancel(ctx)
		go purgeSessions(purgeCtx, repo, log)
		return repo, cancel, nil
	case config.SessionBackendRedis:
		client, err := infraredis.NewClient(ctx, cfg.Redis.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("conexión a Redis: %w", err)
		}
		return infraredis.NewSessionRepository(client, cfg.Session.TTL()), func() {
			if err := client.Close(); err != nil {
				log.Error().Err(err).Msg("cerrar Redis")
			}
		}, nil
	default:
		return memory.NewSessionRepo(cfg.Session.TTL()), func() {}, nil
	}
}

// purgeSessions borra cada hora las sesiones vencidas en PostgreSQL (Redis las vence solo).
func purgeSessions(ctx context.Context, repo *postgres.SessionRepo, log *logger.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.PurgeExpired(ctx)
			if err != nil {
				log.Warn().Err(err).Msg("purgar sesiones vencidas")
				continue
			}
			if n > 0 {
				log.Info().Int64("sessions", n).Msg("sesiones vencidas purgadas")
			}
		}
	}
}

func buildProductMirror(cfg *config.Config, pool *pgxpool.Pool) repository.ProductMirror {
	if cfg.Mirror.Backend == config.SessionBackendPostgres {
		return postgres.NewProductMirrorRepository(pool)
	}
	return memory.NewProductMirror()
}

// buildAlertPublisher combina Kafka y correo según la configuración; sin ninguno no publica.
func buildAlertPublisher(cfg *config.Config, log *logger.Logger) (repository.AlertPublisher, closer) {
	var (
		publishers []repository.AlertPublisher
		kafka      *notify.KafkaPublisher
	)
	if cfg.Kafka.Enabled() {
		kafka = notify.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.LowStockTopic)
		publishers = append(publishers, kafka)
	}
	if cfg.Mail.Enabled() {
		publishers = append(publishers, notify.NewMailPublisher(cfg.Mail))
	}

	closeFn := func() error { return nil }
	if kafka != nil {
		closeFn = kafka.Close
	}

	multi := notify.NewMultiPublisher(publishers...)
	if multi.Len() == 0 {
		log.Info().Msg("alertas de estoque bajo deshabilitadas (sin Kafka ni SMTP)")
		return notify.NopPublisher{}, closeFn
	}
	log.Info().Int("publishers", multi.Len()).Msg("alertas de estoque bajo habilitadas")
	return multi, closeFn
}
