package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Mantenimiento-api/internal/application/auth"
	appreport "github.com/jhoicas/Mantenimiento-api/internal/application/report"
	"github.com/jhoicas/Mantenimiento-api/internal/application/usecase"
	"github.com/jhoicas/Mantenimiento-api/internal/infrastructure/mail"
	infrapdf "github.com/jhoicas/Mantenimiento-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Mantenimiento-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Mantenimiento-api/internal/infrastructure/redisx"
	"github.com/jhoicas/Mantenimiento-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/Mantenimiento-api/internal/interfaces/http"
	"github.com/jhoicas/Mantenimiento-api/pkg/config"
	"github.com/jhoicas/Mantenimiento-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	orderRepo := postgres.NewWorkOrderRepository(pool)
	reportRepo := postgres.NewReportRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	evidenceStore, err := storage.NewLocalStorage(cfg.Storage.Dir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Storage.Dir).Msg("almacenamiento de evidencias")
	}

	// Notificaciones de asignación: deshabilitadas sin SMTP_HOST.
	var notifier usecase.AssignmentNotifier
	if n := mail.NewNotifier(cfg.SMTP); n != nil {
		notifier = n
		log.Info().Str("host", cfg.SMTP.Host).Msg("notificaciones de asignación habilitadas")
	}

	// Denylist de tokens: deshabilitada sin REDIS_ADDR (el logout pasa a ser
	// solo informativo para el cliente).
	var denylist auth.TokenDenylist
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer rdb.Close()
		denylist = redisx.NewDenylist(rdb)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("denylist de tokens habilitada")
	}

	orderUC := usecase.NewOrderUseCase(orderRepo, userRepo, reportRepo, evidenceStore, notifier, txRunner)
	userUC := usecase.NewUserUseCase(userRepo)
	pdfGenerator := infrapdf.NewMarotoReportGenerator()
	reportUC := appreport.NewReportUseCase(reportRepo, orderRepo, userRepo, pdfGenerator)
	authUC := auth.NewAuthUseCase(userRepo, denylist, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    25 * 1024 * 1024, // evidencias adjuntas
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Mantto Pro API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		OrderUC:     orderUC,
		UserUC:      userUC,
		ReportUC:    reportUC,
		AuthUC:      authUC,
		Denylist:    denylist,
		JWTSecret:   cfg.JWT.Secret,
		DebugErrors: cfg.App.Env == "development",
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
