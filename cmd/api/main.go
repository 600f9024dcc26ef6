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

	"github.com/jhoicas/product-editor/internal/application/usecase"
	"github.com/jhoicas/product-editor/internal/domain/barcode"
	"github.com/jhoicas/product-editor/internal/domain/repository"
	"github.com/jhoicas/product-editor/internal/infrastructure/catalogapi"
	"github.com/jhoicas/product-editor/internal/infrastructure/draftstore"
	infrapdf "github.com/jhoicas/product-editor/internal/infrastructure/pdf"
	"github.com/jhoicas/product-editor/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/product-editor/internal/interfaces/http"
	"github.com/jhoicas/product-editor/pkg/config"
	"github.com/jhoicas/product-editor/pkg/logger"
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
		Str("upstream", cfg.Upstream.BaseURL).
		Msg("iniciando aplicación")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET requerido")
	}

	ctx := context.Background()

	// Borradores: en memoria (una réplica) o Redis (compartidos)
	var drafts repository.DraftStore
	switch cfg.Drafts.Store {
	case "redis":
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Redis.Addr).Msg("conexión a Redis")
		}
		defer rdb.Close()
		drafts = draftstore.NewRedisStore(rdb, cfg.Redis.Prefix, cfg.Drafts.TTL, cfg.Drafts.MaxRetries)
	default:
		drafts = draftstore.NewMemoryStore(cfg.Drafts.TTL)
	}
	log.Info().Str("store", cfg.Drafts.Store).Dur("ttl", cfg.Drafts.TTL).Msg("almacén de borradores")

	// Historial de envíos: opcional, solo con base de datos configurada
	var journal repository.SubmissionJournal
	if cfg.DB.Enabled() {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		repo := postgres.NewSubmissionJournalRepository(pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("esquema del historial")
		}
		journal = repo
	} else {
		log.Warn().Msg("sin base de datos: historial de envíos deshabilitado")
	}

	catalog := catalogapi.New(catalogapi.Config{
		BaseURL:      cfg.Upstream.BaseURL,
		Token:        cfg.Upstream.Token,
		Timeout:      cfg.Upstream.Timeout,
		MaxBodyBytes: cfg.Upstream.MaxBodyBytes,
	}, log.Component("catalogapi"))

	referenceUC := usecase.NewReferenceUseCase(catalog, cfg.Cache.Size, cfg.Cache.TTL, log.Component("reference"))
	editorUC := usecase.NewEditorUseCase(drafts, catalog, referenceUC, journal,
		usecase.EditorConfig{PhotoPath: cfg.Upstream.PhotoPath}, log.Component("editor"))
	barcodeUC := usecase.NewBarcodeUseCase(catalog, infrapdf.NewMarotoBarcodeRenderer(),
		barcode.Layout{Columns: cfg.Barcode.Columns, RowsPerPage: cfg.Barcode.RowsPerPage},
		cfg.Barcode.Parallelism, log.Component("barcode"))
	submissionUC := usecase.NewSubmissionUseCase(journal)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    cfg.HTTP.BodyLimit,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if cfg.Swagger != "" {
		if _, err := os.Stat(cfg.Swagger); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: cfg.Swagger,
				Path:     "docs",
				Title:    "Product Editor API",
			}))
		} else {
			log.Warn().Str("file", cfg.Swagger).Msg("swagger no disponible")
		}
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		EditorUC:     editorUC,
		ReferenceUC:  referenceUC,
		BarcodeUC:    barcodeUC,
		SubmissionUC: submissionUC,
		JWTSecret:    cfg.JWT.Secret,
		Log:          log.Component("http"),
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
