package main

import (
	"context"
	"crypto/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/swaggo/swag"

	"github.com/jhoicas/simple-api/docs"
	"github.com/jhoicas/simple-api/internal/application/auth"
	"github.com/jhoicas/simple-api/internal/domain/repository"
	"github.com/jhoicas/simple-api/internal/infrastructure/memory"
	"github.com/jhoicas/simple-api/internal/infrastructure/metrics"
	"github.com/jhoicas/simple-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/simple-api/internal/interfaces/http"
	"github.com/jhoicas/simple-api/pkg/config"
	"github.com/jhoicas/simple-api/pkg/identity"
	"github.com/jhoicas/simple-api/pkg/jwt"
	"github.com/jhoicas/simple-api/pkg/logger"
	"github.com/jhoicas/simple-api/pkg/password"
)

const swaggerFile = "./docs/swagger.json"

// @title                       simple-api
// @version                     1.0
// @description                 Registro, login y emisión/validación de tokens JWT.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("db_driver", cfg.DB.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	userRepo, closeStore := openStore(ctx, cfg, log)
	defer closeStore()

	// Única fuente aleatoria del proceso.
	random := rand.Reader
	authMetrics := metrics.New()

	issuer, err := jwt.NewIssuer(jwt.Config{
		Secret:   cfg.JWT.Secret,
		Issuer:   cfg.JWT.Issuer,
		Audience: cfg.JWT.Audience,
		Validity: cfg.JWT.Validity(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("configuración JWT")
	}
	ids := identity.NewGenerator(userRepo, random,
		identity.WithMaxAttempts(cfg.Identity.MaxAttempts),
		identity.WithCollisionHook(authMetrics.Collision),
	)
	authUC, err := auth.NewAuthUseCase(auth.Deps{
		Users:       userRepo,
		IDs:         ids,
		Hasher:      password.NewHasher(random),
		Tokens:      issuer,
		PhoneRegion: cfg.Profile.DefaultPhoneRegion,
		Log:         log,
		Metrics:     authMetrics,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("caso de uso de auth")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(httpRouter.RequestLogger(log))

	// Swagger UI solo en desarrollo: http://localhost:<port>/docs
	if cfg.App.IsDevelopment() {
		app.Get("/swagger.json", func(c *fiber.Ctx) error {
			doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
			if err != nil {
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
			}
			c.Type("json")
			return c.SendString(doc)
		})
		if _, err := os.Stat(swaggerFile); err == nil {
			app.Use(swagger.New(swagger.Config{
				BasePath: "/",
				FilePath: swaggerFile,
				Path:     "docs",
				Title:    cfg.App.Name,
			}))
		} else {
			log.Warn().Str("file", swaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
		}
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(authMetrics.Handler()))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		Tokens:         issuer,
		Log:            log,
		Metrics:        authMetrics,
		RequestTimeout: cfg.HTTP.RequestTimeout,
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

// openStore elige el adaptador de persistencia según DB_DRIVER.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (repository.UserRepository, func()) {
	if cfg.DB.Driver == config.DriverMemory {
		log.Warn().Msg("usando almacenamiento en memoria: los datos no persisten")
		return memory.NewUserRepository(), func() {}
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	if cfg.DB.MigrateOnStart {
		if err := postgres.Migrate(ctx, pool); err != nil {
			pool.Close()
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Msg("migraciones aplicadas")
	}
	return postgres.NewUserRepository(pool), pool.Close
}
