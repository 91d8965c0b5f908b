package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/simple-api/internal/application/auth"
	"github.com/jhoicas/simple-api/internal/domain/entity"
	"github.com/jhoicas/simple-api/internal/infrastructure/metrics"
	"github.com/jhoicas/simple-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	Tokens         TokenValidator
	Log            *logger.Logger
	Metrics        *metrics.AuthMetrics
	RequestTimeout time.Duration
}

// Router registra las rutas de la API. Toda petición bajo /api pasa por
// Authenticate y ClaimsGuard antes de llegar a un handler.
func Router(app *fiber.App, deps RouterDeps) {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	timeout := deps.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	api := app.Group("/api",
		Authenticate(deps.Tokens, log, deps.Metrics),
		ClaimsGuard(log, deps.Metrics),
	)

	// Auth (público salvo /me)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, timeout, log)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Put("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Get("/me", RequireAuth(), authHandler.Me)

	// Pruebas de protocolo
	probes := NewProbeHandler()
	test := api.Group("/test")
	test.Get("/get", probes.Get)
	test.Post("/post", probes.Post)
	test.Put("/put", probes.Put)
	test.Delete("/delete", probes.Delete)

	// Pruebas de autorización
	protected := test.Group("/protected")
	protected.Get("/basic", RequireAuth(), probes.Basic)
	protected.Get("/user-only", RequireRole(string(entity.RoleUser)), probes.UserOnly)
	protected.Get("/admin-only", RequireRole(string(entity.RoleAdmin)), probes.AdminOnly)
}
