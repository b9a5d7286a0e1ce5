package api

import (
	"fmt"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/authgate/resource-api/docs"
	"github.com/authgate/resource-api/internal/api/handler"
	"github.com/authgate/resource-api/internal/api/middleware"
	"github.com/authgate/resource-api/internal/core/access"
	"github.com/authgate/resource-api/internal/core/domain"
	"github.com/authgate/resource-api/internal/core/ports"
)

// Dependencies are the collaborators the HTTP layer is built from.
type Dependencies struct {
	Auth    ports.AuthService
	Tokens  ports.TokenAuthenticator
	Records ports.RecordService
	Policy  *access.Policy
	// Audit receives access-denied events. May be nil.
	Audit  ports.AuditSink
	Checks map[string]handler.Check
	Logger zerolog.Logger
	// Registerer enables per-route HTTP metrics when set. Left nil in tests
	// so repeated routers do not collide on the default registry.
	Registerer prometheus.Registerer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.BodyLimit("1M"))
	if deps.Registerer != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Subsystem:  "http",
			Registerer: deps.Registerer,
		}))
	}

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	e.POST("/signup", authHandler.SignUp)
	e.POST("/signin", authHandler.SignIn)

	// --- Resource routes, one group per route class ---
	records := handler.NewRecordHandler(deps.Records)
	for _, name := range []string{access.ClassV1, access.ClassV2} {
		class, ok := deps.Policy.Class(name)
		if !ok {
			return nil, fmt.Errorf("router: policy has no route class %q", name)
		}
		gate := middleware.NewGate(class, deps.Audit, deps.Logger)

		g := e.Group("/api/"+name, middleware.Auth(deps.Tokens, class, deps.Logger))
		g.GET("/:model", records.List, gate.RequireAction(domain.ActionRead))
		g.GET("/:model/:id", records.Get, gate.RequireAction(domain.ActionRead))
		g.POST("/:model", records.Create, gate.RequireAction(domain.ActionCreate))
		g.PUT("/:model/:id", records.Update, gate.RequireAction(domain.ActionUpdate))
		g.DELETE("/:model/:id", records.Delete, gate.RequireAction(domain.ActionDelete))
	}

	// --- Health probes and tooling (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, nil
}
