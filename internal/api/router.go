package api

import (
	"sync"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/propertyhub/backoffice/internal/api/handler"
	"github.com/propertyhub/backoffice/internal/api/middleware"
	"github.com/propertyhub/backoffice/internal/core/domain"
	"github.com/propertyhub/backoffice/internal/core/ports"
	"github.com/propertyhub/backoffice/internal/core/service"
	"github.com/propertyhub/backoffice/internal/pkg/metrics"
)

// httpMetrics registers with the default Prometheus registry, which accepts
// each collector only once per process.
var httpMetrics = sync.OnceValue(func() echo.MiddlewareFunc {
	return echoprometheus.NewMiddleware(metrics.Namespace)
})

// Deps holds everything the HTTP layer needs. main builds it.
type Deps struct {
	Log        zerolog.Logger
	Auth       ports.AuthService
	Sales      ports.SaleService
	Properties ports.PropertyService
	Tokens     *service.TokenManager
	Creds      middleware.CredentialLookup
	// Checks are the readiness probes, keyed by dependency name.
	Checks map[string]handler.PingFunc
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(httpMetrics())

	authHandler := handler.NewAuthHandler(d.Auth)
	saleHandler := handler.NewSaleHandler(d.Sales)
	propertyHandler := handler.NewPropertyHandler(d.Properties)

	authMW := middleware.Auth(d.Tokens, d.Creds)
	optionalAuth := middleware.OptionalAuth(d.Tokens, d.Creds)
	adminOnly := middleware.RBAC(domain.RoleAdministrator)
	staff := middleware.RBAC(domain.RoleAdministrator, domain.RoleSalesperson)

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register, optionalAuth)
	auth.POST("/login", authHandler.Login)
	auth.GET("/profile", authHandler.Profile, authMW)
	auth.PUT("/password", authHandler.ChangePassword, authMW)
	auth.PATCH("/credentials/:identityKey/role", authHandler.ChangeRole, authMW, adminOnly)
	auth.PATCH("/credentials/:identityKey/active", authHandler.ChangeActivation, authMW, adminOnly)

	// --- Sale routes ---
	sales := e.Group("/sales", authMW)
	sales.GET("", saleHandler.List)
	sales.GET("/:id", saleHandler.Get)
	sales.POST("", saleHandler.Create, staff)
	sales.PUT("/:id", saleHandler.Update, staff)
	sales.PATCH("/:id/status", saleHandler.UpdateStatus, staff)
	sales.DELETE("/:id", saleHandler.Delete, adminOnly)

	// --- Catalog routes ---
	owners := e.Group("/owners", authMW)
	owners.GET("", propertyHandler.ListOwners)
	owners.GET("/:id", propertyHandler.GetOwner)
	owners.POST("", propertyHandler.CreateOwner, staff)

	clients := e.Group("/clients", authMW)
	clients.GET("", propertyHandler.ListClients)
	clients.GET("/:id", propertyHandler.GetClient)
	clients.POST("", propertyHandler.CreateClient, staff)

	properties := e.Group("/properties", authMW)
	properties.GET("", propertyHandler.ListProperties)
	properties.GET("/:id", propertyHandler.GetProperty)
	properties.POST("", propertyHandler.CreateProperty, staff)
	properties.PATCH("/:id/availability", propertyHandler.SetAvailability, adminOnly)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
