package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/turfworks/greenmaster/docs"
	"github.com/turfworks/greenmaster/internal/api/handler"
	"github.com/turfworks/greenmaster/internal/api/middleware"
	"github.com/turfworks/greenmaster/internal/core/ports"
	"github.com/turfworks/greenmaster/internal/core/service"
	"github.com/turfworks/greenmaster/internal/infrastructure/queue"
)

// Deps carries everything the router needs. The composition root decides the
// concrete store and session backends; the routes are identical in both modes.
type Deps struct {
	Sync         *service.Synchronizer
	Sessions     ports.SessionService
	SessionStore ports.SessionStore
	Assistant    *service.AIService
	Jobs         *queue.Dispatcher
	JWTSecret    string
	Health       map[string]handler.DependencyCheck
	Log          zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("greenmaster"))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(deps.Sessions)
	courseHandler := handler.NewCourseHandler(deps.Sync)
	logHandler := handler.NewLogHandler(deps.Sync)
	personHandler := handler.NewPersonHandler(deps.Sync)
	eventHandler := handler.NewEventHandler(deps.Sync)
	financeHandler := handler.NewFinanceHandler(deps.Sync)
	adminHandler := handler.NewAdminHandler(deps.Sync)
	draftHandler := handler.NewDraftHandler(deps.SessionStore)
	aiHandler := handler.NewAIHandler(deps.Assistant, deps.Jobs)
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Health)

	auth := middleware.Auth(deps.JWTSecret, deps.Sessions)
	fullData := middleware.RequireFullData()
	ai := middleware.RequireAI()
	admin := middleware.RequireAdmin()

	// --- Public surface ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/logout", authHandler.Logout, auth)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Authenticated surface ---
	g := e.Group("/api", auth)
	g.GET("/me", authHandler.Me)

	// Courses are readable by every approved role; the restricted view only
	// narrows logs. Mutations need full data access.
	g.GET("/courses", courseHandler.List)
	g.POST("/courses", courseHandler.Create, fullData)
	g.PATCH("/courses/:id", courseHandler.Update, fullData)
	g.DELETE("/courses/:id", courseHandler.Delete, fullData)

	g.GET("/logs", logHandler.List)
	g.POST("/logs", logHandler.Create, fullData)
	g.PATCH("/logs/:id", logHandler.Update, fullData)
	g.DELETE("/logs/:id", logHandler.Delete, fullData)

	g.GET("/people", personHandler.List, fullData)
	g.POST("/people", personHandler.Upsert, fullData)
	g.PATCH("/people/:id", personHandler.Update, fullData)
	g.DELETE("/people/:id", personHandler.Delete, fullData)

	g.GET("/events", eventHandler.List, fullData)
	g.POST("/events", eventHandler.Create, fullData)
	g.PATCH("/events/:id", eventHandler.Update, fullData)
	g.DELETE("/events/:id", eventHandler.Delete, fullData)

	g.GET("/financials", financeHandler.ListFinancials, fullData)
	g.POST("/financials", financeHandler.CreateFinancial, fullData)
	g.PATCH("/financials/:id", financeHandler.UpdateFinancial, fullData)
	g.DELETE("/financials/:id", financeHandler.DeleteFinancial, fullData)

	g.GET("/materials", financeHandler.ListMaterials, fullData)
	g.POST("/materials", financeHandler.CreateMaterial, fullData)
	g.PATCH("/materials/:id", financeHandler.UpdateMaterial, fullData)
	g.DELETE("/materials/:id", financeHandler.DeleteMaterial, fullData)

	g.PUT("/drafts/:form", draftHandler.Save)
	g.GET("/drafts/:form", draftHandler.Load)
	g.DELETE("/drafts/:form", draftHandler.Clear)

	g.POST("/ai/courses/:id/summary", aiHandler.Summarize, ai)
	g.POST("/ai/courses/:id/refresh", aiHandler.Refresh, ai)
	g.POST("/ai/search", aiHandler.Search, ai)

	g.GET("/admin/users", adminHandler.ListUsers, admin)
	g.PATCH("/admin/users/:id", adminHandler.UpdateUser, admin)
	g.DELETE("/admin/users/:id", adminHandler.DeleteUser, admin)
	g.GET("/admin/audit", adminHandler.AuditLog, admin)

	return e
}
