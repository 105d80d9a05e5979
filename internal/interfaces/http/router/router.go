package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/stockroom/backend/internal/infrastructure/auth"
	applogger "github.com/stockroom/backend/internal/infrastructure/logger"
	"github.com/stockroom/backend/internal/interfaces/http/handler"
	"github.com/stockroom/backend/internal/interfaces/http/middleware"
)

// RouteRegistrar defines the interface for registering routes
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router manages HTTP route registration
type Router struct {
	engine     *gin.Engine
	apiVersion string
	registrars []RouteRegistrar
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g. "v1")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// NewRouter creates a new Router instance
func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
		registrars: make([]RouteRegistrar, 0),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// Register adds a RouteRegistrar to be registered later
func (r *Router) Register(registrar RouteRegistrar) *Router {
	r.registrars = append(r.registrars, registrar)
	return r
}

// Setup registers all routes with the engine
func (r *Router) Setup() {
	api := r.engine.Group("/api/" + r.apiVersion)

	for _, registrar := range r.registrars {
		registrar.RegisterRoutes(api)
	}
}

// Dependencies holds everything needed to assemble the HTTP engine
type Dependencies struct {
	Logger        *zap.Logger
	JWTService    *auth.JWTService
	SystemHandler *handler.SystemHandler
	Registrars    []RouteRegistrar
}

// NewEngine builds a gin engine with the standard middleware chain and
// all routes registered. The health endpoint stays outside auth.
func NewEngine(deps Dependencies) *gin.Engine {
	engine := gin.New()

	engine.Use(middleware.RequestID())
	engine.Use(applogger.GinMiddleware(deps.Logger))
	engine.Use(applogger.Recovery(deps.Logger))
	engine.Use(middleware.JWTAuth(deps.JWTService, "/health", "/api/v1/health"))

	engine.GET("/health", deps.SystemHandler.Health)
	engine.GET("/api/v1/health", deps.SystemHandler.Health)

	router := NewRouter(engine)
	for _, registrar := range deps.Registrars {
		router.Register(registrar)
	}
	router.Setup()

	return engine
}
