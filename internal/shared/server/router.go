package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/exports"
	"portfolio-backend/internal/generation"
	"portfolio-backend/internal/imports"
	"portfolio-backend/internal/portfolios"
	"portfolio-backend/internal/services/health"
	"portfolio-backend/internal/shared/config"
	"portfolio-backend/internal/shared/metrics"
	"portfolio-backend/internal/shared/server/middleware"
	"portfolio-backend/internal/shared/server/respond"
	"portfolio-backend/internal/templates"
	"portfolio-backend/internal/users"
)

const apiPrefix = "/api/v1"

// FunctionPath is the full path of the generation function endpoint.
const FunctionPath = apiPrefix + generation.FunctionPath

// RouterDeps holds the handlers the router mounts. Nil handlers are skipped.
type RouterDeps struct {
	Config            config.Config
	Revocations       middleware.RevocationChecker
	RateLimits        map[string]middleware.RateLimitRule
	Health            *health.Service
	AuthHandler       *auth.Handler
	GoogleAuth        *auth.GoogleService
	UserHandler       *users.Handler
	PortfolioHandler  *portfolios.Handler
	GenerationHandler *generation.Handler
	TemplateHandler   *templates.Handler
	ExportHandler     *exports.Handler
	EnableImports     bool
}

// DefaultRateLimits applies a loose per-user budget to the API and a tight
// one to portfolio creation, which calls the paid model. The function
// endpoint has its own bucket, at least as large as the creation one, so a
// forwarded call never fails after its creation was admitted.
func DefaultRateLimits() map[string]middleware.RateLimitRule {
	return map[string]middleware.RateLimitRule{
		middleware.RateLimitGroupDefault:    {Rate: 10, Burst: 40},
		middleware.RateLimitGroupGeneration: {Rate: 0.2, Burst: 5},
		middleware.RateLimitGroupFunction:   {Rate: 1, Burst: 20},
	}
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	rules := deps.RateLimits
	if rules == nil {
		rules = DefaultRateLimits()
	}
	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin, FunctionPath),
		middleware.Auth(deps.Revocations),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules:    rules,
			GroupFor: rateLimitGroup,
		}),
	)

	r.GET("/metrics", metrics.Handler())

	api := r.Group(apiPrefix)
	healthSvc := deps.Health
	if healthSvc == nil {
		healthSvc = health.NewService(nil)
	}
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, healthSvc.Status(c.Request.Context()))
	})

	if deps.AuthHandler != nil {
		deps.AuthHandler.RegisterRoutes(api)
	}
	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(api)
	}
	if deps.PortfolioHandler != nil {
		deps.PortfolioHandler.RegisterRoutes(api)
	}
	if deps.GenerationHandler != nil {
		deps.GenerationHandler.RegisterRoutes(api)
	}
	if deps.TemplateHandler != nil {
		deps.TemplateHandler.RegisterRoutes(api)
	}
	if deps.ExportHandler != nil {
		deps.ExportHandler.RegisterRoutes(api)
	}
	if deps.EnableImports {
		imports.RegisterRoutes(api)
	}

	return r
}

func rateLimitGroup(c *gin.Context) string {
	if c.Request.Method != http.MethodPost {
		return middleware.RateLimitGroupDefault
	}
	switch strings.TrimRight(c.Request.URL.Path, "/") {
	case apiPrefix + "/portfolios":
		return middleware.RateLimitGroupGeneration
	case FunctionPath:
		return middleware.RateLimitGroupFunction
	}
	return middleware.RateLimitGroupDefault
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
