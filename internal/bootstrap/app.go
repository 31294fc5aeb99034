package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/exports"
	"portfolio-backend/internal/generation"
	"portfolio-backend/internal/llm"
	"portfolio-backend/internal/llm/openai"
	"portfolio-backend/internal/portfolios"
	"portfolio-backend/internal/services/health"
	"portfolio-backend/internal/shared/config"
	"portfolio-backend/internal/shared/server"
	"portfolio-backend/internal/shared/storage/db"
	"portfolio-backend/internal/shared/storage/object"
	localstore "portfolio-backend/internal/shared/storage/object/local"
	s3store "portfolio-backend/internal/shared/storage/object/s3"
	"portfolio-backend/internal/shared/telemetry"
	"portfolio-backend/internal/templates"
	"portfolio-backend/internal/users"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config        config.Config
	Router        *gin.Engine
	DB            *sql.DB
	Redis         *redis.Client
	Store         object.Store
	Enhancer      llm.Enhancer
	Invoker       generation.Invoker
	UsersRepo     users.Repo
	Portfolios    portfolios.Repo
	Templates     templates.Repo
	Exports       exports.Repo
	Revocations   auth.RevocationStore
	Pipeline      *generation.Pipeline
	Function      *generation.Function
	PasswordAuth  *auth.PasswordService
	GoogleAuth    *auth.GoogleService
	ExportService *exports.Service
}

// Build prepares dependencies and wires routes. Without DATABASE_URL in
// dev-like environments the repositories are in-memory.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	redisClient, err := buildRedis(ctx, cfg)
	if err != nil {
		return nil, err
	}
	enhancer, err := buildEnhancer(cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config:   cfg,
		DB:       sqlDB,
		Redis:    redisClient,
		Store:    store,
		Enhancer: enhancer,
	}
	buildServices(app)

	var pinger health.Pinger
	if sqlDB != nil {
		pinger = sqlDB
	}
	userSvc := users.NewService(app.UsersRepo)
	app.Router = server.NewRouter(server.RouterDeps{
		Config:            cfg,
		Revocations:       app.Revocations,
		Health:            health.NewService(pinger),
		AuthHandler:       auth.NewHandler(app.PasswordAuth),
		GoogleAuth:        app.GoogleAuth,
		UserHandler:       users.NewHandler(userSvc),
		PortfolioHandler:  portfolios.NewHandler(portfolios.NewService(app.Portfolios)),
		GenerationHandler: generation.NewHandler(app.Pipeline, app.Function),
		TemplateHandler:   templates.NewHandler(app.Templates),
		ExportHandler:     exports.NewHandler(app.ExportService),
		EnableImports:     true,
	})
	return app, nil
}

func buildServices(app *App) {
	if app.DB != nil {
		app.UsersRepo = &users.PGRepo{DB: app.DB}
		app.Portfolios = &portfolios.PGRepo{DB: app.DB}
		app.Templates = &templates.PGRepo{DB: app.DB}
		app.Exports = &exports.PGRepo{DB: app.DB}
	} else {
		app.UsersRepo = users.NewMemoryRepo()
		app.Portfolios = portfolios.NewMemoryRepo()
		app.Templates = templates.NewSeededMemoryRepo()
		app.Exports = exports.NewMemoryRepo()
	}
	if app.Redis != nil {
		app.Revocations = auth.NewRedisRevocations(app.Redis)
	} else {
		app.Revocations = auth.NewMemoryRevocations()
	}

	app.Function = generation.NewFunction(app.Portfolios, app.Enhancer)
	if url := strings.TrimSpace(app.Config.GenerationFunctionURL); url != "" {
		app.Invoker = generation.NewHTTPInvoker(url, generation.InvokerTimeout(app.Config.LLMTimeout))
	} else {
		app.Invoker = generation.LocalInvoker{Function: app.Function}
	}
	app.Pipeline = generation.NewPipeline(app.Portfolios, app.Templates, app.Invoker)

	app.PasswordAuth = &auth.PasswordService{
		Users:           app.UsersRepo,
		Mailer:          auth.LogMailer{},
		Revocations:     app.Revocations,
		VerifyURL:       strings.TrimRight(app.Config.AppBaseURL, "/") + "/api/v1/auth/verify",
		VerificationTTL: app.Config.VerificationTTL,
	}
	app.GoogleAuth = auth.NewGoogleService(
		app.Config.GoogleClientID,
		app.Config.GoogleClientSecret,
		app.Config.GoogleRedirectURL,
		app.Config.UIRedirectURL,
		users.NewService(app.UsersRepo),
	)
	app.ExportService = &exports.Service{
		Repo:       app.Exports,
		Portfolios: app.Portfolios,
		Templates:  app.Templates,
		Store:      app.Store,
	}
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultLambdaOptions()))
	} else {
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "database connect failed", "error": err})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.Store, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildRedis(ctx context.Context, cfg config.Config) (*redis.Client, error) {
	if strings.TrimSpace(cfg.RedisURL) == "" {
		return nil, nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_revocations", map[string]any{"error": err})
			return nil, nil
		}
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

func buildEnhancer(cfg config.Config) (llm.Enhancer, error) {
	if cfg.LLMProvider != "openai" || strings.TrimSpace(cfg.OpenAIAPIKey) == "" {
		telemetry.Info("bootstrap.enhancer_disabled", map[string]any{"provider": cfg.LLMProvider})
		return llm.PlaceholderEnhancer{}, nil
	}
	client, err := openai.NewClient(openai.Options{
		APIKey:      cfg.OpenAIAPIKey,
		Model:       cfg.LLMModel,
		BaseURL:     cfg.LLMBaseURL,
		Temperature: cfg.LLMTemperature,
		MaxTokens:   cfg.LLMMaxTokens,
		Timeout:     cfg.LLMTimeout,
	})
	if errors.Is(err, llm.ErrNotConfigured) {
		return llm.PlaceholderEnhancer{}, nil
	}
	if err != nil {
		return nil, err
	}
	return client, nil
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
