package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/mertkaya/courselog/internal/app/controllers"
	appMigrations "github.com/mertkaya/courselog/internal/app/migrations"
	appRepos "github.com/mertkaya/courselog/internal/app/repositories"
	appRoutes "github.com/mertkaya/courselog/internal/app/routes"
	appServices "github.com/mertkaya/courselog/internal/app/services"
	"github.com/mertkaya/courselog/internal/config"
	"github.com/mertkaya/courselog/internal/db"
	appMiddleware "github.com/mertkaya/courselog/internal/middleware"
	pkgAuth "github.com/mertkaya/courselog/internal/pkg/auth"
	"github.com/mertkaya/courselog/internal/pkg/logger"
	"github.com/mertkaya/courselog/internal/pkg/tokenstore"
	"github.com/mertkaya/courselog/internal/pkg/validation"
	"github.com/mertkaya/courselog/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	AuthService      *appServices.AuthService
	UserService      *appServices.UserService
	CourseService    *appServices.CourseService
	LogService       *appServices.LogService
	AuthController   *appControllers.AuthController
	CourseController *appControllers.CourseController
	LogController    *appControllers.LogController
	UserController   *appControllers.UserController
	TenantController *appControllers.TenantController
	AuthMiddleware   *appMiddleware.AuthMiddleware
	Repos            *appRepos.Repositories
	JWTService       *pkgAuth.JWTService
	TokenStore       *tokenstore.Store
	Logger           zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds default data.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), cfg, dbPool, lgr); err != nil {
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// SetupTokenStore connects the session revocation store.
func SetupTokenStore(cfg *config.Config, lgr zerolog.Logger) (*tokenstore.Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	store, err := tokenstore.Connect(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		lgr.Error().Err(err).Str("addr", cfg.Redis.Addr).Msg("Failed to connect to Redis")
		return nil, err
	}

	lgr.Info().Str("addr", cfg.Redis.Addr).Msg("Token revocation store connected")
	return store, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, tokens *tokenstore.Store, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, TokenStore: tokens}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenExp:    cfg.TokenExpiration(),
		TokenIssuer: cfg.JWT.Issuer,
	})

	deps.AuthService = appServices.NewAuthService(deps.Repos.User, tokens, deps.JWTService, lgr)
	deps.UserService = appServices.NewUserService(deps.Repos.User, deps.Repos.Course, deps.Repos.Log, lgr)
	deps.CourseService = appServices.NewCourseService(deps.Repos.Course, deps.Repos.User, lgr)
	deps.LogService = appServices.NewLogService(deps.Repos.Log, deps.Repos.Course, deps.Repos.User, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService, tokens)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService, deps.JWTService)
	deps.CourseController = appControllers.NewCourseController(deps.CourseService)
	deps.LogController = appControllers.NewLogController(deps.LogService)
	deps.UserController = appControllers.NewUserController(deps.UserService)
	deps.TenantController = appControllers.NewTenantController(cfg)

	return deps, nil
}

// SetupRouter configures the Gin engine and wraps it with the tenant
// resolver. The returned handler is what the HTTP server serves: tenant
// resolution rewrites the path before gin ever routes it.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) http.Handler {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	validation.RegisterCustomRules()

	router := gin.Default()

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.CourseController,
		deps.LogController,
		deps.UserController,
		deps.TenantController,
		deps.AuthMiddleware,
	)

	resolver := appMiddleware.NewTenantResolver(cfg)
	return resolver.Handler(router)
}
