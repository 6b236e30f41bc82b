package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	appControllers "github.com/yigit/schedulepro/internal/app/controllers"
	appMigrations "github.com/yigit/schedulepro/internal/app/migrations"
	appRepos "github.com/yigit/schedulepro/internal/app/repositories"
	appRoutes "github.com/yigit/schedulepro/internal/app/routes"
	appServices "github.com/yigit/schedulepro/internal/app/services"
	"github.com/yigit/schedulepro/internal/config"
	"github.com/yigit/schedulepro/internal/db"
	appMiddleware "github.com/yigit/schedulepro/internal/middleware"
	pkgAuth "github.com/yigit/schedulepro/internal/pkg/auth"
	"github.com/yigit/schedulepro/internal/pkg/logger"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	CatalogService    appServices.CatalogService
	SolveService      appServices.SolveService
	ExportService     appServices.ExportService
	AuthService       appServices.AuthService
	AuthController    *appControllers.AuthController
	CatalogController *appControllers.CatalogController
	SolveController   *appControllers.SolveController
	ExportController  *appControllers.ExportController
	AuthMiddleware    *appMiddleware.AuthMiddleware
	SolveLimiter      *appMiddleware.RateLimiter
	Repos             *appRepos.Repositories
	JWTService        *pkgAuth.JWTService
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	logger.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config) (*pgxpool.Pool, error) {
	logger.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		logger.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	logger.Info().Msg("Database connection successfully established.")

	logger.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		logger.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		logger.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	logger.Info().Msg("Database migrations successfully applied.")

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool) (*Dependencies, error) {
	deps := &Dependencies{}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:      cfg.JWT.Secret,
		AccessTokenExp: cfg.AccessTokenExp(),
		TokenIssuer:    cfg.JWT.Issuer,
	})

	deps.CatalogService = appServices.NewCatalogService(deps.Repos.OfferingRepository)
	deps.SolveService = appServices.NewSolveService(deps.CatalogService, cfg.SolveTimeout(), cfg.Solver.NodeBudget)
	deps.ExportService = appServices.NewExportService()
	deps.AuthService = appServices.NewAuthService(deps.JWTService, cfg.Admin.Username, cfg.Admin.PasswordHash)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)
	deps.SolveLimiter = appMiddleware.NewRateLimiter(cfg.RateLimit.SolvePerMinute)

	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.CatalogController = appControllers.NewCatalogController(deps.CatalogService)
	deps.SolveController = appControllers.NewSolveController(deps.SolveService)
	deps.ExportController = appControllers.NewExportController(deps.CatalogService, deps.ExportService)

	// Populate the snapshot from whatever the database already holds.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := deps.CatalogService.Reload(ctx); err != nil {
		logger.Error().Err(err).Msg("Failed to load catalog on startup, proceeding with empty catalog")
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		logger.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		logger.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(), gin.Recovery())

	// Setup Swagger
	appRoutes.SetupSwagger(router)

	// Setup API routes using the dependencies
	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.CatalogController,
		deps.SolveController,
		deps.ExportController,
		deps.AuthMiddleware,
		deps.SolveLimiter,
	)

	return router
}
