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
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/mbaylon/interntrack/internal/app/controllers"
	appMigrations "github.com/mbaylon/interntrack/internal/app/migrations"
	appRepos "github.com/mbaylon/interntrack/internal/app/repositories"
	appRoutes "github.com/mbaylon/interntrack/internal/app/routes"
	appServices "github.com/mbaylon/interntrack/internal/app/services"
	"github.com/mbaylon/interntrack/internal/config"
	"github.com/mbaylon/interntrack/internal/db"
	appMiddleware "github.com/mbaylon/interntrack/internal/middleware"
	pkgAuth "github.com/mbaylon/interntrack/internal/pkg/auth"
	"github.com/mbaylon/interntrack/internal/pkg/cache"
	"github.com/mbaylon/interntrack/internal/pkg/events"
	"github.com/mbaylon/interntrack/internal/pkg/filestorage"
	"github.com/mbaylon/interntrack/internal/pkg/helpers"
	"github.com/mbaylon/interntrack/internal/pkg/live"
	"github.com/mbaylon/interntrack/internal/pkg/logger"
	"github.com/mbaylon/interntrack/internal/pkg/metrics"
	"github.com/mbaylon/interntrack/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos *appRepos.Repositories

	JWTService  *pkgAuth.JWTService
	FileStorage *filestorage.LocalStorage
	StatsCache  *cache.StatsCache
	Broker      events.Publisher
	Hub         *live.Hub
	LiveHandler *live.Handler

	AuthService         *appServices.AuthService
	StudentService      *appServices.StudentService
	ImportService       *appServices.ImportService
	ExportService       *appServices.ExportService
	RequirementService  *appServices.RequirementService
	NotificationService *appServices.NotificationService
	StatsService        *appServices.StatsService
	AvatarService       *appServices.AvatarService
	CompanyService      *appServices.CompanyService
	AuditService        *appServices.AuditService

	AuthController         *appControllers.AuthController
	StudentController      *appControllers.StudentController
	RequirementController  *appControllers.RequirementController
	NotificationController *appControllers.NotificationController
	CompanyController      *appControllers.CompanyController
	StatsController        *appControllers.StatsController
	AdminController        *appControllers.AdminController

	AuthMiddleware *appMiddleware.AuthMiddleware
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logger.Configure(logger.Config{
		Level:  strings.ToLower(cfg.Logging.Level),
		Pretty: strings.ToLower(cfg.Logging.Format) == "text",
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
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

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		dbPool.Close()
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool)
	if err := migrator.MigrateFromDirectory(ctx, migrationsDir); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	if err := seed.CreateDefaultData(ctx, dbPool, cfg.App.AdminSeedPassword, lgr); err != nil {
		// Seeding is best-effort; the dashboard works without default data
		lgr.Error().Err(err).Msg("Failed to seed default data, proceeding anyway")
	}

	return dbPool, nil
}

// BuildDependencies initializes repositories, services and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	var err error
	fileStorageBaseURL := cfg.Server.BaseURL + "/uploads"
	deps.FileStorage, err = filestorage.NewLocalStorage(cfg.Server.StoragePath, fileStorageBaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  helpers.ParseDuration(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: helpers.ParseDuration(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	// Optional infrastructure: the dashboard degrades gracefully without
	// redis (stats are computed per request) and without AMQP (events stay
	// in-process).
	if cfg.Redis.Enabled {
		redisClient, err := cache.NewRedisClient(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			lgr.Warn().Err(err).Msg("Redis unavailable, stats caching disabled")
		} else {
			deps.StatsCache = cache.NewStatsCache(redisClient, cfg.StatsTTL())
		}
	}

	deps.Broker = events.NoopPublisher{}
	if cfg.AMQP.Enabled {
		broker, err := events.NewAMQPPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange, lgr)
		if err != nil {
			lgr.Warn().Err(err).Msg("AMQP broker unavailable, event publishing disabled")
		} else {
			deps.Broker = broker
		}
	}

	deps.Hub = live.NewHub(lgr)
	go deps.Hub.Run()
	deps.LiveHandler = live.NewHandler(deps.Hub, deps.Repos.ProgramRepository, lgr)

	requiredDocs := cfg.App.RequiredDocuments
	auditStore := appServices.NewPublishingAuditStore(deps.Repos.AuditRepository, deps.Broker, lgr)

	// Every mutation publishes a feed event, so the decorated feed doubles
	// as the invalidation point for cached counters.
	deps.StatsService = appServices.NewStatsService(deps.Repos.StudentRepository, deps.StatsCache, requiredDocs, lgr)
	feed := appServices.NewInvalidatingFeed(deps.Hub, deps.StatsService)

	deps.AuthService = appServices.NewAuthService(
		deps.Repos.UserRepository,
		deps.Repos.TokenRepository,
		deps.JWTService,
		lgr,
	)
	deps.StudentService = appServices.NewStudentService(
		deps.Repos.StudentRepository,
		deps.Repos.UserRepository,
		auditStore,
		feed,
		requiredDocs,
		lgr,
	).WithDeletedStore(deps.Repos.DeletedStudentRepository)
	deps.ImportService = appServices.NewImportService(deps.Repos.StudentRepository, auditStore, lgr).
		WithStatsInvalidator(deps.StatsService)
	deps.ExportService = appServices.NewExportService(deps.Repos.StudentRepository, lgr)
	deps.RequirementService = appServices.NewRequirementService(
		deps.Repos.StudentRepository,
		deps.Repos.RequirementSubmissionRepository,
		auditStore,
		feed,
		lgr,
	)
	deps.NotificationService = appServices.NewNotificationService(
		deps.Repos.NotificationRepository,
		deps.Repos.StudentRepository,
		feed,
		deps.Broker,
		cfg.App.NotificationRetention,
		lgr,
	)
	deps.AvatarService = appServices.NewAvatarService(deps.Repos.StudentRepository, deps.FileStorage, lgr)
	deps.CompanyService = appServices.NewCompanyService(deps.Repos.CompanyRepository, deps.Repos.ProgramRepository)
	deps.AuditService = appServices.NewAuditService(deps.Repos.AuditRepository)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	programs := deps.Repos.ProgramRepository
	deps.AuthController = appControllers.NewAuthController(deps.AuthService)
	deps.StudentController = appControllers.NewStudentController(deps.StudentService, programs)
	deps.RequirementController = appControllers.NewRequirementController(deps.RequirementService, programs)
	deps.NotificationController = appControllers.NewNotificationController(deps.NotificationService, programs)
	deps.CompanyController = appControllers.NewCompanyController(deps.CompanyService)
	deps.StatsController = appControllers.NewStatsController(deps.StatsService, programs)
	deps.AdminController = appControllers.NewAdminController(
		deps.ImportService,
		deps.ExportService,
		deps.AvatarService,
		deps.StudentService,
		deps.AuditService,
		programs,
	)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(lgr))
	router.Use(metrics.GinMiddleware())

	appRoutes.SetupSwagger(router)
	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.StudentController,
		deps.RequirementController,
		deps.NotificationController,
		deps.CompanyController,
		deps.StatsController,
		deps.AdminController,
		deps.LiveHandler,
		deps.AuthMiddleware,
	)

	return router
}
