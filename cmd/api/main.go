package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/worker-portal/internal/api/http"
	"github.com/spec-kit/worker-portal/internal/api/http/handlers"
	"github.com/spec-kit/worker-portal/internal/auth"
	"github.com/spec-kit/worker-portal/internal/config"
	"github.com/spec-kit/worker-portal/internal/events"
	"github.com/spec-kit/worker-portal/internal/identifier"
	"github.com/spec-kit/worker-portal/internal/notify"
	"github.com/spec-kit/worker-portal/internal/observability"
	"github.com/spec-kit/worker-portal/internal/otp"
	"github.com/spec-kit/worker-portal/internal/persistence"
	"github.com/spec-kit/worker-portal/internal/repository"
	"github.com/spec-kit/worker-portal/internal/service"
	"github.com/spec-kit/worker-portal/internal/storage"
	"github.com/spec-kit/worker-portal/internal/worker"
)

const codeSweepInterval = time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mongoStore, err := persistence.NewMongo(ctx, cfg.Mongo, logger)
	if err != nil {
		logger.Fatal("failed to connect mongodb", zap.Error(err))
	}
	defer mongoStore.Close(context.Background())

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), persistence.DefaultMigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redisStore, err := persistence.NewRedis(ctx, cfg.Redis, logger)
	if err != nil {
		logger.Fatal("failed to connect redis", zap.Error(err))
	}
	defer redisStore.Close()

	var (
		accountRepo  repository.AccountRepository
		taskRepo     repository.TaskRepository
		documentRepo repository.DocumentRepository
	)
	if mongoStore.Enabled() {
		if err := repository.EnsureAccountIndexes(ctx, mongoStore.DB); err != nil {
			logger.Fatal("failed to create account indexes", zap.Error(err))
		}
		accountRepo = repository.NewMongoAccountRepository(mongoStore.DB)
		taskRepo = repository.NewMongoTaskRepository(mongoStore.DB)
		documentRepo = repository.NewMongoDocumentRepository(mongoStore.DB)
	} else {
		accountRepo = repository.NewMemoryAccountRepository()
		taskRepo = repository.NewMemoryTaskRepository()
		documentRepo = repository.NewMemoryDocumentRepository()
	}

	var historyRepo repository.AccountHistoryRepository
	if pg.Enabled() {
		historyRepo = repository.NewAccountHistoryRepository(pg.PoolHandle())
	} else {
		historyRepo = repository.NewMemoryAccountHistoryRepository()
	}

	var emailCodes, nationalCodes otp.Store
	if redisStore.Enabled() {
		emailCodes = otp.NewRedisStore(redisStore.Client, otp.PurposeEmail, cfg.OTP.ValidityWindow, cfg.OTP.Length)
		nationalCodes = otp.NewRedisStore(redisStore.Client, otp.PurposeNationalID, cfg.OTP.ValidityWindow, cfg.OTP.Length)
	} else {
		emailMemory := otp.NewMemoryStore(cfg.OTP.ValidityWindow, cfg.OTP.Length)
		nationalMemory := otp.NewMemoryStore(cfg.OTP.ValidityWindow, cfg.OTP.Length)
		emailCodes, nationalCodes = emailMemory, nationalMemory
		worker.StartCodeSweeper(ctx, emailMemory, codeSweepInterval, logger)
		worker.StartCodeSweeper(ctx, nationalMemory, codeSweepInterval, logger)
	}

	mailer, smsSender := buildNotifiers(cfg.Notification, logger)
	files, filesDir := buildStorage(ctx, cfg.Storage, logger)

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)

	registrationService := service.NewRegistrationService(*cfg, service.RegistrationDependencies{
		Accounts:   accountRepo,
		History:    historyRepo,
		EmailCodes: emailCodes,
		IDs:        identifier.New(cfg.Identifier.Prefix),
		Mailer:     mailer,
		Tokens:     tokens,
		Metrics:    metrics,
		Logger:     logger,
	})
	identityService := service.NewIdentityService(*cfg, service.IdentityDependencies{
		Accounts:      accountRepo,
		History:       historyRepo,
		NationalCodes: nationalCodes,
		SMS:           smsSender,
		Metrics:       metrics,
		Logger:        logger,
	})
	accountService := service.NewAccountService(service.AccountDependencies{
		Accounts:   accountRepo,
		History:    historyRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	taskService := service.NewTaskService(service.TaskDependencies{
		Tasks:      taskRepo,
		Accounts:   accountRepo,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	documentService := service.NewDocumentService(service.DocumentDependencies{
		Documents:      documentRepo,
		Files:          files,
		Dispatcher:     dispatcher,
		Logger:         logger,
		MaxUploadBytes: cfg.Storage.MaxUploadBytes,
	})
	notificationService := service.NewNotificationService(service.NotificationDependencies{
		Dispatcher: dispatcher,
		Accounts:   accountRepo,
		Mailer:     mailer,
		Metrics:    metrics,
		Logger:     logger,
	})
	worker.StartNotificationWorker(notificationService)

	if err := accountService.EnsureAdmin(ctx, cfg.Auth.AdminEmail, cfg.Auth.AdminPassword, cfg.Auth.AdminName); err != nil {
		logger.Fatal("failed to bootstrap admin", zap.Error(err))
	}

	app := fiber.New(fiber.Config{
		AppName:   cfg.App.Name,
		BodyLimit: int(cfg.Storage.MaxUploadBytes) + 1<<20,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, httptransport.MiddlewareConfig{
		Timeout:     cfg.App.RequestTimeout(),
		CORSOrigins: cfg.App.CORSOrigins,
	})

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health: handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{
			"mongodb":  mongoStore,
			"postgres": pg,
			"redis":    redisStore,
		}),
		Auth:           handlers.NewAuthHandler(registrationService),
		Identity:       handlers.NewIdentityHandler(identityService),
		Profile:        handlers.NewProfileHandler(accountService),
		Admin:          handlers.NewAdminHandler(accountService),
		Tasks:          handlers.NewTasksHandler(taskService),
		Documents:      handlers.NewDocumentsHandler(documentService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, accountRepo),
		Metrics:        metrics,
		FilesDir:       filesDir,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	cancel()
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.Warn("shutdown incomplete", zap.Error(err))
	}
}

func buildNotifiers(cfg config.NotificationConfig, logger *zap.Logger) (notify.Mailer, notify.SMSSender) {
	var mailer notify.Mailer = notify.NewLogMailer(logger)
	if cfg.SendGridAPIKey != "" {
		mailer = notify.NewSendGridMailer(cfg.SendGridAPIKey, cfg.EmailFromName, cfg.EmailFrom, logger)
	} else {
		logger.Warn("SENDGRID_API_KEY not provided; emails are logged only")
	}

	var sms notify.SMSSender = notify.NewLogSMSSender(logger)
	if cfg.TwilioAccountSID != "" && cfg.TwilioAuthToken != "" {
		sms = notify.NewTwilioSender(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioFromNumber)
	} else {
		logger.Warn("twilio credentials not provided; text messages are logged only")
	}
	return mailer, sms
}

// buildStorage returns the document store and, for local storage, the
// directory to serve statically.
func buildStorage(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (storage.FileStorage, string) {
	if cfg.Driver == "s3" {
		s3Store, err := storage.NewS3Storage(ctx, cfg.Region, cfg.Bucket, cfg.PresignTTL)
		if err != nil {
			logger.Fatal("failed to init s3 storage", zap.Error(err))
		}
		return s3Store, ""
	}
	local, err := storage.NewLocalStorage(cfg.LocalDir, "/files")
	if err != nil {
		logger.Fatal("failed to init local storage", zap.Error(err))
	}
	return local, local.Root()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
