package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"hrms/chat"
	"hrms/config"
	controller "hrms/controllers"
	"hrms/directory"
	"hrms/events"
	"hrms/middleware"
	"hrms/notify"
	"hrms/routes"
	"hrms/seed"
	"hrms/services"
	"hrms/store"
	"hrms/utils"
	"hrms/worker"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

func main() {
	seedFile := flag.String("seed", "", "import people from a JSON seed file and exit")
	flag.Parse()

	if err := config.LoadConfig(); err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	cfg := config.AppConfig

	utils.InitLogger(cfg.LogLevel, cfg.LogFormat)
	if err := utils.InitSentry(cfg.SentryDSN, cfg.Environment); err != nil {
		logrus.WithError(err).Warn("Sentry disabled")
	}
	defer sentry.Flush(2 * time.Second)

	logger := logrus.StandardLogger()

	st, err := openStore(cfg)
	if err != nil {
		logger.Fatalf("Failed to open store: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	hasher := utils.NewPasswordHasher(cfg.BcryptCost)

	if *seedFile != "" {
		res, err := seed.NewImporter(st, hasher, logger).ImportPeople(ctx, *seedFile)
		if err != nil {
			logger.Fatalf("Seed import failed: %v", err)
		}
		logger.WithFields(logrus.Fields{"created": res.Created, "skipped": res.Skipped}).Info("Seed import finished")
		return
	}

	if created, err := seed.EnsureAdmin(ctx, st, hasher, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.WithError(err).Error("Failed to create default admin")
	} else if created {
		utils.LogEvent("default_admin_created", map[string]interface{}{"email": cfg.AdminEmail})
	}

	hub := events.NewHub(0)
	outbox, err := notify.NewOutbox(st, st, cfg.AppName, logger)
	if err != nil {
		logger.Fatalf("Failed to load email templates: %v", err)
	}

	deps := services.Dependencies{
		Store:    st,
		Tokens:   utils.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL),
		Hasher:   hasher,
		Notifier: outbox,
		Events:   hub,
		Logger:   logger,
	}
	authService := services.NewAuthService(deps)
	userService := services.NewUserService(deps)
	teamService := services.NewTeamService(deps)

	dir, err := openDirectory(cfg, st)
	if err != nil {
		logger.Fatalf("Failed to load people directory: %v", err)
	}
	chatService := chat.NewService(chat.NewAgent(dir), cfg.AIServiceURL, chat.DefaultTimeout, logger)

	// Start the notification worker
	notificationWorker := worker.NewNotificationWorker(st, newMailer(cfg, logger), logger, cfg.NotificationInterval)
	go notificationWorker.Start(ctx)

	rateLimitStorage := middleware.NewRateLimitStorage(cfg.Redis)
	if rateLimitStorage != nil {
		defer rateLimitStorage.Close()
	}

	app := routes.NewApp(cfg.AppName)
	routes.SetupRoutes(app, routes.Controllers{
		Auth: controller.NewAuthController(authService, userService,
			cfg.Google.ClientID, cfg.Google.ClientSecret, cfg.Google.RedirectURI, logger),
		Users:       controller.NewUserController(userService),
		Teams:       controller.NewTeamController(teamService),
		TeamEvents:  controller.NewTeamEventsController(teamService, hub, logger),
		Leaves:      controller.NewLeaveController(services.NewLeaveService(deps)),
		Performance: controller.NewPerformanceController(services.NewPerformanceService(deps)),
		AI:          controller.NewAIController(dir),
		Chat:        controller.NewChatController(chatService),
	}, authService, routes.Options{
		CORSOrigins:      []string{cfg.ClientURL},
		RateLimitStorage: rateLimitStorage,
		LoginPerMinute:   cfg.RateLimitLogin,
		ChatPerMinute:    cfg.RateLimitChat,
		AccessLog:        true,
	})

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			logger.WithError(err).Error("Server shutdown failed")
		}
	}()

	logger.Infof("Server starting on port %s", cfg.ServerPort)
	if err := app.Listen(":" + cfg.ServerPort); err != nil {
		logger.Fatalf("Failed to start server: %v", err)
	}
}

func openStore(cfg config.Config) (store.Store, error) {
	if cfg.UseMemoryStore() {
		logrus.Warn("Using in-memory store, data is lost on restart")
		return store.NewMemoryStore(), nil
	}
	if err := config.ConnectDB(); err != nil {
		return nil, err
	}
	return store.NewGormStore(config.DB), nil
}

// openDirectory picks the people directory once at startup
func openDirectory(cfg config.Config, st store.Store) (directory.Directory, error) {
	if cfg.AIDemo {
		logrus.WithField("seed", cfg.AIDemoSeed).Info("Serving demo people directory")
		return directory.LoadDemoDirectory(cfg.AIDemoSeed)
	}
	return directory.NewStoreDirectory(st, st), nil
}

func newMailer(cfg config.Config, logger logrus.FieldLogger) notify.Mailer {
	if !cfg.SMTP.Enabled() {
		logger.Warn("SMTP not configured, notifications are logged instead of sent")
		return notify.LogMailer{Logger: logger}
	}
	return notify.NewSMTPMailer(notify.SMTPConfig{
		Host:      cfg.SMTP.Host,
		Port:      cfg.SMTP.Port,
		Username:  cfg.SMTP.Username,
		Password:  cfg.SMTP.Password,
		FromEmail: cfg.SMTP.From,
		FromName:  cfg.SMTP.FromName,
	})
}
