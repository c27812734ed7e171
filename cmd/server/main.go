package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "ngo-admin-backend/internal/api/http"
	"ngo-admin-backend/internal/config"
	"ngo-admin-backend/internal/logger"
	"ngo-admin-backend/internal/repository/postgres"
	"ngo-admin-backend/internal/security"
	"ngo-admin-backend/internal/service"
	"ngo-admin-backend/internal/storage"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting NGO Admin Backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "base_url", cfg.Server.BaseURL)
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)
	logger.Info("Mail configuration", "provider", cfg.Mail.Provider, "from", cfg.Mail.FromEmail)

	// Initialize Database
	db, err := postgres.Open(cfg.GetDatabaseConnectionString(), cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	// Initialize Storage
	archive, err := storage.New(storage.Config{Type: cfg.Storage.Type, Dir: cfg.Storage.Dir, BaseURL: cfg.Server.BaseURL})
	if err != nil {
		logger.Error("Failed to initialize report storage", "error", err, "type", cfg.Storage.Type)
		log.Fatalf("Failed to initialize report storage: %v", err)
	}
	logger.Info("Report storage ready", "type", cfg.Storage.Type, "dir", cfg.Storage.Dir)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret, time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute)

	// Initialize Services
	mailer := newMailer(cfg)
	notificationSvc := service.NewNotificationService(mailer)
	services := httpapi.Services{
		Dashboard: service.NewDashboardService(
			store.EventRepository,
			store.VolunteerRepository,
			store.ParticipationRepository,
			store.ApplicationRepository,
			nil,
		),
		Reports: service.NewReportService(service.ReportRepos{
			Orgs:           store.OrganizationRepository,
			Events:         store.EventRepository,
			Volunteers:     store.VolunteerRepository,
			Participations: store.ParticipationRepository,
			Applications:   store.ApplicationRepository,
			Submissions:    store.TaskSubmissionRepository,
			Certificates:   store.CertificateRepository,
		}, archive, cfg.Report.TopLocations, nil),
		Review: service.NewReviewService(
			store.ApplicationRepository,
			store.VolunteerRepository,
			store.OrganizationRepository,
			notificationSvc,
			nil,
		),
		Notifications: notificationSvc,
		Organizations: service.NewOrganizationService(store.OrganizationRepository),
		Events:        service.NewEventService(store.EventRepository, nil),
		Preferences:   service.NewPreferencesService(store.PreferencesRepository),
	}

	// Set up HTTP server
	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      httpapi.NewRouter(services, archive, tokenManager, cfg.CORS.AllowedOrigins),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Failed to serve HTTP", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down HTTP server...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("HTTP server stopped. Goodbye!")
}

func newMailer(cfg *config.Config) service.Mailer {
	if cfg.Mail.Provider == config.MailProviderSendGrid {
		return service.NewSendGridMailer(cfg.Mail.SendGrid.APIKey, cfg.Mail.SendGrid.Host, cfg.Mail.FromEmail, cfg.Mail.FromName)
	}
	return service.NewSMTPMailer(cfg.Mail.SMTP.Host, cfg.Mail.SMTP.Port, cfg.Mail.SMTP.User, cfg.Mail.SMTP.Password, cfg.Mail.FromEmail, cfg.Mail.FromName)
}
