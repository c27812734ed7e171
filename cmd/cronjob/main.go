package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"ngo-admin-backend/internal/config"
	"ngo-admin-backend/internal/jobs"
	"ngo-admin-backend/internal/logger"
	"ngo-admin-backend/internal/repository/postgres"
	"ngo-admin-backend/internal/scheduler"
	"ngo-admin-backend/internal/service"
	"ngo-admin-backend/internal/storage"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'sync-event-statuses', 'all')")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting NGO Admin Cronjob Runner...", "log_level", cfg.Log.Level)

	// Initialize Database
	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := postgres.Open(cfg.GetDatabaseConnectionString(), cfg.Database.MaxOpenConns, cfg.Database.MaxIdleConns)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Initialize Repositories
	store := postgres.NewStore(db)

	archive, err := storage.New(storage.Config{Type: cfg.Storage.Type, Dir: cfg.Storage.Dir, BaseURL: cfg.Server.BaseURL})
	if err != nil {
		logger.Error("Failed to initialize report storage", "error", err)
		log.Fatalf("Failed to initialize report storage: %v", err)
	}

	// Initialize Services
	var mailer service.Mailer
	if cfg.Mail.Provider == config.MailProviderSendGrid {
		mailer = service.NewSendGridMailer(cfg.Mail.SendGrid.APIKey, cfg.Mail.SendGrid.Host, cfg.Mail.FromEmail, cfg.Mail.FromName)
	} else {
		mailer = service.NewSMTPMailer(cfg.Mail.SMTP.Host, cfg.Mail.SMTP.Port, cfg.Mail.SMTP.User, cfg.Mail.SMTP.Password, cfg.Mail.FromEmail, cfg.Mail.FromName)
	}

	jobServices := &jobs.Services{
		Events: service.NewEventService(store.EventRepository, nil),
		Reports: service.NewReportService(service.ReportRepos{
			Orgs:           store.OrganizationRepository,
			Events:         store.EventRepository,
			Volunteers:     store.VolunteerRepository,
			Participations: store.ParticipationRepository,
			Applications:   store.ApplicationRepository,
			Submissions:    store.TaskSubmissionRepository,
			Certificates:   store.CertificateRepository,
		}, archive, cfg.Report.TopLocations, nil),
		Orgs:    store.OrganizationRepository,
		Mailer:  mailer,
		Archive: archive,
	}

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(jobServices, cfg, nil)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		logger.Error("Failed to initialize scheduler", "error", err)
		log.Fatalf("Failed to initialize scheduler: %v", err)
	}

	// Start scheduler
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once and exits
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "sync-event-statuses":
		jobRunner.SyncEventStatuses()
	case "archive-monthly-reports":
		jobRunner.ArchiveMonthlyReports()
	case "all":
		jobRunner.RunAll()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - sync-event-statuses\n")
		fmt.Printf("  - archive-monthly-reports\n")
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
}
