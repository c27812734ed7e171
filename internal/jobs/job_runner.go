package jobs

import (
	"time"

	"ngo-admin-backend/internal/config"
	"ngo-admin-backend/internal/logger"
	"ngo-admin-backend/internal/repository"
	"ngo-admin-backend/internal/service"
	"ngo-admin-backend/internal/storage"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	services *Services
	config   *config.Config
	now      service.Clock
}

// Services holds all dependencies needed by jobs
type Services struct {
	Events  service.EventService
	Reports service.ReportService
	Orgs    repository.OrganizationRepository
	Mailer  service.Mailer
	Archive storage.StorageInterface
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(services *Services, cfg *config.Config, now service.Clock) *JobRunner {
	if now == nil {
		now = time.Now
	}
	return &JobRunner{
		services: services,
		config:   cfg,
		now:      now,
	}
}

// Config returns the configuration the runner was built with
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	log := logger.WithJob(jobName)
	defer func() {
		if r := recover(); r != nil {
			log.Error("Job panicked", "panic", r)
		}
	}()

	log.Info("Starting job")
	jobFunc()
	log.Info("Job completed")
}

// RunAll runs every job once (for manual execution)
func (jr *JobRunner) RunAll() {
	jr.SyncEventStatuses()
	jr.ArchiveMonthlyReports()
}
