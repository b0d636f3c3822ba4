package background

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"bizportal/internal/common"
	"bizportal/internal/repositories"
	"bizportal/internal/services"
)

const backupConcurrency = 5

// JobScheduler runs the periodic business record exports
type JobScheduler struct {
	scheduler     gocron.Scheduler
	backupSvc     services.BackupService
	businessRepo  repositories.BusinessRepository
	logger        *zap.Logger
	backupTimeout time.Duration
}

// NewJobScheduler creates a scheduler with the backup job registered at interval
func NewJobScheduler(backupSvc services.BackupService, businessRepo repositories.BusinessRepository,
	interval time.Duration, logger *zap.Logger) (*JobScheduler, error) {
	if interval <= 0 {
		return nil, errors.New("backup interval must be positive")
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler:     scheduler,
		backupSvc:     backupSvc,
		businessRepo:  businessRepo,
		logger:        logger,
		backupTimeout: interval,
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(js.runBackups),
		gocron.WithName("business-backup"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return nil, fmt.Errorf("create backup job: %w", err)
	}

	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	js.logger.Info("Starting background job scheduler", zap.Int("jobs", len(js.scheduler.Jobs())))
	js.scheduler.Start()
}

// Stop stops the job scheduler and waits for running jobs
func (js *JobScheduler) Stop() error {
	js.logger.Info("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) runBackups() {
	ctx, cancel := context.WithTimeout(context.Background(), js.backupTimeout)
	defer cancel()

	exported, err := js.BackupAll(ctx)
	if err != nil {
		js.logger.Error("business backup run failed", zap.Error(err))
		return
	}
	js.logger.Info("business backup run finished", zap.Int("exported", exported))
}

// BackupAll exports every namespace holding a record, at most five at a time.
// It returns the number of successful exports.
func (js *JobScheduler) BackupAll(ctx context.Context) (int, error) {
	namespaces, err := js.businessRepo.ListNamespaces(ctx)
	if err != nil {
		return 0, fmt.Errorf("list namespaces: %w", err)
	}

	semaphore := make(chan struct{}, backupConcurrency)
	var wg sync.WaitGroup
	var exported atomic.Int64

	for _, namespace := range namespaces {
		wg.Add(1)
		go func(namespace string) {
			defer wg.Done()
			semaphore <- struct{}{}        // Acquire
			defer func() { <-semaphore }() // Release

			_, err := js.backupSvc.ExportNamespace(ctx, namespace, services.BackupTriggerScheduled)
			switch {
			case err == nil:
				exported.Add(1)
			case errors.Is(err, common.ErrNotFound):
				// removed between listing and export
			default:
				js.logger.Warn("failed to export namespace", zap.String("namespace", namespace), zap.Error(err))
			}
		}(namespace)
	}

	wg.Wait()
	return int(exported.Load()), nil
}
