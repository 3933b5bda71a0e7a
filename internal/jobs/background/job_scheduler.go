package background

import (
	"context"
	"sync"
	"time"

	"fairway/internal/config"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// TenantLister lists the tenants a sweep visits.
type TenantLister interface {
	ActiveTenantIDs(ctx context.Context) ([]uuid.UUID, error)
}

// BookingCompleter marks confirmed bookings on past dates as completed.
type BookingCompleter interface {
	CompletePast(ctx context.Context, tenantID uuid.UUID, cutoff time.Time) (int64, error)
}

// JobScheduler runs the periodic booking maintenance jobs
type JobScheduler struct {
	scheduler gocron.Scheduler
	tenants   TenantLister
	bookings  BookingCompleter
	cfg       config.SchedulerConfig
	now       func() time.Time
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

// NewJobScheduler creates a new job scheduler with its jobs registered.
func NewJobScheduler(tenants TenantLister, bookings BookingCompleter, cfg config.SchedulerConfig) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler: scheduler,
		tenants:   tenants,
		bookings:  bookings,
		cfg:       cfg,
		now:       time.Now,
		jobs:      make(map[string]gocron.Job),
	}
	if err := js.registerJobs(); err != nil {
		return nil, err
	}
	return js, nil
}

// Start starts the job scheduler
func (js *JobScheduler) Start() {
	log.Info().Int("jobs", len(js.jobs)).Msg("starting background job scheduler")
	js.scheduler.Start()
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Info().Msg("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() error {
	job, err := js.scheduler.NewJob(
		gocron.DurationJob(js.cfg.CompletionSweepInterval()),
		gocron.NewTask(js.CompletePastBookings, context.Background()),
		gocron.WithName("booking-completion-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	js.mu.Lock()
	js.jobs["booking-completion"] = job
	js.mu.Unlock()
	return nil
}

// CompletePastBookings moves every tenant's confirmed bookings dated before
// today to completed. Seat counts are not touched.
func (js *JobScheduler) CompletePastBookings(ctx context.Context) (int64, error) {
	tenantIDs, err := js.tenants.ActiveTenantIDs(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to list tenants for completion sweep")
		return 0, err
	}

	limit := js.cfg.MaxConcurrentTenants
	if limit <= 0 {
		limit = 1
	}
	semaphore := make(chan struct{}, limit)
	cutoff := js.now()

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total int64
	)
	for _, tenantID := range tenantIDs {
		wg.Add(1)
		go func(tenantID uuid.UUID) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			n, err := js.bookings.CompletePast(ctx, tenantID, cutoff)
			if err != nil {
				log.Error().Err(err).Str("tenant_id", tenantID.String()).Msg("completion sweep failed")
				return
			}
			mu.Lock()
			total += n
			mu.Unlock()
		}(tenantID)
	}
	wg.Wait()

	log.Info().Int("tenants", len(tenantIDs)).Int64("completed", total).Msg("booking completion sweep finished")
	return total, nil
}

// GetJobStatus returns the names of the scheduled jobs and their next run.
func (js *JobScheduler) GetJobStatus() map[string]interface{} {
	js.mu.RLock()
	defer js.mu.RUnlock()

	status := make(map[string]interface{}, len(js.jobs))
	for name, job := range js.jobs {
		next, err := job.NextRun()
		if err != nil {
			status[name] = "unscheduled"
			continue
		}
		status[name] = next.UTC().Format(time.RFC3339)
	}
	return status
}
