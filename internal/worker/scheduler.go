package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/twomatetechnologies/moneyflow-prices/internal/domain"
	"github.com/twomatetechnologies/moneyflow-prices/internal/ports"
)

const (
	// ReasonInProgress is reported when a trigger finds an update running
	ReasonInProgress = "Update already in progress"

	// TriggerManual labels force-update runs
	TriggerManual = "manual"

	defaultRunTimeout = 15 * time.Minute
)

// ProviderStates exposes provider health for status snapshots
type ProviderStates interface {
	Snapshot() []domain.ProviderState
}

// Scheduler runs the price update on cron triggers and on demand. At most
// one update runs at a time; overlapping triggers are dropped, not queued.
type Scheduler struct {
	updater    ports.PriceUpdater
	monitor    ports.UpdateMonitor
	providers  ProviderStates
	calendar   TradingCalendar
	schedule   Schedule
	runTimeout time.Duration
	now        func() time.Time
	logger     *slog.Logger

	updating atomic.Bool

	mu            sync.Mutex
	running       bool
	cron          *cron.Cron
	entries       map[string]cron.EntryID
	stats         domain.SchedulerStats
	totalDuration time.Duration
}

// SchedulerOption configures the scheduler
type SchedulerOption func(*Scheduler)

// WithSchedule replaces the default trigger table
func WithSchedule(s Schedule) SchedulerOption {
	return func(sc *Scheduler) {
		sc.schedule = s
	}
}

// WithCalendar skips holiday regions on calendar-aware jobs
func WithCalendar(c TradingCalendar) SchedulerOption {
	return func(sc *Scheduler) {
		sc.calendar = c
	}
}

// WithRunTimeout bounds every update run
func WithRunTimeout(d time.Duration) SchedulerOption {
	return func(sc *Scheduler) {
		if d > 0 {
			sc.runTimeout = d
		}
	}
}

// WithSchedulerClock replaces the time source, for tests
func WithSchedulerClock(now func() time.Time) SchedulerOption {
	return func(sc *Scheduler) {
		sc.now = now
	}
}

// NewScheduler creates a stopped scheduler. monitor and providers may be nil.
func NewScheduler(
	updater ports.PriceUpdater,
	monitor ports.UpdateMonitor,
	providers ProviderStates,
	logger *slog.Logger,
	opts ...SchedulerOption,
) *Scheduler {
	s := &Scheduler{
		updater:    updater,
		monitor:    monitor,
		providers:  providers,
		schedule:   DefaultSchedule(),
		runTimeout: defaultRunTimeout,
		now:        time.Now,
		logger:     logger.With("component", "scheduler"),
		entries:    make(map[string]cron.EntryID),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start registers every job and begins firing triggers
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	cronLogger := cron.PrintfLogger(slog.NewLogLogger(s.logger.Handler(), slog.LevelDebug))
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger)),
	)

	entries := make(map[string]cron.EntryID, len(s.schedule.Jobs))
	for _, job := range s.schedule.Jobs {
		id, err := c.AddFunc(job.Spec, func() { s.runJob(job) })
		if err != nil {
			return fmt.Errorf("failed to register job %q: %w", job.Name, err)
		}
		entries[job.Name] = id
	}

	c.Start()
	s.cron = c
	s.entries = entries
	s.running = true

	s.logger.Info("scheduler started", "jobs", len(entries))
	return nil
}

// Stop cancels all triggers and waits for a running job to finish or ctx
// to expire
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	done := s.cron.Stop()
	s.running = false
	s.mu.Unlock()

	s.logger.Info("stopping scheduler")

	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// IsRunning returns whether triggers are registered
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// ForceUpdate runs an update immediately. It returns ErrUpdateInProgress
// alongside a failed result when another update is running. The run is
// detached from ctx cancellation and bounded by the run timeout.
func (s *Scheduler) ForceUpdate(ctx context.Context) (*domain.UpdateResult, error) {
	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.runTimeout)
	defer cancel()

	return s.run(runCtx, TriggerManual, nil)
}

// runJob is the cron callback for one job
func (s *Scheduler) runJob(job Job) {
	regions := job.Regions
	if job.RespectCalendar && s.calendar != nil {
		regions = s.tradingRegions(regions)
		if len(regions) == 0 {
			s.logger.Info("skipping job, markets closed", "job", job.Name)
			s.mu.Lock()
			s.stats.SkippedRuns++
			s.mu.Unlock()
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
	defer cancel()

	if _, err := s.run(ctx, "scheduled:"+job.Name, regions); err != nil {
		s.logger.Info("skipping job, update in progress", "job", job.Name)
		s.mu.Lock()
		s.stats.SkippedRuns++
		s.mu.Unlock()
	}
}

// tradingRegions filters candidates, or every region when empty, down to
// those whose exchange trades today
func (s *Scheduler) tradingRegions(candidates []domain.Region) []domain.Region {
	if len(candidates) == 0 {
		candidates = domain.Regions
	}

	now := s.now()
	out := make([]domain.Region, 0, len(candidates))
	for _, r := range candidates {
		if s.calendar.IsTradingDay(r, now) {
			out = append(out, r)
		} else {
			s.logger.Debug("exchange holiday", "region", r, "date", now.UTC().Format(time.DateOnly))
		}
	}
	return out
}

func (s *Scheduler) run(ctx context.Context, trigger string, regions []domain.Region) (result *domain.UpdateResult, err error) {
	if !s.updating.CompareAndSwap(false, true) {
		return &domain.UpdateResult{
			Success:   false,
			Reason:    ReasonInProgress,
			Trigger:   trigger,
			Errors:    []string{},
			StartedAt: s.now().UTC(),
		}, domain.ErrUpdateInProgress
	}
	defer s.updating.Store(false)

	started := s.now()
	s.logger.Info("starting price update", "trigger", trigger, "regions", regions)

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("price update panicked", "trigger", trigger, "panic", r)
			result = &domain.UpdateResult{Trigger: trigger, StartedAt: started.UTC()}
			result.Finish(s.now(), fmt.Errorf("%w: %v", domain.ErrInternal, r))
			s.record(result)
			err = nil
		}
	}()

	result = s.updater.UpdateAll(ctx, regions)
	if result == nil {
		result = &domain.UpdateResult{StartedAt: started.UTC()}
		result.Finish(s.now(), domain.ErrInternal)
	}
	result.Trigger = trigger

	s.record(result)
	return result, nil
}

// record books a finished run into stats and the monitor
func (s *Scheduler) record(result *domain.UpdateResult) {
	s.mu.Lock()
	st := &s.stats
	now := s.now()

	st.TotalRuns++
	st.LastRun = &now
	if result.Success {
		st.SuccessfulRuns++
		st.ConsecutiveFailures = 0
		st.LastSuccess = &now
	} else {
		st.FailedRuns++
		st.ConsecutiveFailures++
	}
	s.totalDuration += result.Duration
	st.AverageDurationMs = float64(s.totalDuration.Milliseconds()) / float64(st.TotalRuns)

	last := *result
	st.LastResult = &last
	s.mu.Unlock()

	s.logger.Info("price update finished",
		"trigger", result.Trigger,
		"success", result.Success,
		"updated", result.UpdatedCount,
		"failed", result.FailedCount,
		"duration_ms", result.DurationMs,
	)

	if s.monitor != nil {
		s.monitor.RecordUpdate(result)
	}
}

// Status returns a snapshot of state, stats, jobs and provider health
func (s *Scheduler) Status() domain.SchedulerStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs := make([]domain.JobStatus, 0, len(s.schedule.Jobs))
	for _, job := range s.schedule.Jobs {
		js := domain.JobStatus{
			Name:            job.Name,
			Spec:            job.Spec,
			RespectCalendar: job.RespectCalendar,
		}
		if s.running {
			if id, ok := s.entries[job.Name]; ok {
				if next := s.cron.Entry(id).Next; !next.IsZero() {
					js.NextRun = &next
				}
			}
		}
		jobs = append(jobs, js)
	}

	var providers []domain.ProviderState
	if s.providers != nil {
		providers = s.providers.Snapshot()
	}

	stats := s.stats
	return domain.SchedulerStatus{
		Running:   s.running,
		Updating:  s.updating.Load(),
		Stats:     stats,
		Jobs:      jobs,
		Providers: providers,
	}
}

// Ensure Scheduler implements ports.UpdateScheduler
var _ ports.UpdateScheduler = (*Scheduler)(nil)
