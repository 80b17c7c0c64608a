// Package scheduler runs recurring maintenance jobs on cron schedules.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// JobStatus is the outcome of a job's latest run
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// JobFunc is the body of a scheduled job. It must honor ctx.
type JobFunc func(ctx context.Context) error

// JobInfo describes a registered job and its latest run.
type JobInfo struct {
	Name        string     `json:"name"`
	Spec        string     `json:"spec"`
	Status      JobStatus  `json:"status"`
	Error       string     `json:"error,omitempty"`
	LastStarted *time.Time `json:"last_started,omitempty"`
	LastEnded   *time.Time `json:"last_ended,omitempty"`
	NextRun     *time.Time `json:"next_run,omitempty"`
}

// Config holds scheduler settings
type Config struct {
	Location   *time.Location
	JobTimeout time.Duration
}

// DefaultConfig returns UTC with a five minute job timeout
func DefaultConfig() Config {
	return Config{Location: time.UTC, JobTimeout: 5 * time.Minute}
}

// Accepts an optional leading seconds field and the @monthly style descriptors.
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

type job struct {
	info    JobInfo
	fn      JobFunc
	entryID cron.EntryID
}

// Scheduler wraps a cron runner. Each run gets a timeout, recovers panics and
// is skipped while the previous run of the same job is still going.
type Scheduler struct {
	config Config
	cron   *cron.Cron
	logger *zap.Logger

	mu        sync.Mutex
	jobs      map[string]*job
	baseCtx   context.Context
	cancel    context.CancelFunc
	isRunning bool
}

// New creates a stopped scheduler
func New(config Config, logger *zap.Logger) *Scheduler {
	if config.Location == nil {
		config.Location = time.UTC
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = DefaultConfig().JobTimeout
	}
	cronLog := cronLogger{logger.Sugar()}
	return &Scheduler{
		config: config,
		cron: cron.New(
			cron.WithLocation(config.Location),
			cron.WithParser(cronParser),
			cron.WithChain(cron.SkipIfStillRunning(cronLog)),
			cron.WithLogger(cronLog),
		),
		logger:  logger,
		jobs:    make(map[string]*job),
		baseCtx: context.Background(),
	}
}

// Register adds a job under a unique name
func (s *Scheduler) Register(name, spec string, fn JobFunc) error {
	if _, err := cronParser.Parse(spec); err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidSpec, spec, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateJob, name)
	}

	j := &job{info: JobInfo{Name: name, Spec: spec, Status: JobStatusPending}, fn: fn}
	id, err := s.cron.AddFunc(spec, func() { _ = s.run(j) })
	if err != nil {
		return fmt.Errorf("%w %q: %v", ErrInvalidSpec, spec, err)
	}
	j.entryID = id
	s.jobs[name] = j

	s.logger.Info("Scheduled job registered", zap.String("job", name), zap.String("spec", spec))
	return nil
}

// Start starts the cron runner. Jobs stop receiving new runs when ctx ends
// or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.isRunning {
		return nil
	}
	s.baseCtx, s.cancel = context.WithCancel(context.WithoutCancel(ctx))
	s.isRunning = true
	s.cron.Start()

	s.logger.Info("Scheduler started",
		zap.String("location", s.config.Location.String()),
		zap.Int("jobs", len(s.jobs)),
		zap.Duration("job_timeout", s.config.JobTimeout),
	)
	return nil
}

// Stop stops scheduling and waits for running jobs until ctx ends.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	cancel := s.cancel
	s.mu.Unlock()

	done := s.cron.Stop().Done()
	select {
	case <-done:
		s.logger.Info("Scheduler stopped")
		return nil
	case <-ctx.Done():
		// Running jobs see their context canceled.
		cancel()
		return ctx.Err()
	}
}

// Trigger runs a registered job immediately on the caller's goroutine.
func (s *Scheduler) Trigger(name string) error {
	s.mu.Lock()
	j, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrJobNotFound, name)
	}
	return s.run(j)
}

// Jobs returns a snapshot of all registered jobs ordered by name.
func (s *Scheduler) Jobs() []JobInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]JobInfo, 0, len(s.jobs))
	for _, j := range s.jobs {
		info := j.info
		if next := s.cron.Entry(j.entryID).Next; !next.IsZero() {
			info.NextRun = &next
		}
		out = append(out, info)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out
}

func (s *Scheduler) run(j *job) (err error) {
	s.mu.Lock()
	base := s.baseCtx
	started := time.Now()
	j.info.Status = JobStatusRunning
	j.info.LastStarted = &started
	j.info.Error = ""
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(base, s.config.JobTimeout)
	defer cancel()

	logger := s.logger.With(zap.String("job", j.info.Name))
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrJobPanicked, r)
			logger.Error("Scheduled job panicked", zap.Any("panic", r), zap.Stack("stack"))
		}
		s.finish(j, started, err)
		if err != nil {
			logger.Error("Scheduled job failed", zap.Duration("elapsed", time.Since(started)), zap.Error(err))
		} else {
			logger.Info("Scheduled job completed", zap.Duration("elapsed", time.Since(started)))
		}
	}()

	return j.fn(ctx)
}

func (s *Scheduler) finish(j *job, started time.Time, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ended := time.Now()
	j.info.LastEnded = &ended
	if err != nil {
		j.info.Status = JobStatusFailed
		j.info.Error = err.Error()
		return
	}
	j.info.Status = JobStatusSuccess
}

// cronLogger routes the cron runner's own messages to zap.
type cronLogger struct {
	sugar *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw("cron: "+msg, append(keysAndValues, "error", err)...)
}
