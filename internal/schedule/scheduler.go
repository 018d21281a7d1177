// Package schedule drives the pipeline on a fixed cadence and records
// every outcome in the rolling run history.
package schedule

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/alpine-leisure/spawatch/internal/history"
	"github.com/alpine-leisure/spawatch/internal/model"
	"github.com/alpine-leisure/spawatch/internal/pipeline"
	"github.com/alpine-leisure/spawatch/internal/store"
)

const (
	defaultInterval   = 2 * time.Hour
	defaultRunTimeout = 15 * time.Minute
	defaultMinSpacing = 30 * time.Minute
	defaultStaleAfter = 5 * time.Hour
)

// ErrTooSoon is returned when a run is requested before the minimum
// inter-run spacing has elapsed.
var ErrTooSoon = errors.New("schedule: minimum run spacing not elapsed")

// Runner executes one pipeline cycle. *pipeline.Pipeline satisfies it.
type Runner interface {
	Run(ctx context.Context) (*pipeline.Summary, error)
}

// Options tunes the cadence. Zero values take the defaults.
type Options struct {
	// Interval between scheduled runs.
	Interval time.Duration
	// RunTimeout caps one run's wall-clock time; an exceeded run is
	// recorded with a timeout status.
	RunTimeout time.Duration
	// MinSpacing rejects runs triggered too close together.
	MinSpacing time.Duration
	// StaleAfter is the age past which the last run counts as stale.
	StaleAfter time.Duration
	// Now overrides the clock in tests.
	Now func() time.Time
}

func (o *Options) withDefaults() {
	if o.Interval <= 0 {
		o.Interval = defaultInterval
	}
	if o.RunTimeout <= 0 {
		o.RunTimeout = defaultRunTimeout
	}
	if o.MinSpacing <= 0 {
		o.MinSpacing = defaultMinSpacing
	}
	if o.StaleAfter <= 0 {
		o.StaleAfter = defaultStaleAfter
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}

// Scheduler repeatedly invokes the pipeline and persists each outcome.
type Scheduler struct {
	runner  Runner
	history *history.File
	archive store.Store // optional
	opts    Options
	lastRun time.Time
}

// New builds a scheduler. archive may be nil.
func New(runner Runner, hist *history.File, archive store.Store, opts Options) *Scheduler {
	opts.withDefaults()
	return &Scheduler{
		runner:  runner,
		history: hist,
		archive: archive,
		opts:    opts,
	}
}

// RunOnce executes a single pipeline cycle under the run timeout and
// records the outcome. A run inside the minimum spacing window returns
// ErrTooSoon without touching the pipeline.
func (s *Scheduler) RunOnce(ctx context.Context) (*model.RunRecord, error) {
	now := s.opts.Now()
	if !s.lastRun.IsZero() && now.Sub(s.lastRun) < s.opts.MinSpacing {
		return nil, ErrTooSoon
	}
	s.lastRun = now

	runCtx, cancel := context.WithTimeout(ctx, s.opts.RunTimeout)
	defer cancel()

	summary, err := s.runner.Run(runCtx)
	rec := s.outcome(now, summary, err)

	if histErr := s.history.Record(rec); histErr != nil {
		zap.L().Error("schedule: record history", zap.Error(histErr))
	}
	if s.archive != nil {
		if dbErr := s.archive.RecordRun(ctx, rec); dbErr != nil {
			zap.L().Error("schedule: archive run", zap.Error(dbErr))
		}
	}

	zap.L().Info("schedule: run recorded",
		zap.String("run_id", rec.ID),
		zap.String("status", string(rec.Status)),
		zap.Int("slots", rec.Slots),
		zap.Int("records", rec.Records),
	)
	return &rec, nil
}

// outcome maps a run result onto a history record. A failed run still
// keeps whatever counters the pipeline accumulated before dying.
func (s *Scheduler) outcome(now time.Time, summary *pipeline.Summary, err error) model.RunRecord {
	rec := model.RunRecord{Timestamp: now}
	if summary != nil {
		rec.ID = summary.RunID
		rec.Records = summary.RecordsAppended
		rec.Slots = summary.SlotsFound
	}

	switch {
	case err == nil:
		rec.Status = summary.Status()
	case errors.Is(err, context.DeadlineExceeded):
		rec.Status = model.RunStatusTimeout
		rec.Error = err.Error()
	default:
		rec.Status = model.RunStatusFailed
		rec.Error = err.Error()
	}
	return rec
}

// Run loops until the context is cancelled: an immediate first run,
// then one run per interval tick.
func (s *Scheduler) Run(ctx context.Context) error {
	s.warnIfStale()

	if _, err := s.RunOnce(ctx); err != nil && !errors.Is(err, ErrTooSoon) {
		return eris.Wrap(err, "schedule: initial run")
	}

	ticker := time.NewTicker(s.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			zap.L().Info("schedule: stopping")
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				if errors.Is(err, ErrTooSoon) {
					zap.L().Debug("schedule: tick skipped, too soon")
					continue
				}
				return eris.Wrap(err, "schedule: run")
			}
		}
	}
}

// warnIfStale flags a history gap at startup.
func (s *Scheduler) warnIfStale() {
	stale, err := s.history.Stale(s.opts.Now(), s.opts.StaleAfter)
	if err != nil {
		zap.L().Warn("schedule: staleness check failed", zap.Error(err))
		return
	}
	if stale {
		zap.L().Warn("schedule: last run is stale or missing",
			zap.Duration("threshold", s.opts.StaleAfter),
		)
	}
}
