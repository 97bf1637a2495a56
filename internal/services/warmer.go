package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Refresher rebuilds a cache on demand.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Warmer refreshes the event cache on a cron schedule so readers rarely
// pay for a refresh.
type Warmer struct {
	cron    *cron.Cron
	target  Refresher
	logger  *slog.Logger
	timeout time.Duration
}

// NewWarmer schedules target.Refresh on spec (standard 5-field cron syntax)
// in loc. Runs that would overlap a still-running refresh are skipped.
func NewWarmer(target Refresher, spec string, loc *time.Location, timeout time.Duration, logger *slog.Logger) (*Warmer, error) {
	if loc == nil {
		loc = time.UTC
	}
	cl := cronLogger{logger: logger}
	w := &Warmer{
		cron:    cron.New(cron.WithLocation(loc), cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		target:  target,
		logger:  logger,
		timeout: timeout,
	}
	if _, err := w.cron.AddFunc(spec, w.run); err != nil {
		return nil, fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}
	return w, nil
}

// Start runs the schedule in the background.
func (w *Warmer) Start() {
	w.cron.Start()
	w.logger.Info("cache warmer started", "next", w.Next())
}

// Stop halts the schedule and waits for a running refresh, up to ctx.
func (w *Warmer) Stop(ctx context.Context) {
	done := w.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		w.logger.Warn("cache warmer stop timed out")
	}
}

// Next returns the next scheduled run, zero before Start.
func (w *Warmer) Next() time.Time {
	entries := w.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (w *Warmer) run() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	start := time.Now()
	if err := w.target.Refresh(ctx); err != nil {
		w.logger.Error("scheduled refresh failed", "err", err, "duration_ms", time.Since(start).Milliseconds())
		return
	}
	w.logger.Info("scheduled refresh done", "duration_ms", time.Since(start).Milliseconds())
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error("cron: "+msg, append(keysAndValues, "err", err)...)
}
