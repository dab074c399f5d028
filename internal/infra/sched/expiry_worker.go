package sched

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	ucport "coaching-subscription/internal/domain/ports/usecase"
	"coaching-subscription/internal/infra/metrics"
	"coaching-subscription/internal/infra/redis"
)

// LockKey serializes sweeps across every running instance.
const LockKey = "sweeper:expiry"

type ExpiryWorkerOptions struct {
	Interval time.Duration
	// CronSpec replaces Interval when set, e.g. "*/15 * * * *".
	CronSpec   string
	RunTimeout time.Duration
	LockTTL    time.Duration
}

// ExpiryWorker periodically runs the expiry sweep. Only the instance holding
// the lease sweeps; the others skip that tick.
type ExpiryWorker struct {
	sweeper ucport.ExpirySweeper
	locker  redis.Locker
	opts    ExpiryWorkerOptions
	log     *zerolog.Logger
}

func NewExpiryWorker(sweeper ucport.ExpirySweeper, locker redis.Locker, opts ExpiryWorkerOptions, logger *zerolog.Logger) *ExpiryWorker {
	exprLog := logger.With().Str("component", "ExpiryWorker").Logger()
	if opts.Interval <= 0 {
		opts.Interval = time.Hour
	}
	if opts.RunTimeout <= 0 {
		opts.RunTimeout = 5 * time.Minute
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = opts.RunTimeout
	}
	return &ExpiryWorker{
		sweeper: sweeper,
		locker:  locker,
		opts:    opts,
		log:     &exprLog,
	}
}

// Run blocks until ctx is cancelled.
func (w *ExpiryWorker) Run(ctx context.Context) error {
	if w.opts.CronSpec != "" {
		return w.runCron(ctx)
	}

	w.log.Info().Dur("interval", w.opts.Interval).Msg("Starting expiry worker")
	ticker := time.NewTicker(w.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping expiry worker")
			return ctx.Err()
		case <-ticker.C:
			_, _ = w.RunOnce(ctx)
		}
	}
}

func (w *ExpiryWorker) runCron(ctx context.Context) error {
	cronLogger := cron.PrintfLogger(w.log)
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cronLogger), cron.Recover(cronLogger)))
	if _, err := c.AddFunc(w.opts.CronSpec, func() { _, _ = w.RunOnce(ctx) }); err != nil {
		return err
	}
	w.log.Info().Str("schedule", w.opts.CronSpec).Msg("Starting expiry worker")
	c.Start()

	<-ctx.Done()
	<-c.Stop().Done()
	w.log.Info().Msg("Stopping expiry worker")
	return ctx.Err()
}

// RunOnce performs a single sweep under the lease. A held lease is a skip,
// not an error.
func (w *ExpiryWorker) RunOnce(ctx context.Context) (int, error) {
	token, err := w.locker.TryLock(ctx, LockKey, w.opts.LockTTL)
	if errors.Is(err, redis.ErrLockHeld) {
		metrics.IncSweepRun("skipped")
		w.log.Debug().Msg("expiry sweep skipped, lease held elsewhere")
		return 0, nil
	}
	if err != nil {
		metrics.IncSweepRun("error")
		w.log.Error().Err(err).Msg("failed to acquire sweeper lease")
		return 0, err
	}
	defer func() {
		// Released on a fresh context so a cancelled run still frees the lease.
		unlockCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := w.locker.Unlock(unlockCtx, LockKey, token); err != nil {
			w.log.Warn().Err(err).Msg("failed to release sweeper lease")
		}
	}()

	runCtx, cancel := context.WithTimeout(ctx, w.opts.RunTimeout)
	defer cancel()

	n, err := w.sweeper.Run(runCtx)
	if err != nil {
		metrics.IncSweepRun("error")
		w.log.Error().Err(err).Int("processed", n).Msg("expiry worker error")
		return n, err
	}
	metrics.IncSweepRun("ok")
	if n > 0 {
		w.log.Info().Int("count", n).Msg("memberships expired")
	}
	return n, nil
}
