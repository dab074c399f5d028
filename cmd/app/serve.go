package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"coaching-subscription/internal/infra/api"
	pg "coaching-subscription/internal/infra/db/postgres"
	"coaching-subscription/internal/infra/metrics"
	red "coaching-subscription/internal/infra/redis"
	"coaching-subscription/internal/infra/sched"
	"coaching-subscription/internal/usecase"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the expiry worker",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		d, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer d.Close()

		metrics.MustRegister()
		metrics.SetBuildInfo(version, commit)

		// ---- Sweeper lease ----
		var locker red.Locker
		if d.cfg.Redis.URL != "" {
			rc, err := red.NewClient(ctx, &d.cfg.Redis)
			if err != nil {
				return fmt.Errorf("redis: %w", err)
			}
			defer rc.Close()
			locker = red.NewLocker(rc)
		} else {
			d.log.Warn().Msg("redis.url not set; sweeper lease is local to this instance")
			locker = red.NewLocalLocker()
		}

		// ---- Use cases ----
		subUC := usecase.NewSubscriptionUseCase(d.ledger, d.tm, d.log)
		cancelUC := usecase.NewCancellationUseCase(d.ledger, d.tm, d.log)
		worker := sched.NewExpiryWorker(d.expirySweeper(), locker, sched.ExpiryWorkerOptions{
			Interval:   d.cfg.Scheduler.ExpiryInterval,
			CronSpec:   d.cfg.Scheduler.ExpiryCheckCron,
			RunTimeout: d.cfg.Scheduler.RunTimeout,
			LockTTL:    d.cfg.Scheduler.LockTTL,
		}, d.log)

		// ---- HTTP ----
		srv := api.NewServer(subUC, cancelUC, api.NewAuthenticator(d.cfg.Auth.JWTSecret), api.ServerOptions{
			Timeout:     d.cfg.Database.TxTimeout * 3,
			CORSOrigins: d.cfg.HTTP.CORSOrigins,
			Dev:         d.cfg.Runtime.Dev,
		}, d.log)
		server := &http.Server{
			Addr:              fmt.Sprintf(":%d", d.cfg.HTTP.Port),
			Handler:           srv.Router(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			d.log.Info().Str("addr", server.Addr).Msg("http listening")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), d.cfg.HTTP.ShutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		})
		g.Go(func() error {
			if err := worker.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			ticker := time.NewTicker(15 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-gctx.Done():
					return nil
				case <-ticker.C:
					pg.ReportPoolStats(d.pool)
				}
			}
		})

		err = g.Wait()
		d.log.Info().Msg("shutdown complete")
		return err
	},
}
