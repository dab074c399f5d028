package main

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"coaching-subscription/internal/config"
	ucport "coaching-subscription/internal/domain/ports/usecase"
	pg "coaching-subscription/internal/infra/db/postgres"
	"coaching-subscription/internal/infra/logging"
	"coaching-subscription/internal/usecase"
)

var (
	cfgPath string
	devMode bool
)

var rootCmd = &cobra.Command{
	Use:           "coaching-subscription",
	Short:         "Membership lifecycle and refund service",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "path to YAML config file")
	rootCmd.PersistentFlags().BoolVar(&devMode, "dev", false, "enable developer mode (console logs, unredacted PII)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(tokenCmd)
}

// deps is everything a command needs to run a use case.
type deps struct {
	cfg    *config.Config
	log    *zerolog.Logger
	pool   *pgxpool.Pool
	tm     *pg.TxManager
	ledger usecase.Ledger
}

func loadConfig() (*config.Config, *zerolog.Logger, error) {
	cfg, err := config.LoadConfig(cfgPath, devMode)
	if err != nil {
		return nil, nil, fmt.Errorf("config: %w", err)
	}
	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Warn().Msg("developer mode enabled")
	}
	return cfg, logger, nil
}

func bootstrap(ctx context.Context) (*deps, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, err
	}

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		return nil, fmt.Errorf("postgres: %w", err)
	}

	ledger := usecase.Ledger{
		Users:         pg.NewPostgresUserRepo(pool),
		Plans:         pg.NewPlanRepoCacheDecorator(pg.NewPlanRepo(pool), cfg.Catalog.CacheTTL),
		Payments:      pg.NewPaymentRepo(pool),
		Memberships:   pg.NewMembershipRepo(pool),
		Cancellations: pg.NewCancellationRepo(pool),
		Notifications: pg.NewNotificationRepo(pool),
		QuitPlans:     pg.NewQuitPlanRepo(pool),
	}
	return &deps{
		cfg:    cfg,
		log:    logger,
		pool:   pool,
		tm:     pg.NewTxManager(pool, cfg.Database.TxTimeout),
		ledger: ledger,
	}, nil
}

func (d *deps) expirySweeper() ucport.ExpirySweeper {
	return usecase.NewExpiryUseCase(d.ledger, d.tm, d.log, usecase.ExpiryOptions{
		BatchSize:         d.cfg.Scheduler.BatchSize,
		PendingPaymentTTL: d.cfg.Scheduler.PendingPaymentTTL,
	})
}

func (d *deps) Close() { d.pool.Close() }
