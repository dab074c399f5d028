package main

import (
	"context"

	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run one expiry sweep and exit",
	RunE: func(cmd *cobra.Command, _ []string) error {
		d, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		defer d.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), d.cfg.Scheduler.RunTimeout)
		defer cancel()
		n, err := d.expirySweeper().Run(ctx)
		if err != nil {
			return err
		}
		d.log.Info().Int("processed", n).Msg("sweep finished")
		return nil
	},
}
