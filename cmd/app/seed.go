package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"coaching-subscription/internal/domain/model"
	"coaching-subscription/internal/domain/ports/repository"
)

var (
	seedAdminID   string
	seedAdminName string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Insert the default plan catalog and an admin account",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		d, err := bootstrap(ctx)
		if err != nil {
			return err
		}
		defer d.Close()

		seed := []struct {
			ID       string
			Name     string
			Days     int
			Price    int64
			Features []string
		}{
			{"plan-30", "Monthly coaching", 30, 200_000, []string{"coach chat", "weekly check-in"}},
			{"plan-90", "Quarterly coaching", 90, 540_000, []string{"coach chat", "weekly check-in", "relapse plan"}},
			{"plan-180", "Half-year coaching", 180, 990_000, []string{"coach chat", "daily check-in", "relapse plan"}},
		}
		for _, s := range seed {
			p, err := model.NewPlan(s.ID, s.Name, s.Price, s.Days, s.Features)
			if err != nil {
				return err
			}
			if err := d.ledger.Plans.Save(ctx, repository.NoTX, p); err != nil {
				return fmt.Errorf("seed plan %s: %w", s.ID, err)
			}
			fmt.Printf("seeded plan %s (days=%d, price=%d)\n", p.ID, p.DurationDays, p.Price)
		}

		if seedAdminID != "" {
			now := time.Now()
			admin := &model.User{ID: seedAdminID, DisplayName: seedAdminName, Role: model.RoleAdmin, CreatedAt: now, UpdatedAt: now}
			if err := d.ledger.Users.Save(ctx, repository.NoTX, admin); err != nil {
				return fmt.Errorf("seed admin: %w", err)
			}
			fmt.Printf("seeded admin %s\n", admin.ID)
		}
		return nil
	},
}

func init() {
	seedCmd.Flags().StringVar(&seedAdminID, "admin-id", "", "create or promote this user id to admin")
	seedCmd.Flags().StringVar(&seedAdminName, "admin-name", "Admin", "display name for the seeded admin")
}
