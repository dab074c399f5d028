package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"coaching-subscription/internal/infra/api"
)

var tokenTTL time.Duration

var tokenCmd = &cobra.Command{
	Use:   "token <user-id>",
	Short: "Mint a bearer token for a user (development only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		if !cfg.Runtime.Dev {
			return fmt.Errorf("token minting requires --dev")
		}
		tok, err := api.NewAuthenticator(cfg.Auth.JWTSecret).Mint(args[0], tokenTTL)
		if err != nil {
			return err
		}
		fmt.Println(tok)
		return nil
	},
}

func init() {
	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")
}
