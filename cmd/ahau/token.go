package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ldflores83/falconcore/internal/config"
)

var (
	tokenUID   string
	tokenEmail string
	tokenName  string

	tokenCmd = &cobra.Command{
		Use:   "token",
		Short: "Mint a development ID token for the jwt auth provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			if cfg.Auth.Provider != config.AuthJWT {
				return fmt.Errorf("token: AUTH_PROVIDER must be %q, got %q", config.AuthJWT, cfg.Auth.Provider)
			}

			token, err := jwtVerifier(cfg).Issue(tokenUID, tokenEmail, tokenName)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
)

func init() {
	tokenCmd.Flags().StringVar(&tokenUID, "uid", "", "subject uid")
	tokenCmd.Flags().StringVar(&tokenEmail, "email", "", "email claim")
	tokenCmd.Flags().StringVar(&tokenName, "name", "", "display name claim")
	_ = tokenCmd.MarkFlagRequired("uid")
}
