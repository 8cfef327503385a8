package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/AnshKr2004/google-map-automation/internal/server"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Issue an API bearer token signed with JWT_SECRET",
	RunE:  runToken,
}

var tokenClient string

func init() {
	tokenCmd.Flags().StringVar(&tokenClient, "client", "extension", "Client name recorded in the token")
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, _ []string) error {
	_, env, err := loadConfig()
	if err != nil {
		return err
	}

	jwtCfg, err := env.JWT()
	if err != nil {
		return err
	}
	if jwtCfg == nil {
		return fmt.Errorf("JWT_SECRET environment variable is required")
	}

	token, err := server.NewJWTService(jwtCfg).GenerateToken(tokenClient)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), token) //nolint:errcheck
	return nil
}
