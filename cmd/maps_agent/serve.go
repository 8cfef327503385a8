package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/AnshKr2004/google-map-automation/internal/server"
	"github.com/AnshKr2004/google-map-automation/internal/server/ratelimit"
	"github.com/AnshKr2004/google-map-automation/internal/session"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes enrichment, scrape session, listing and settings endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from config, then PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, env, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	c, err := newComponents(ctx, cfg, env)
	if err != nil {
		return err
	}
	defer func() { _ = c.Close() }()

	store, err := openStore(ctx, cfg, env)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	jwtCfg, err := env.JWT()
	if err != nil {
		return err
	}

	sessions := session.NewManager(store, c.enricherFactory(), cfg.Verbose)
	deps := server.Deps{
		Store:    store,
		Sessions: sessions,
		Enricher: c.enricher(cfg.ModelEnabled(), nil),
	}
	if c.inferrer.Enabled() {
		deps.Analyzer = c.inferrer
		sessions.WithAnalyzer(c.inferrer)
	}

	srv, err := server.New(server.Config{
		Port:      cfg.Server.Port,
		RateLimit: ratelimit.FromRate(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst, env.RateLimitWhitelist, env.RateLimitBlacklist),
		JWT:       jwtCfg,
		Verbose:   cfg.Verbose,
	}, deps)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Run(ctx)
}
