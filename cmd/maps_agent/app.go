package main

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/samber/lo"

	"github.com/AnshKr2004/google-map-automation/internal/config"
	"github.com/AnshKr2004/google-map-automation/internal/db"
	"github.com/AnshKr2004/google-map-automation/internal/extraction"
	"github.com/AnshKr2004/google-map-automation/internal/fetch"
	"github.com/AnshKr2004/google-map-automation/internal/inference"
	"github.com/AnshKr2004/google-map-automation/internal/llm"
	"github.com/AnshKr2004/google-map-automation/internal/pipeline"
	"github.com/AnshKr2004/google-map-automation/internal/ranking"
	"github.com/AnshKr2004/google-map-automation/internal/session"
	"github.com/AnshKr2004/google-map-automation/internal/storage"
)

// defaultConfig fills whatever the config file and environment leave unset.
func defaultConfig() config.Config {
	return config.Config{
		DirectFetch:  lo.ToPtr(true),
		FetchTimeout: fetch.DefaultTimeout.String(),
		Relays:       fetch.DefaultRelays(),
		Model:        config.ModelConfig{Enabled: lo.ToPtr(true)},
	}
}

// loadConfig reads the optional config file and the environment. Environment values win for
// model selection; the --verbose flag turns verbose output on.
func loadConfig() (*config.Config, *config.Env, error) {
	env, err := config.LoadEnv()
	if err != nil {
		return nil, nil, err
	}

	cfg := &config.Config{}
	if configPath != "" {
		if cfg, err = config.LoadConfig(configPath); err != nil {
			return nil, nil, err
		}
	}

	merged := env.Apply(cfg.MergeWithDefaults(defaultConfig()))
	if verbose {
		merged.Verbose = true
	}
	if err := merged.Validate(); err != nil {
		return nil, nil, err
	}
	return &merged, env, nil
}

// components are the enrichment building blocks shared by the commands.
type components struct {
	cfg       *config.Config
	extractor *extraction.Extractor
	chain     *fetch.Chain
	fetchOpts *fetch.Options
	client    llm.Client
	inferrer  *inference.Inferrer
}

func newComponents(ctx context.Context, cfg *config.Config, env *config.Env) (*components, error) {
	denylist, err := extraction.NewDenylist(cfg.Denylist)
	if err != nil {
		return nil, fmt.Errorf("failed to build denylist: %w", err)
	}
	extractor, err := extraction.NewExtractor(denylist, ranking.NewRanker(cfg.BusinessKeywords))
	if err != nil {
		return nil, err
	}

	fetchOpts := fetch.DefaultOptions()
	fetchOpts.Timeout = cfg.Timeout()

	c := &components{
		cfg:       cfg,
		extractor: extractor,
		chain:     fetch.NewChain(cfg.Relays, fetchOpts, cfg.Verbose),
		fetchOpts: fetchOpts,
	}
	if cfg.Verbose {
		logPipeline(c.chain, denylist)
	}

	if cfg.ModelEnabled() && env.HasModelKey() {
		client, err := llm.NewClient(ctx, cfg.LLMConfig(), env.ModelAPIKey)
		if err != nil {
			return nil, fmt.Errorf("failed to create model client: %w", err)
		}
		c.client = client
	} else if cfg.Verbose {
		log.Printf("[MODEL] Model inference disabled (set MODEL_API_KEY to enable)")
	}
	c.inferrer = inference.NewInferrer(c.client, cfg.Verbose)

	return c, nil
}

// logPipeline prints the relay order and denylist size in effect.
func logPipeline(chain *fetch.Chain, denylist *extraction.Denylist) {
	names := lo.Map(chain.Relays(), func(r fetch.Relay, _ int) string { return r.Name })
	if len(names) == 0 {
		log.Printf("[FETCH] Relay chain: (none)")
	} else {
		log.Printf("[FETCH] Relay chain: %s", strings.Join(names, " -> "))
	}
	log.Printf("[EXTRACT] Denylist: %d pattern(s)", len(denylist.Patterns()))
}

// enricher returns a pipeline with model inference on or off.
func (c *components) enricher(useModel bool, onProgress pipeline.ProgressCallback) *pipeline.Enricher {
	return pipeline.NewEnricher(c.chain, c.extractor, c.inferrer, pipeline.Options{
		DirectFetch:  c.cfg.DirectFetchEnabled(),
		UseBrowser:   c.cfg.UseBrowser,
		UseModel:     useModel,
		FetchOptions: c.fetchOpts,
		Verbose:      c.cfg.Verbose,
		OnProgress:   onProgress,
	})
}

// enricherFactory adapts enricher for session.Manager.
func (c *components) enricherFactory() session.EnricherFactory {
	return func(useModel bool) session.Enricher {
		return c.enricher(useModel, nil)
	}
}

func (c *components) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// openStore connects to PostgreSQL when DATABASE_URL is set and otherwise opens the local
// Badger store.
func openStore(ctx context.Context, cfg *config.Config, env *config.Env) (session.Store, error) {
	if env.DatabaseURL != "" {
		database, err := db.Connect(ctx, env.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(ctx); err != nil {
			_ = database.Close()
			return nil, err
		}
		if cfg.Verbose {
			log.Printf("[STORE] Using PostgreSQL")
		}
		return database, nil
	}

	store, err := storage.Open(cfg.StorePath)
	if err != nil {
		return nil, err
	}
	if cfg.Verbose {
		log.Printf("[STORE] Using local store at %s", cfg.StorePath)
	}
	return store, nil
}
