package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/mbaxter/reeltaste/internal/config"
	"github.com/mbaxter/reeltaste/internal/embedding"
	"github.com/mbaxter/reeltaste/internal/fetch"
	"github.com/mbaxter/reeltaste/internal/letterboxd"
	"github.com/mbaxter/reeltaste/internal/pipeline"
	"github.com/mbaxter/reeltaste/internal/tmdb"
)

// loadConfig builds the effective configuration: environment first, then an
// optional JSON file, with explicitly set flags taking priority.
func loadConfig(cmd *cobra.Command, configPath, region, mirrorBase string, useBrowser, verbose bool) (config.Config, error) {
	cfg := config.FromEnv()

	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = cfg.MergeWithDefaults(*loaded)
	}

	if cmd.Flags().Changed("region") {
		cfg.Region = region
	}
	if cmd.Flags().Changed("mirror-base") {
		cfg.MirrorBase = mirrorBase
	}
	if cmd.Flags().Changed("use-browser") {
		cfg.UseBrowser = useBrowser
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = verbose
	}

	cfg = cfg.MergeWithDefaults(config.Config{})
	if cfg.Verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	return cfg, nil
}

// newReader creates the listing reader for the configured fetch tiers.
func newReader(cfg config.Config) *letterboxd.Reader {
	return letterboxd.NewReader(fetch.NewClient(cfg.MirrorBase, cfg.UseBrowser))
}

// newPipeline wires the full recommendation pipeline from the configuration.
// The returned closer releases the embedding client.
func newPipeline(ctx context.Context, cfg config.Config) (*pipeline.Pipeline, func(), error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", pipeline.ErrMissingCredentials, err)
	}

	embedder, err := embedding.NewGemini(ctx, cfg.GeminiKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create embedding client: %w", err)
	}

	catalog := tmdb.NewClient(cfg.TMDBKey)
	p := pipeline.New(newReader(cfg), catalog, embedder, cfg.Region)
	return p, func() { _ = embedder.Close() }, nil
}
