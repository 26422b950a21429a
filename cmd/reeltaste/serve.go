package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mbaxter/reeltaste/internal/server"
	"github.com/mbaxter/reeltaste/internal/trakt"
)

var (
	servePort       int
	serveConfigPath string
	serveVerbose    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the recommendation pipeline, the listing diagnosis probe, and the Trakt proxy endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	serveCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Print detailed debug information")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(cmd, serveConfigPath, "", "", false, serveVerbose)
	if err != nil {
		return err
	}

	p, closeEmbedder, err := newPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeEmbedder()

	var traktClient *trakt.Client
	if cfg.TraktClientID != "" {
		traktClient = trakt.NewClient(cfg.TraktClientID, cfg.TraktClientSecret)
	}

	srv := server.New(server.Config{Port: servePort}, p, newReader(cfg), traktClient)
	return srv.Start()
}
