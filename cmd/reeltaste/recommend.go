package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/mbaxter/reeltaste/internal/observability"
	"github.com/mbaxter/reeltaste/internal/pipeline"
	"github.com/mbaxter/reeltaste/internal/types"
)

var (
	recommendConfigPath    string
	recommendUser          string
	recommendMode          string
	recommendStreamingOnly bool
	recommendRegion        string
	recommendMirrorBase    string
	recommendUseBrowser    bool
	recommendVerbose       bool
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend a film for a user",
	Long: `Builds a taste profile from the user's public ratings, diary, and watchlist,
then scores either the watchlist (mode=watchlist) or films related to their
liked titles (mode=ai) and prints the best match.`,
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().StringVar(&recommendConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	recommendCmd.Flags().StringVarP(&recommendUser, "user", "u", "", "Letterboxd username")
	recommendCmd.Flags().StringVarP(&recommendMode, "mode", "m", "ai", "Candidate source: watchlist or ai")
	recommendCmd.Flags().BoolVarP(&recommendStreamingOnly, "streaming-only", "s", false, "Only consider films on subscription services")
	recommendCmd.Flags().StringVar(&recommendRegion, "region", "", "Watch-provider region code (defaults to WATCH_REGION env var)")
	recommendCmd.Flags().StringVar(&recommendMirrorBase, "mirror-base", "", "Rendering-proxy URL prefix for blocked fetches")
	recommendCmd.Flags().BoolVar(&recommendUseBrowser, "use-browser", false, "Use headless browser as the last fetch tier (requires Chrome)")
	recommendCmd.Flags().BoolVarP(&recommendVerbose, "verbose", "v", false, "Print detailed debug information")

	_ = recommendCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(cmd, recommendConfigPath, recommendRegion, recommendMirrorBase, recommendUseBrowser, recommendVerbose)
	if err != nil {
		return err
	}

	p, closeEmbedder, err := newPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeEmbedder()

	rec, err := p.Recommend(ctx, pipeline.Request{
		Username:     recommendUser,
		Mode:         types.Mode(recommendMode),
		OnlyFlatrate: recommendStreamingOnly,
	})
	if err != nil {
		return err
	}

	observability.NewPrinter(os.Stdout).PrintRecommendation(rec)
	return nil
}
