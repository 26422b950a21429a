package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/mbaxter/reeltaste/internal/letterboxd"
	"github.com/mbaxter/reeltaste/internal/observability"
	"github.com/mbaxter/reeltaste/internal/pipeline"
)

var (
	diagnoseConfigPath string
	diagnoseUser       string
	diagnoseMirrorBase string
	diagnoseUseBrowser bool
	diagnoseVerbose    bool
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose",
	Short: "Check what listing pages are visible for a user",
	Long: `Probes the user's ratings, diary, watchlist, and feed pages without calling
any catalog or embedding service, and reports what each probe saw. Useful when
recommendations come back empty: the report shows whether the account is
private, empty, or the site is blocking this client.`,
	RunE: runDiagnose,
}

func init() {
	diagnoseCmd.Flags().StringVar(&diagnoseConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	diagnoseCmd.Flags().StringVarP(&diagnoseUser, "user", "u", "", "Letterboxd username")
	diagnoseCmd.Flags().StringVar(&diagnoseMirrorBase, "mirror-base", "", "Rendering-proxy URL prefix for blocked fetches")
	diagnoseCmd.Flags().BoolVar(&diagnoseUseBrowser, "use-browser", false, "Use headless browser as the last fetch tier (requires Chrome)")
	diagnoseCmd.Flags().BoolVarP(&diagnoseVerbose, "verbose", "v", false, "Print detailed debug information")

	_ = diagnoseCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(diagnoseCmd)
}

func runDiagnose(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(cmd, diagnoseConfigPath, "", diagnoseMirrorBase, diagnoseUseBrowser, diagnoseVerbose)
	if err != nil {
		return err
	}

	user := letterboxd.CleanUsername(diagnoseUser)
	if user == "" {
		return pipeline.ErrNoUsername
	}

	report := newReader(cfg).Diagnose(ctx, user)
	observability.NewPrinter(os.Stdout).PrintReport(report)
	return nil
}
