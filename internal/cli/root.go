// Package cli implements the command-line interface for triagetrack.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"triagetrack/internal/config"
	"triagetrack/internal/core"
	"triagetrack/internal/logging"
)

// Global flags
var (
	verbose   bool
	repo      string
	cacheDir  string
	storeKind string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:     "triagetrack",
	Short:   "Track issue closings and triage status",
	Long:    `A command-line utility for tracking net closings and triage status of issues in a large GitHub repository.`,
	Version: core.Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags available to all commands
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose debug output to stderr")
	rootCmd.PersistentFlags().StringVar(&repo, "repo", "", fmt.Sprintf("Repository to track as owner/name (default: %s)", core.DefaultRepo))
	rootCmd.PersistentFlags().StringVar(&cacheDir, "cache-dir", "", "Cache directory (default: ~/.triagetrack/cache)")
	rootCmd.PersistentFlags().StringVar(&storeKind, "store", "", "Blob store backend: fs or sqlite (default: fs)")
}

// loadConfig resolves configuration and applies flag overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if repo != "" {
		cfg.Repo = repo
	}
	if cacheDir != "" {
		cfg.CacheDir = cacheDir
	}
	if storeKind != "" {
		cfg.Store = storeKind
	}
	return cfg, nil
}
