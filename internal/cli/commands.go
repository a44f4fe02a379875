package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"triagetrack/internal/config"
	"triagetrack/internal/core"
	"triagetrack/internal/github"
	"triagetrack/internal/output"
	"triagetrack/internal/snapshot"
	"triagetrack/internal/store"
	"triagetrack/internal/triage"
)

func init() {
	// Add all subcommands
	rootCmd.AddCommand(closingsCmd)
	closingsCmd.AddCommand(closingsDateCmd)
	closingsCmd.AddCommand(closingsRangeCmd)
	rootCmd.AddCommand(triagedCmd)

	// Range command flags
	closingsRangeCmd.Flags().String("start", "", "Most recent date of the range (YYYY-MM-DD)")
	closingsRangeCmd.Flags().String("end", "", "Oldest date of the range (YYYY-MM-DD)")
	closingsRangeCmd.Flags().Bool("chart", false, "Render an interactive bar chart instead of text")
	closingsRangeCmd.MarkFlagRequired("start")
	closingsRangeCmd.MarkFlagRequired("end")

	// Triaged command flags
	triagedCmd.Flags().String("yardstick", "", fmt.Sprintf("Reference date; issues untouched since before it count as untriaged (default: %d days ago)", core.YardstickDays))
	triagedCmd.Flags().Int("limit", 0, "Maximum number of issues to examine (0 = all)")
}

// closingsCmd groups the net-closings reports.
var closingsCmd = &cobra.Command{
	Use:   "closings",
	Short: "Track net closings of issues",
}

var closingsDateCmd = &cobra.Command{
	Use:   "date [YYYY-MM-DD]",
	Short: "Print open and closed issues for a specific date",
	Args:  cobra.ExactArgs(1),
	RunE:  handleClosingsDate,
}

var closingsRangeCmd = &cobra.Command{
	Use:   "range --start [date] --end [date]",
	Short: "Print open and closed issues for a range of dates",
	RunE:  handleClosingsRange,
}

var triagedCmd = &cobra.Command{
	Use:   "triaged [labels...]",
	Short: "Track triaged issues",
	RunE:  handleTriaged,
}

func handleClosingsDate(cmd *cobra.Command, args []string) error {
	date, err := core.ParseDate(args[0])
	if err != nil {
		return err
	}

	_, blobs, client, err := setup()
	if err != nil {
		return err
	}
	defer blobs.Close()

	cache := snapshot.NewCache(client, blobs)
	day, err := cache.Day(date)
	if err != nil {
		return describeRateLimit(err)
	}

	output.PrintDay(os.Stdout, day)
	return nil
}

func handleClosingsRange(cmd *cobra.Command, args []string) error {
	startStr, _ := cmd.Flags().GetString("start")
	endStr, _ := cmd.Flags().GetString("end")
	chart, _ := cmd.Flags().GetBool("chart")

	start, err := core.ParseDate(startStr)
	if err != nil {
		return err
	}
	end, err := core.ParseDate(endStr)
	if err != nil {
		return err
	}
	if !end.Before(start) {
		return errors.New("--start must be more recent than --end")
	}

	_, blobs, client, err := setup()
	if err != nil {
		return err
	}
	defer blobs.Close()

	cache := snapshot.NewCache(client, blobs)

	// Walk backward from the most recent date to the oldest.
	var days []*snapshot.Day
	for date := start; !date.Before(end); date = date.AddDate(0, 0, -1) {
		day, err := cache.Day(date)
		if err != nil {
			return describeRateLimit(err)
		}
		days = append(days, day)
	}

	if chart {
		return output.ShowChart(days)
	}
	output.PrintRange(os.Stdout, days)
	return nil
}

func handleTriaged(cmd *cobra.Command, args []string) error {
	yardstickStr, _ := cmd.Flags().GetString("yardstick")
	limit, _ := cmd.Flags().GetInt("limit")

	yardstick := core.Today().AddDate(0, 0, -core.YardstickDays)
	if yardstickStr != "" {
		var err error
		yardstick, err = core.ParseDate(yardstickStr)
		if err != nil {
			return err
		}
	}

	cfg, blobs, client, err := setup()
	if err != nil {
		return err
	}
	defer blobs.Close()

	facts := triage.NewFactCache(blobs)
	resolver := triage.NewResolver(client, facts)
	resolver.Limit = limit

	report, err := resolver.Run(args, yardstick)
	if err != nil {
		if report != nil && report.RateLimited {
			// The partial report is still worth printing; the fact cache was
			// flushed before we got here.
			output.PrintTriage(os.Stdout, cfg.Repo, report)
			fmt.Fprintln(os.Stderr, "warning: hit GitHub rate limiting; the report above is partial")
		}
		return err
	}

	output.PrintTriage(os.Stdout, cfg.Repo, report)
	return nil
}

// setup resolves configuration and builds the store and client.
func setup() (*config.Config, store.Blob, *github.Client, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	blobs, err := store.Open(cfg.Store, cfg.CacheDir)
	if err != nil {
		return nil, nil, nil, err
	}
	client := github.NewClient(cfg.Repo, cfg.Token)
	return cfg, blobs, client, nil
}

// describeRateLimit keeps the rate-limit message distinct from other errors.
func describeRateLimit(err error) error {
	if errors.Is(err, github.ErrRateLimited) {
		return fmt.Errorf("aborted: %w (try again later or set %s)", github.ErrRateLimited, core.TokenEnvVar)
	}
	return err
}
