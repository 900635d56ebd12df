// cmd/curator/root.go

package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"curator/internal/bootstrap"
	"curator/internal/config"
	"curator/internal/domain/engagement"
	"curator/internal/logging"
)

var (
	driver     string
	sqlitePath string
	timezone   string
	verbose    bool
	logger     *log.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "curator",
	Short: "Engagement trend and forecast CLI",
	Long: `curator analyses historical post engagement.

It reads engagement records from the configured store (sqlite, postgres or
twitter) and prints JSON results.

Example usage:
  curator report                           # Hourly trend, best hour and 7-day forecast
  curator report --from 2024-12-01 --to 2024-12-31 --horizon 14
  curator summary                          # Average, max and min engagement
  curator feedback --suggest               # Tone suggestion from labelled records
  curator sentiment "love this" "meh"      # Classify texts`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := "warn"
		if verbose {
			level = "debug"
		}
		logger = logging.New(cmd.ErrOrStderr(), logging.Config{Level: level})
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&driver, "driver", "", "record store driver: sqlite, postgres or twitter (default from DB_DRIVER)")
	rootCmd.PersistentFlags().StringVar(&sqlitePath, "db", "", "SQLite database path (default from DB_SQLITE_PATH)")
	rootCmd.PersistentFlags().StringVar(&timezone, "tz", "", "analysis timezone (default from ANALYSIS_TIMEZONE)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig reads the environment and applies flag overrides
func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}

	if driver != "" {
		cfg.Database.Driver = driver
	}
	if sqlitePath != "" {
		cfg.Database.SQLitePath = sqlitePath
	}
	if timezone != "" {
		cfg.Analysis.Timezone = timezone
	}
	return cfg, nil
}

// withComponents builds the curation service for the duration of fn
func withComponents(cmd *cobra.Command, fn func(*bootstrap.Components) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	components, err := bootstrap.Build(cmd.Context(), cfg, logger)
	if err != nil {
		return describe(err)
	}
	defer components.Close()

	return describe(fn(components))
}

// describe prefixes known failures with their user-facing reason
func describe(err error) error {
	if err == nil {
		return nil
	}
	for _, kind := range []error{
		engagement.ErrStoreUnavailable,
		engagement.ErrSchemaMismatch,
		engagement.ErrInvalidRange,
		engagement.ErrInvalidHorizon,
		engagement.ErrEmptyInput,
		engagement.ErrNoData,
		engagement.ErrInsufficientData,
		engagement.ErrDegenerateFit,
	} {
		if errors.Is(err, kind) {
			return fmt.Errorf("%s: %w", engagement.Reason(err), err)
		}
	}
	return err
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
