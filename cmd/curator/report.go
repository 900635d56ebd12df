// cmd/curator/report.go

package main

import (
	"github.com/spf13/cobra"

	"curator/internal/bootstrap"
	"curator/internal/domain/engagement"
	"curator/internal/service/curation"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the hourly trend, best hour and forecast",
	Long: `Build a trend report over every record, or over the records between
--from and --to (inclusive). Dates are RFC3339 or YYYY-MM-DD.

Examples:
  curator report
  curator report --from 2024-12-01 --to 2024-12-31
  curator report --horizon 14
  curator report --hourly          # Skip the forecast`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().String("from", "", "start of the period")
	reportCmd.Flags().String("to", "", "end of the period")
	reportCmd.Flags().Int("horizon", 0, "days to forecast (default from ANALYSIS_HORIZON)")
	reportCmd.Flags().Bool("hourly", false, "only print the hourly trend and best hour")
}

func runReport(cmd *cobra.Command, args []string) error {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	horizon, _ := cmd.Flags().GetInt("horizon")
	hourlyOnly, _ := cmd.Flags().GetBool("hourly")

	if cmd.Flags().Changed("horizon") && horizon <= 0 {
		return describe(engagement.ErrInvalidHorizon)
	}

	return withComponents(cmd, func(c *bootstrap.Components) error {
		period, err := engagement.ParsePeriod(from, to, c.Location)
		if err != nil {
			return err
		}

		if hourlyOnly {
			result, err := c.Service.Hourly(cmd.Context(), period)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), result)
		}

		report, err := c.Service.Report(cmd.Context(), curation.ReportRequest{Period: period, Horizon: horizon})
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), report)
	})
}
