// cmd/curator/summary.go

package main

import (
	"github.com/spf13/cobra"

	"curator/internal/bootstrap"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print average, maximum and minimum engagement",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withComponents(cmd, func(c *bootstrap.Components) error {
			summary, err := c.Service.Summary(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), summary)
		})
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}
