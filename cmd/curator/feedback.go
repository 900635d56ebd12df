// cmd/curator/feedback.go

package main

import (
	"bufio"
	"strings"

	"github.com/spf13/cobra"

	"curator/internal/bootstrap"
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Print tone feedback for every record",
	Long: `Print tone feedback for every record, classified by the sentiment
service configured in SENTIMENT_ENDPOINT.

Examples:
  curator feedback
  curator feedback --suggest       # Compare positive and negative content`,
	RunE: runFeedback,
}

var sentimentCmd = &cobra.Command{
	Use:   "sentiment [text...]",
	Short: "Classify texts given as arguments or one per line on stdin",
	RunE:  runSentiment,
}

func init() {
	rootCmd.AddCommand(feedbackCmd)
	rootCmd.AddCommand(sentimentCmd)

	feedbackCmd.Flags().Bool("suggest", false, "print a tone suggestion from labelled records")
}

func runFeedback(cmd *cobra.Command, args []string) error {
	suggest, _ := cmd.Flags().GetBool("suggest")

	return withComponents(cmd, func(c *bootstrap.Components) error {
		if suggest {
			suggestion, err := c.Service.Suggestion(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), suggestion)
		}

		results, err := c.Service.Feedback(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), results)
	})
}

func runSentiment(cmd *cobra.Command, args []string) error {
	texts := args
	if len(texts) == 0 {
		scanner := bufio.NewScanner(cmd.InOrStdin())
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" {
				texts = append(texts, line)
			}
		}
		if err := scanner.Err(); err != nil {
			return err
		}
	}

	return withComponents(cmd, func(c *bootstrap.Components) error {
		results, err := c.Service.Classify(cmd.Context(), texts)
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), results)
	})
}
