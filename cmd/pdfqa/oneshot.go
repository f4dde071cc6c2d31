package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"pdfqa/internal/models"
	"pdfqa/internal/shell"
)

var askCmd = &cobra.Command{
	Use:   "ask <pdf> <question...>",
	Short: "Answer one question about a PDF and exit",
	Example: `  pdfqa ask invoice.pdf "What is the total amount due?"
  pdfqa ask report.pdf what dates are mentioned`,
	Args: cobra.MinimumNArgs(2),
	RunE: runAsk,
}

var summaryCmd = &cobra.Command{
	Use:   "summary <pdf>",
	Short: "Summarize a PDF and exit",
	Args:  cobra.ExactArgs(1),
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(askCmd, summaryCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.Join(args[1:], " ")
	return oneShot(cmd, args[0], func(ctx context.Context, a *app, s *models.Session) string {
		answer, err := a.assistant.Ask(ctx, s, question)
		if err != nil {
			return shell.DescribeAnswerError(err)
		}
		return answer
	})
}

func runSummary(cmd *cobra.Command, args []string) error {
	return oneShot(cmd, args[0], func(ctx context.Context, a *app, s *models.Session) string {
		summary, err := a.assistant.Summarize(ctx, s)
		if err != nil {
			return shell.DescribeSummaryError(err)
		}
		return summary
	})
}

// oneShot loads path and prints what fn returns. Load progress goes to
// stderr so stdout carries only the result.
func oneShot(cmd *cobra.Command, path string, fn func(context.Context, *app, *models.Session) string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	a, err := newApp(cfg, cmd.InOrStdin(), cmd.ErrOrStderr(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	s, err := a.loader.Load(cmd.Context(), path)
	if err != nil {
		a.ui.Notice(shell.DescribeLoadError(err))
		fmt.Fprintln(cmd.OutOrStdout(), "Failed to load PDF")
		return reported{err}
	}
	fmt.Fprintln(cmd.OutOrStdout(), fn(cmd.Context(), a, s))
	return nil
}
