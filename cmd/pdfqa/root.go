package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"pdfqa/internal/config"
)

var (
	cfgFile string
	verbose bool
	noColor bool
	dir     string
	workers int
)

var rootCmd = &cobra.Command{
	Use:   "pdfqa [pdf]",
	Short: "Ask questions about a PDF using a vision model",
	Long: `pdfqa extracts the text of every page of a PDF with a vision model and then
answers questions about it interactively. Without an argument it looks for PDF
files in the search directory and asks which one to use.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runInteractive,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&dir, "dir", "", "directory to search for PDF files")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "pages extracted concurrently")
}

// loadConfig reads the config file and environment, then applies flags.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	if cmd.Flags().Changed("dir") {
		cfg.SearchDir = dir
	}
	if cmd.Flags().Changed("workers") {
		cfg.Workers = workers
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func runInteractive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	a, err := newApp(cfg, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer a.Close()

	var path string
	if len(args) == 1 {
		path = args[0]
	}
	if err := a.shell.Start(cmd.Context(), path); err != nil {
		// The shell has already told the user why.
		return reported{err}
	}
	return nil
}

// reported marks an error whose message has already been shown.
type reported struct{ err error }

func (r reported) Error() string { return r.err.Error() }
func (r reported) Unwrap() error { return r.err }

func isReported(err error) bool {
	var r reported
	return errors.As(err, &r)
}
