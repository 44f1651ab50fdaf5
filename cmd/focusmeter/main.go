package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/adibhanna/focusmeter/internal/collector"
	"github.com/adibhanna/focusmeter/internal/config"
	"github.com/adibhanna/focusmeter/internal/ui/report"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type globalFlags struct {
	configPath string
	apiURL     string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	start := newStartCmd(flags)
	root := &cobra.Command{
		Use:           "focusmeter",
		Short:         "Focus sessions with attention tracking",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          start.RunE,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/focusmeter/config.yaml)")
	root.PersistentFlags().StringVar(&flags.apiURL, "api-url", "", "collector API base URL (overrides config and FOCUSMETER_API_BASE_URL)")

	root.AddCommand(start)
	root.AddCommand(newReportCmd(flags))
	root.AddCommand(newConfigCmd(flags))
	return root
}

// loadConfig resolves file, environment and flag layers, then validates.
func loadConfig(flags *globalFlags) (*config.Config, error) {
	cfg, err := resolveConfig(flags)
	if err != nil {
		return nil, err
	}
	return cfg, checkConfig(cfg)
}

func resolveConfig(flags *globalFlags) (*config.Config, error) {
	cfg, err := config.New(flags.configPath)
	if err != nil {
		return nil, err
	}
	if flags.apiURL != "" {
		cfg.SetBaseURL(flags.apiURL)
	}
	return cfg, nil
}

// checkConfig logs a missing API URL and leaves callers to skip network
// work; any other problem is fatal.
func checkConfig(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		if !errors.Is(err, config.ErrMissingAPIBaseURL) {
			return errors.Wrap(err, "invalid configuration")
		}
		log.Printf("config: %v", err)
	}
	return nil
}

func newStartCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Set a goal and run a focus session",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(flags)
			if err != nil {
				return err
			}

			closeLog, err := setupLogFile(cfg.LogFile)
			if err != nil {
				return err
			}
			defer closeLog()

			if err := checkConfig(cfg); err != nil {
				return err
			}

			return runApp(cfg)
		},
	}
}

func newReportCmd(flags *globalFlags) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "report <session-id>",
		Short: "Print the collector's report for a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}

			client := collector.New(cfg.API)
			r, err := client.GetReport(context.Background(), args[0])
			if err != nil {
				return err
			}

			out := report.FormatText(r)
			if asJSON {
				if out, err = report.FormatJSON(r); err != nil {
					return err
				}
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func newConfigCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cfg.String())
			return nil
		},
	}
}

// setupLogFile sends the log to path while the terminal UI owns the screen.
func setupLogFile(path string) (func(), error) {
	if path == "" {
		return func() {}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "create log directory")
	}
	f, err := tea.LogToFile(path, "focusmeter")
	if err != nil {
		return nil, errors.Wrap(err, "open log file")
	}
	return func() { _ = f.Close() }, nil
}
