package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

type rootOptions struct {
	LogLevel string
	Output   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{
		LogLevel: envDefault("GRAFT_LOG_LEVEL", "info"),
		Output:   "json",
	}
	cmd := &cobra.Command{
		Use:           "graft",
		Short:         "Structural diff and patch for program trees",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return configureLogger(opts.LogLevel, cmd.ErrOrStderr())
		},
	}
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", opts.LogLevel, "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().StringVarP(&opts.Output, "output", "o", opts.Output, "Output format (json, yaml, msgpack)")

	cmd.AddCommand(
		newDiffCmd(opts),
		newApplyCmd(opts),
		newPrintCmd(opts),
		newVerifyCmd(opts),
	)
	return cmd
}

// Execute runs the CLI and returns the process exit code.
func Execute() int {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "graft: %s\n", err)
		return 1
	}
	return 0
}

func configureLogger(levelValue string, out io.Writer) error {
	var level slog.Level
	switch strings.TrimSpace(strings.ToLower(levelValue)) {
	case "", "info":
		level = slog.LevelInfo
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("unsupported log level %q", levelValue)
	}
	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})
	slog.SetDefault(slog.New(handler))
	return nil
}

func envDefault(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
