package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/codementor/internal/client"
	"github.com/dshills/codementor/internal/config"
	"github.com/dshills/codementor/internal/output"
	"github.com/dshills/codementor/internal/review"
	"github.com/dshills/codementor/internal/session"
	"github.com/dshills/codementor/internal/store"
)

const version = "0.1.0"

// Exit codes
const (
	ExitSuccess         = 0
	ExitFindings        = 1
	ExitUsageError      = 2
	ExitValidationError = 3
	ExitRuntimeError    = 4
)

var flagLogLevel string

var rootCmd = &cobra.Command{
	Use:   "codementor",
	Short: "AI code review client",
	Long:  "Codementor submits source code to a code review service and renders vulnerabilities, quality metrics and suggestions, live or all at once.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv("."); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		return nil
	},
	SilenceUsage: true,
}

// Run executes the root command and returns an exit code.
func Run() int {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(remoteCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(hookCmd)
	rootCmd.AddCommand(versionCmd)

	output.ToolVersion = version

	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}

	return exitCode
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print codementor version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "codementor version %s\n", version)
	},
}

// exitCodeFor maps a review error to a process exit code.
func exitCodeFor(err error) int {
	if review.IsValidation(err) {
		return ExitValidationError
	}
	return ExitRuntimeError
}

// errOut receives error reports from fail.
var errOut io.Writer = os.Stderr

// fail reports err on stderr and records its exit code.
func fail(err error) {
	fmt.Fprintf(errOut, "Error: %v\n", err)
	exitCode = exitCodeFor(err)
}

// loadConfig merges configuration with the given flag overrides and checks it.
func loadConfig(overrides map[string]string) (config.Config, error) {
	if flagLogLevel != "" {
		overrides["logLevel"] = flagLogLevel
	}
	cfg, err := config.Load(overrides)
	if err != nil {
		return config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newLogger(level string, w io.Writer) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl}))
}

func newClient(cfg config.Config, logger *slog.Logger) *client.Client {
	return client.New(cfg.BaseURL,
		client.WithTimeout(cfg.Timeout()),
		client.WithLogger(logger),
	)
}

// newSession builds a session against the configured service.
func newSession(cfg config.Config, lang review.Language, noRedact bool, logger *slog.Logger) *session.Session {
	redactSecrets := cfg.Privacy.RedactSecrets
	if noRedact {
		redactSecrets = false
		fmt.Fprintln(os.Stderr, "WARNING: secret redaction is disabled")
	}
	st := store.New(store.Initial(lang), logger)
	return session.New(newClient(cfg, logger), st,
		session.WithRedaction(redactSecrets, cfg.Privacy.RedactPaths),
		session.WithLogger(logger),
	)
}

// printProgress writes each new progress text to w as the session streams.
func printProgress(sess *session.Session, w io.Writer) (cancel func()) {
	var last string
	return sess.Store().Subscribe(func(st store.State) {
		if st.Progress != "" && st.Progress != last {
			last = st.Progress
			fmt.Fprintf(w, "» %s\n", st.Progress)
		}
	})
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
