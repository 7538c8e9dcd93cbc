package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dshills/codementor/internal/config"
	"github.com/dshills/codementor/internal/gitctx"
	"github.com/dshills/codementor/internal/output"
	"github.com/dshills/codementor/internal/review"
	"github.com/dshills/codementor/internal/session"
)

// Review flags
var (
	flagLang     string
	flagStream   bool
	flagFormat   string
	flagOut      string
	flagFailOn   string
	flagNoRedact bool
	flagBaseURL  string
	flagStaged   bool
)

func addConnFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagBaseURL, "base-url", "", "Review service base URL")
}

func addReviewFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagLang, "lang", "", "Source language (default: from file extension, then config)")
	cmd.Flags().BoolVar(&flagNoRedact, "no-redact", false, "Disable secret redaction (use with caution)")
	addConnFlags(cmd)
}

// buildOverrides collects the flags the user actually set.
func buildOverrides(cmd *cobra.Command) map[string]string {
	m := make(map[string]string)
	if flagBaseURL != "" {
		m["baseURL"] = flagBaseURL
	}
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagFailOn != "" {
		m["failOn"] = flagFailOn
	}
	if f := cmd.Flags().Lookup("stream"); f != nil && f.Changed {
		m["stream"] = strconv.FormatBool(flagStream)
	}
	return m
}

// resolveLanguage picks the --lang flag, then the file extension, then the
// configured default.
func resolveLanguage(flag, path, fallback string) (review.Language, error) {
	if flag != "" {
		return review.ParseLanguage(flag)
	}
	if lang := review.LanguageFromPath(path); lang != "" {
		return lang, nil
	}
	return review.ParseLanguage(fallback)
}

// readSource reads the file at path, or stdin when path is empty or "-".
func readSource(path string, stdin io.Reader) (string, error) {
	if path == "" || path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}

// meetsFailOn reports whether any vulnerability is at or above threshold.
func meetsFailOn(r *review.ReviewResult, threshold string) bool {
	for _, v := range r.Vulnerabilities {
		if review.MeetsThreshold(v.Severity, threshold) {
			return true
		}
	}
	return false
}

var reviewCmd = &cobra.Command{
	Use:   "review [file]",
	Short: "Review a source file, stdin, or the staged changes",
	Long:  "Submit a source file for review. Reads stdin when no file or \"-\" is given. With --staged, every staged file in a supported language is reviewed from the index. With --stream, progress is reported as the review runs.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(buildOverrides(cmd))
		if err != nil {
			return err
		}
		if _, err := output.GetWriter(cfg.Format); err != nil {
			return err
		}
		if flagStaged {
			if len(args) > 0 {
				return errors.New("--staged does not take a file argument")
			}
			if !output.Concatenable(cfg.Format) {
				return fmt.Errorf("--staged supports text and markdown output, not %s", cfg.Format)
			}
			return reviewStaged(cmd, cfg)
		}

		var path string
		if len(args) == 1 {
			path = args[0]
		}
		lang, err := resolveLanguage(flagLang, path, cfg.Language)
		if err != nil {
			return err
		}

		code, err := readSource(path, cmd.InOrStdin())
		if err != nil {
			fail(err)
			return nil
		}

		logger := newLogger(cfg.LogLevel, os.Stderr)
		sess := newSession(cfg, lang, flagNoRedact, logger)
		var fileName string
		if path != "" && path != "-" {
			fileName = filepath.Base(path)
		}

		ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
		defer stop()

		rep, err := reviewOne(ctx, cmd, sess, cfg.Stream, fileName, code, lang)
		if err != nil {
			fail(err)
			return nil
		}

		if err := output.WriteResult(rep, cfg.Format, flagOut); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}

		if meetsFailOn(rep.Result, cfg.FailOn) {
			exitCode = ExitFindings
		}
		return nil
	},
}

// reviewOne runs a single review through sess and returns its report.
func reviewOne(ctx context.Context, cmd *cobra.Command, sess *session.Session, stream bool, fileName, code string, lang review.Language) (*output.Report, error) {
	sess.SetFileName(fileName)

	var err error
	if stream {
		cancel := printProgress(sess, cmd.ErrOrStderr())
		err = sess.SubmitStream(ctx, code, lang)
		cancel()
	} else {
		err = sess.Submit(ctx, code, lang)
	}
	if err != nil {
		return nil, err
	}

	result := sess.State().Result
	if result == nil {
		return nil, errors.New("review completed without a result")
	}
	return &output.Report{FileName: fileName, Language: lang, Result: result}, nil
}

// reviewStaged reviews the index copy of each staged file. A failed file is
// reported and skipped; findings in any file set ExitFindings.
func reviewStaged(cmd *cobra.Command, cfg config.Config) error {
	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
	defer stop()

	repo, err := gitctx.Open(ctx, "")
	if err != nil {
		fail(err)
		return nil
	}
	files, err := repo.StagedFiles(ctx)
	if err != nil {
		fail(err)
		return nil
	}
	var excludes []string
	if cfg.Privacy.RedactSecrets && !flagNoRedact {
		excludes = cfg.Privacy.RedactPaths
	}
	files = gitctx.Reviewable(files, excludes)
	if len(files) == 0 {
		fmt.Fprintln(cmd.ErrOrStderr(), "No staged files to review.")
		return nil
	}

	logger := newLogger(cfg.LogLevel, os.Stderr)
	sess := newSession(cfg, review.DefaultLanguage, flagNoRedact, logger)

	var reports []*output.Report
	findings := false
	for _, f := range files {
		code, err := repo.StagedContent(ctx, f)
		if err == nil && strings.TrimSpace(code) == "" {
			continue
		}
		var rep *output.Report
		if err == nil {
			rep, err = reviewOne(ctx, cmd, sess, cfg.Stream, f, code, review.LanguageFromPath(f))
		}
		if err != nil {
			if ctx.Err() != nil {
				fail(err)
				return nil
			}
			fail(fmt.Errorf("%s: %w", f, err))
			continue
		}
		reports = append(reports, rep)
		findings = findings || meetsFailOn(rep.Result, cfg.FailOn)
	}

	if len(reports) > 0 {
		if err := output.WriteResults(reports, cfg.Format, flagOut); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output: %v\n", err)
			exitCode = ExitRuntimeError
			return nil
		}
	}
	if findings {
		exitCode = ExitFindings
	}
	return nil
}

func init() {
	addReviewFlags(reviewCmd)
	reviewCmd.Flags().BoolVar(&flagStream, "stream", false, "Stream progress events while the review runs")
	reviewCmd.Flags().BoolVar(&flagStaged, "staged", false, "Review every staged file in a supported language")
	reviewCmd.Flags().StringVar(&flagFormat, "format", "", "Output format (text, json, markdown, yaml, sarif)")
	reviewCmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
	reviewCmd.Flags().StringVar(&flagFailOn, "fail-on", "", "Exit 1 when a vulnerability is at or above this severity (critical, high, medium, low, info, none)")
}
