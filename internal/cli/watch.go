package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/codementor/internal/analytics"
	"github.com/dshills/codementor/internal/output"
	"github.com/dshills/codementor/internal/session"
	"github.com/dshills/codementor/internal/watch"
)

var flagDebounce time.Duration

// lockedWriter serializes writes from the watcher and the store.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}

// runWatch reviews path on every save until ctx ends, then prints analytics
// over the reviews it ran.
func runWatch(ctx context.Context, sess *session.Session, path string, out io.Writer, debounce time.Duration) error {
	w := &lockedWriter{w: out}
	cancel := printProgress(sess, w)
	defer cancel()

	watcher := watch.New(path, sess.State().Language, sess,
		watch.WithDebounce(debounce),
		watch.OnReview(func(err error) {
			if errors.Is(err, context.Canceled) {
				return
			}
			st := sess.State()
			w.mu.Lock()
			defer w.mu.Unlock()
			output.WriteState(w.w, st)
		}),
	)

	fmt.Fprintf(w, "Watching %s (Ctrl-C to stop)\n", path)
	if err := watcher.Run(ctx); err != nil {
		return err
	}

	fmt.Fprintln(w)
	return output.WriteAnalytics(w, analytics.Compute(sess.State().History))
}

var watchCmd = &cobra.Command{
	Use:   "watch <file>",
	Short: "Re-review a file every time it is saved",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(buildOverrides(cmd))
		if err != nil {
			return err
		}
		path := args[0]
		lang, err := resolveLanguage(flagLang, path, cfg.Language)
		if err != nil {
			return err
		}

		logger := newLogger(cfg.LogLevel, cmd.ErrOrStderr())
		sess := newSession(cfg, lang, flagNoRedact, logger)
		sess.SetFileName(filepath.Base(path))

		ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt)
		defer stop()

		if err := runWatch(ctx, sess, path, cmd.OutOrStdout(), flagDebounce); err != nil {
			fail(err)
		}
		return nil
	},
}

func init() {
	addReviewFlags(watchCmd)
	watchCmd.Flags().DurationVar(&flagDebounce, "debounce", watch.DefaultDebounce, "Quiet period after a save before reviewing")
}
