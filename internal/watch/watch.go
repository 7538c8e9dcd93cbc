package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/codementor/internal/review"
)

// DefaultDebounce absorbs the burst of events editors emit per save.
const DefaultDebounce = 300 * time.Millisecond

// Reviewer starts a streamed review, cancelling any review already running.
type Reviewer interface {
	SubmitStream(ctx context.Context, code string, lang review.Language) error
}

// Watcher submits a file for review whenever its content changes.
type Watcher struct {
	path     string
	lang     review.Language
	reviewer Reviewer
	debounce time.Duration
	logger   *slog.Logger
	onReview func(error)
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period before a change is reviewed.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the watcher logger.
func WithLogger(l *slog.Logger) Option {
	return func(w *Watcher) {
		if l != nil {
			w.logger = l
		}
	}
}

// OnReview registers fn to be called with the outcome of every review.
func OnReview(fn func(error)) Option {
	return func(w *Watcher) { w.onReview = fn }
}

// New creates a watcher for path.
func New(path string, lang review.Language, r Reviewer, opts ...Option) *Watcher {
	w := &Watcher{
		path:     path,
		lang:     lang,
		reviewer: r,
		debounce: DefaultDebounce,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run reviews the file once, then again after every change, until ctx is
// cancelled. Reviews still running when ctx ends are waited for.
func (w *Watcher) Run(ctx context.Context) error {
	target, err := filepath.Abs(w.path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", w.path, err)
	}
	if _, err := os.Stat(target); err != nil {
		return fmt.Errorf("watching %s: %w", w.path, err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer fw.Close()

	// Editors often replace the file on save, so watch its directory.
	if err := fw.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(target), err)
	}

	trigger := make(chan struct{}, 1)
	var timerMu sync.Mutex
	var timer *time.Timer
	schedule := func() {
		timerMu.Lock()
		defer timerMu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(w.debounce, func() {
			select {
			case trigger <- struct{}{}:
			default:
			}
		})
	}
	defer func() {
		timerMu.Lock()
		if timer != nil {
			timer.Stop()
		}
		timerMu.Unlock()
	}()

	var wg sync.WaitGroup
	defer wg.Wait()

	var last string
	schedule()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				schedule()
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "error", err)
		case <-trigger:
			data, err := os.ReadFile(target)
			if err != nil {
				w.logger.Warn("reading watched file", "path", target, "error", err)
				continue
			}
			code := string(data)
			if code == last {
				w.logger.Debug("content unchanged, skipping review", "path", target)
				continue
			}
			last = code

			wg.Add(1)
			go func() {
				defer wg.Done()
				err := w.reviewer.SubmitStream(ctx, code, w.lang)
				if w.onReview != nil {
					w.onReview(err)
				}
			}()
		}
	}
}
