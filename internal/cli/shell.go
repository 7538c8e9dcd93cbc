package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/codementor/internal/analytics"
	"github.com/dshills/codementor/internal/output"
	"github.com/dshills/codementor/internal/review"
	"github.com/dshills/codementor/internal/session"
)

const shellHelp = `Commands:
  lang <language>   set the language (javascript, python, go, ...)
  load <file>       load code from a file
  paste             enter code; finish with a line containing only "."
  review            review the current code
  stream            review the current code with live progress
  show              show the current result
  history           list reviews from this session
  sync [limit]      replace history with the service's record
  delete <id>       remove a history entry
  stats             show analytics over the history
  reset             clear code and result (history is kept)
  help              show this help
  quit              leave the shell`

// shell is an interactive review session over a line-oriented terminal.
type shell struct {
	sess *session.Session
	in   *bufio.Scanner
	out  io.Writer
	now  func() time.Time
}

func newShell(sess *session.Session, in io.Reader, out io.Writer) *shell {
	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 0, 64*1024), 4<<20)
	return &shell{sess: sess, in: sc, out: out, now: time.Now}
}

func (sh *shell) prompt() {
	st := sh.sess.State()
	name := st.FileName
	if name == "" {
		name = "untitled"
	}
	fmt.Fprintf(sh.out, "codementor [%s %s]> ", name, st.Language)
}

// run reads commands until quit or end of input.
func (sh *shell) run(ctx context.Context) error {
	fmt.Fprintln(sh.out, `Type "help" for commands.`)
	for {
		sh.prompt()
		if !sh.in.Scan() {
			fmt.Fprintln(sh.out)
			return sh.in.Err()
		}
		quit, err := sh.exec(ctx, sh.in.Text())
		if err != nil {
			fmt.Fprintf(sh.out, "Error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

// exec runs one command line.
func (sh *shell) exec(ctx context.Context, line string) (quit bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "quit", "exit":
		return true, nil
	case "help":
		fmt.Fprintln(sh.out, shellHelp)
	case "lang":
		if len(args) != 1 {
			return false, errors.New("usage: lang <language>")
		}
		lang, err := review.ParseLanguage(args[0])
		if err != nil {
			return false, err
		}
		sh.sess.SetLanguage(lang)
	case "load":
		if len(args) != 1 {
			return false, errors.New("usage: load <file>")
		}
		return false, sh.load(args[0])
	case "paste":
		sh.paste()
	case "review":
		// Failures are recorded in the state and shown with it.
		_ = sh.sess.Submit(ctx, "", "")
		sh.show()
	case "stream":
		return false, sh.stream(ctx)
	case "show":
		sh.show()
	case "history":
		return false, output.WriteHistory(sh.out, sh.sess.State().History, sh.now())
	case "sync":
		limit := 20
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return false, fmt.Errorf("limit must be a number: %w", err)
			}
			limit = n
		}
		if err := sh.sess.SyncHistory(ctx, limit); err != nil {
			return false, err
		}
		fmt.Fprintf(sh.out, "Loaded %d entries\n", len(sh.sess.State().History))
	case "delete":
		if len(args) != 1 {
			return false, errors.New("usage: delete <id>")
		}
		before := len(sh.sess.State().History)
		sh.sess.DeleteHistory(args[0])
		if len(sh.sess.State().History) == before {
			return false, fmt.Errorf("no history entry %q", args[0])
		}
	case "stats":
		return false, output.WriteAnalytics(sh.out, analytics.Compute(sh.sess.State().History))
	case "reset":
		sh.sess.Reset()
	default:
		return false, fmt.Errorf("unknown command %q (try help)", cmd)
	}
	return false, nil
}

func (sh *shell) load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	sh.sess.SetCode(string(data))
	sh.sess.SetFileName(filepath.Base(path))
	if lang := review.LanguageFromPath(path); lang != "" {
		sh.sess.SetLanguage(lang)
	}
	fmt.Fprintf(sh.out, "Loaded %s (%d lines)\n", path, strings.Count(string(data), "\n")+1)
	return nil
}

func (sh *shell) paste() {
	fmt.Fprintln(sh.out, `Enter code, then "." on its own line.`)
	var b strings.Builder
	for sh.in.Scan() {
		line := sh.in.Text()
		if line == "." {
			break
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	sh.sess.SetCode(b.String())
	sh.sess.SetFileName("")
}

// stream runs a streamed review. Interrupt cancels the review, not the shell.
func (sh *shell) stream(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
	defer stop()

	cancel := printProgress(sh.sess, sh.out)
	err := sh.sess.SubmitStream(ctx, "", "")
	cancel()

	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(sh.out, "Review cancelled.")
		return nil
	}
	sh.show()
	return nil
}

func (sh *shell) show() {
	if err := output.WriteState(sh.out, sh.sess.State()); err != nil {
		fmt.Fprintf(sh.out, "Error: %v\n", err)
	}
}

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive review session with history and analytics",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(buildOverrides(cmd))
		if err != nil {
			return err
		}
		lang, err := resolveLanguage(flagLang, "", cfg.Language)
		if err != nil {
			return err
		}
		logger := newLogger(cfg.LogLevel, cmd.ErrOrStderr())
		sess := newSession(cfg, lang, flagNoRedact, logger)

		sh := newShell(sess, cmd.InOrStdin(), cmd.OutOrStdout())
		if err := sh.run(commandContext(cmd)); err != nil {
			fail(err)
		}
		return nil
	},
}

func init() {
	addReviewFlags(shellCmd)
}
