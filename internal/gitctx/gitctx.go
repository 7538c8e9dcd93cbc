package gitctx

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dshills/codementor/internal/review"
)

// Repo is a git working tree. An empty Dir means the current directory.
type Repo struct {
	Dir  string
	Root string
}

// Open locates the repository containing dir.
func Open(ctx context.Context, dir string) (Repo, error) {
	r := Repo{Dir: dir}
	root, err := r.git(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return Repo{}, fmt.Errorf("not a git repository: %w", err)
	}
	r.Root = strings.TrimSpace(root)
	return r, nil
}

// StagedFiles lists files added, copied or modified in the index, relative to
// the repository root.
func (r Repo) StagedFiles(ctx context.Context) ([]string, error) {
	out, err := r.git(ctx, "diff", "--cached", "--name-only", "--diff-filter=ACM")
	if err != nil {
		return nil, fmt.Errorf("git diff --cached: %w", err)
	}
	return splitLines(out), nil
}

// ChangedFiles lists files added, copied or modified in the working tree but
// not yet staged.
func (r Repo) ChangedFiles(ctx context.Context) ([]string, error) {
	out, err := r.git(ctx, "diff", "--name-only", "--diff-filter=ACM")
	if err != nil {
		return nil, fmt.Errorf("git diff: %w", err)
	}
	return splitLines(out), nil
}

// StagedContent returns the index copy of path, which may differ from the
// working tree.
func (r Repo) StagedContent(ctx context.Context, path string) (string, error) {
	out, err := r.git(ctx, "show", ":"+filepath.ToSlash(path))
	if err != nil {
		return "", fmt.Errorf("git show :%s: %w", path, err)
	}
	return out, nil
}

// HookPath returns the location of the pre-commit hook, honoring
// core.hooksPath.
func (r Repo) HookPath(ctx context.Context) (string, error) {
	out, err := r.git(ctx, "rev-parse", "--git-path", "hooks/pre-commit")
	if err != nil {
		return "", fmt.Errorf("not a git repository (git rev-parse --git-path failed): %w", err)
	}
	path := strings.TrimSpace(out)
	if !filepath.IsAbs(path) && r.Dir != "" {
		path = filepath.Join(r.Dir, path)
	}
	return path, nil
}

// Reviewable keeps the files whose language is recognized from the extension
// and that match none of the exclude patterns. The result is sorted.
func Reviewable(files, excludes []string) []string {
	var result []string
	for _, f := range files {
		if review.LanguageFromPath(f) == "" || MatchesAny(f, excludes) {
			continue
		}
		result = append(result, f)
	}
	sort.Strings(result)
	return result
}

// MatchesAny returns true if the path matches any of the given glob patterns.
func MatchesAny(path string, patterns []string) bool {
	for _, pattern := range patterns {
		matched, err := filepath.Match(pattern, path)
		if err == nil && matched {
			return true
		}
		// "dir/**" matches everything below dir.
		if prefix, ok := strings.CutSuffix(pattern, "/**"); ok && !strings.ContainsAny(prefix, "*?[") {
			if strings.HasPrefix(path, prefix+"/") {
				return true
			}
		}
		clean := strings.TrimPrefix(pattern, "**/")
		if clean != pattern {
			matched, err = filepath.Match(clean, filepath.Base(path))
			if err == nil && matched {
				return true
			}
			matched, err = filepath.Match(clean, path)
			if err == nil && matched {
				return true
			}
		}
	}
	return false
}

func splitLines(s string) []string {
	var result []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			result = append(result, line)
		}
	}
	return result
}

func (r Repo) git(ctx context.Context, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = r.Dir
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return string(out), fmt.Errorf("%s: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", err
	}
	return string(out), nil
}
