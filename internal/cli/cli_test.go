package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dshills/codementor/internal/config"
	"github.com/dshills/codementor/internal/review"
)

const resultJSON = `{"id":"r-1","overallScore":64,"summary":"Unsafe query building.","vulnerabilities":[{"id":"v1","type":"SQL Injection","severity":"high","line":3,"message":"query built from input","recommendation":"use parameters"}],"suggestions":[],"codeQuality":{"complexity":4,"maintainability":70,"coverage":0,"duplication":2,"issues":[]},"analysisTime":900}`

// resetFlags resets all package-level flag variables to their zero values.
func resetFlags() {
	flagLang = ""
	flagStream = false
	flagFormat = ""
	flagOut = ""
	flagFailOn = ""
	flagNoRedact = false
	flagBaseURL = ""
	flagStaged = false
	flagLogLevel = ""
	flagRemoteJSON = false
	flagLimit = 20
	flagDescription = ""
	flagConfigYAML = false
	if f := reviewCmd.Flags().Lookup("stream"); f != nil {
		f.Changed = false
	}
	exitCode = ExitSuccess
}

// isolate points config and env lookups at an empty temp directory.
func isolate(t *testing.T) string {
	t.Helper()
	resetFlags()
	t.Cleanup(resetFlags)
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	for _, key := range []string{
		"CODEMENTOR_API_BASE_URL", "VITE_API_BASE_URL", "CODEMENTOR_LANGUAGE",
		"CODEMENTOR_FORMAT", "CODEMENTOR_FAIL_ON", "CODEMENTOR_LOG_LEVEL",
		"CODEMENTOR_STREAM", "CODEMENTOR_TIMEOUT", "CODEMENTOR_REDACT_SECRETS",
	} {
		t.Setenv(key, "")
	}
	return dir
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// reviewServer answers plain and streamed reviews with resultJSON.
func reviewServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/review":
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, resultJSON)
		case "/api/review/stream":
			w.Header().Set("Content-Type", "text/event-stream")
			for _, f := range []string{
				`{"type":"start"}`,
				`{"type":"vulnerability"}`,
				`{"type":"complete","data":` + resultJSON + `}`,
			} {
				fmt.Fprintf(w, "data: %s\n\n", f)
			}
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

// --- buildOverrides tests ---

func TestBuildOverrides_NoFlags(t *testing.T) {
	resetFlags()
	m := buildOverrides(reviewCmd)
	if len(m) != 0 {
		t.Errorf("buildOverrides() with no flags = %v, want empty map", m)
	}
}

func TestBuildOverrides_AllFlags(t *testing.T) {
	resetFlags()
	t.Cleanup(resetFlags)
	flagBaseURL = "http://review.internal:9000"
	flagFormat = "json"
	flagFailOn = "high"
	if err := reviewCmd.Flags().Set("stream", "true"); err != nil {
		t.Fatal(err)
	}

	m := buildOverrides(reviewCmd)

	expected := map[string]string{
		"baseURL": "http://review.internal:9000",
		"format":  "json",
		"failOn":  "high",
		"stream":  "true",
	}
	if len(m) != len(expected) {
		t.Fatalf("buildOverrides() returned %d entries, want %d: %v", len(m), len(expected), m)
	}
	for k, v := range expected {
		if m[k] != v {
			t.Errorf("buildOverrides()[%q] = %q, want %q", k, m[k], v)
		}
	}
}

func TestBuildOverrides_StreamFalseWhenSet(t *testing.T) {
	resetFlags()
	t.Cleanup(resetFlags)
	if err := reviewCmd.Flags().Set("stream", "false"); err != nil {
		t.Fatal(err)
	}
	if got := buildOverrides(reviewCmd)["stream"]; got != "false" {
		t.Errorf("stream = %q, want explicit false", got)
	}
}

// --- helper tests ---

func TestResolveLanguage(t *testing.T) {
	tests := []struct {
		name     string
		flag     string
		path     string
		fallback string
		want     review.Language
		wantErr  bool
	}{
		{"flag wins", "rust", "main.py", "go", review.LangRust, false},
		{"flag label", "C++", "", "go", review.LangCPP, false},
		{"extension", "", "src/app.tsx", "go", review.LangTypeScript, false},
		{"fallback", "", "Makefile", "python", review.LangPython, false},
		{"stdin fallback", "", "", "sql", review.LangSQL, false},
		{"bad flag", "cobol", "main.py", "go", "", true},
		{"bad fallback", "", "", "brainfuck", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveLanguage(tt.flag, tt.path, tt.fallback)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReadSource(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "a.go", "package a\n")

	got, err := readSource(path, nil)
	if err != nil || got != "package a\n" {
		t.Errorf("file: got %q, %v", got, err)
	}

	for _, p := range []string{"", "-"} {
		got, err := readSource(p, strings.NewReader("from stdin"))
		if err != nil || got != "from stdin" {
			t.Errorf("%q: got %q, %v", p, got, err)
		}
	}

	if _, err := readSource(filepath.Join(dir, "missing.go"), nil); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestMeetsFailOn(t *testing.T) {
	r := &review.ReviewResult{Vulnerabilities: []review.Vulnerability{
		{Severity: review.SeverityMedium},
		{Severity: review.SeverityLow},
	}}

	tests := []struct {
		threshold string
		want      bool
	}{
		{"none", false},
		{"", false},
		{"low", true},
		{"medium", true},
		{"high", false},
		{"critical", false},
	}
	for _, tt := range tests {
		if got := meetsFailOn(r, tt.threshold); got != tt.want {
			t.Errorf("meetsFailOn(%q) = %v, want %v", tt.threshold, got, tt.want)
		}
	}
	if meetsFailOn(&review.ReviewResult{}, "info") {
		t.Error("clean result should never fail")
	}
}

func TestExitCodeFor(t *testing.T) {
	if got := exitCodeFor(&review.ValidationError{Message: "x"}); got != ExitValidationError {
		t.Errorf("validation: %d", got)
	}
	if got := exitCodeFor(fmt.Errorf("wrapped: %w", &review.ValidationError{Message: "x"})); got != ExitValidationError {
		t.Errorf("wrapped validation: %d", got)
	}
	if got := exitCodeFor(fmt.Errorf("boom")); got != ExitRuntimeError {
		t.Errorf("runtime: %d", got)
	}
}

func TestNewLogger_DefaultsToWarn(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger("nonsense", &buf)
	logger.Info("hidden")
	logger.Warn("shown")
	if strings.Contains(buf.String(), "hidden") || !strings.Contains(buf.String(), "shown") {
		t.Errorf("log output = %q", buf.String())
	}
}

// --- version command tests ---

func TestVersionCmd_Execute(t *testing.T) {
	var out bytes.Buffer
	versionCmd.SetOut(&out)
	t.Cleanup(func() { versionCmd.SetOut(nil) })

	if err := versionCmd.Execute(); err != nil {
		t.Fatalf("version command returned error: %v", err)
	}
	if got := out.String(); got != "codementor version "+version+"\n" {
		t.Errorf("output = %q", got)
	}
}

// --- config command tests ---

func TestConfigInit_CreatesFile(t *testing.T) {
	tmpDir := isolate(t)

	configCmd.SetArgs([]string{"init"})
	if err := configCmd.Execute(); err != nil {
		t.Fatalf("config init returned error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, "codementor", "config.json"))
	if err != nil {
		t.Fatalf("config init did not create config.json: %v", err)
	}
	var cfg config.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("config file is not valid JSON: %v", err)
	}
	if cfg.BaseURL != "http://localhost:8000" {
		t.Errorf("baseURL = %q", cfg.BaseURL)
	}
}

func TestConfigInit_AlreadyExists(t *testing.T) {
	tmpDir := isolate(t)

	cfgDir := filepath.Join(tmpDir, "codementor")
	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, cfgDir, "config.json", `{"language":"rust"}`)

	configCmd.SetArgs([]string{"init"})
	if err := configCmd.Execute(); err != nil {
		t.Fatalf("config init with existing file returned error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(cfgDir, "config.json"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"language":"rust"}` {
		t.Errorf("config init overwrote existing file: %s", data)
	}
}

func TestConfigSet_UpdatesFile(t *testing.T) {
	tmpDir := isolate(t)

	configCmd.SetArgs([]string{"set", "language", "Python"})
	if err := configCmd.Execute(); err != nil {
		t.Fatalf("config set returned error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(tmpDir, "codementor", "config.json"))
	if err != nil {
		t.Fatalf("cannot read config file: %v", err)
	}
	var cfg config.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("config file is not valid JSON: %v", err)
	}
	if cfg.Language != "python" {
		t.Errorf("language = %q, want python", cfg.Language)
	}
	if cfg.TimeoutSeconds != 30 {
		t.Errorf("defaults lost: timeoutSeconds = %d", cfg.TimeoutSeconds)
	}
}

func TestConfigSet_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown key", []string{"set", "unknownKey", "value"}},
		{"bad language", []string{"set", "language", "cobol"}},
		{"bad threshold", []string{"set", "failOn", "severe"}},
		{"missing value", []string{"set", "language"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			configCmd.SetArgs(tt.args)
			if err := configCmd.Execute(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestConfigShow_YAML(t *testing.T) {
	isolate(t)
	t.Setenv("CODEMENTOR_LANGUAGE", "go")

	var out bytes.Buffer
	configCmd.SetOut(&out)
	t.Cleanup(func() { configCmd.SetOut(nil) })

	configCmd.SetArgs([]string{"show", "--yaml"})
	if err := configCmd.Execute(); err != nil {
		t.Fatalf("config show returned error: %v", err)
	}
	for _, want := range []string{"baseURL: http://localhost:8000", "language: go", "redactSecrets: true"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

// --- review command tests ---

func TestReviewCmd_FindingsExitCode(t *testing.T) {
	dir := isolate(t)
	server := reviewServer(t)
	src := writeFile(t, dir, "query.py", "def q(id):\n    return db.execute('select ' + id)\n")
	outPath := filepath.Join(dir, "out.json")

	reviewCmd.SetArgs([]string{src, "--base-url", server.URL, "--format", "json", "--out", outPath, "--fail-on", "high"})
	if err := reviewCmd.Execute(); err != nil {
		t.Fatalf("review returned error: %v", err)
	}
	if exitCode != ExitFindings {
		t.Errorf("exitCode = %d, want %d", exitCode, ExitFindings)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	var got review.ReviewResult
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if got.ID != "r-1" || len(got.Vulnerabilities) != 1 {
		t.Errorf("result = %+v", got)
	}
}

func TestReviewCmd_StreamText(t *testing.T) {
	dir := isolate(t)
	server := reviewServer(t)
	src := writeFile(t, dir, "query.py", "x = 1\n")
	outPath := filepath.Join(dir, "out.txt")

	var stderr bytes.Buffer
	reviewCmd.SetErr(&stderr)
	t.Cleanup(func() { reviewCmd.SetErr(nil) })

	reviewCmd.SetArgs([]string{src, "--base-url", server.URL, "--stream", "--out", outPath, "--fail-on", "critical"})
	if err := reviewCmd.Execute(); err != nil {
		t.Fatalf("review returned error: %v", err)
	}
	if exitCode != ExitSuccess {
		t.Errorf("exitCode = %d, want success", exitCode)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "Code Review - query.py (Python)") {
		t.Errorf("text output missing header:\n%s", data)
	}
	if !strings.Contains(stderr.String(), "Analyzing vulnerabilities...") {
		t.Errorf("progress not reported: %q", stderr.String())
	}
}

func TestReviewCmd_StreamErrorEventMessage(t *testing.T) {
	dir := isolate(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"type\":\"start\"}\n\n")
		fmt.Fprint(w, "data: {\"type\":\"error\",\"message\":\"OpenAI key invalid\"}\n\n")
	}))
	t.Cleanup(server.Close)
	src := writeFile(t, dir, "a.go", "package a\n")

	var stderr bytes.Buffer
	errOut = &stderr
	t.Cleanup(func() { errOut = os.Stderr })
	reviewCmd.SetErr(io.Discard)
	t.Cleanup(func() { reviewCmd.SetErr(nil) })

	reviewCmd.SetArgs([]string{src, "--base-url", server.URL, "--stream", "--out", filepath.Join(dir, "out.txt")})
	if err := reviewCmd.Execute(); err != nil {
		t.Fatalf("review returned error: %v", err)
	}
	if exitCode != ExitRuntimeError {
		t.Errorf("exitCode = %d, want %d", exitCode, ExitRuntimeError)
	}
	if !strings.Contains(stderr.String(), "OpenAI key invalid") {
		t.Errorf("stderr = %q, want the service's message", stderr.String())
	}
	if strings.Contains(stderr.String(), "connection closed") {
		t.Errorf("stderr = %q, transport close should not be reported", stderr.String())
	}
}

func TestReviewCmd_EmptyFileIsValidationError(t *testing.T) {
	dir := isolate(t)
	server := reviewServer(t)
	src := writeFile(t, dir, "empty.go", "   \n")

	reviewCmd.SetArgs([]string{src, "--base-url", server.URL, "--out", filepath.Join(dir, "out.txt")})
	if err := reviewCmd.Execute(); err != nil {
		t.Fatalf("review returned error: %v", err)
	}
	if exitCode != ExitValidationError {
		t.Errorf("exitCode = %d, want %d", exitCode, ExitValidationError)
	}
}

func TestReviewCmd_ServiceErrorIsRuntime(t *testing.T) {
	dir := isolate(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"model unavailable"}`, http.StatusBadGateway)
	}))
	t.Cleanup(server.Close)
	src := writeFile(t, dir, "a.js", "eval(x)\n")

	reviewCmd.SetArgs([]string{src, "--base-url", server.URL, "--out", filepath.Join(dir, "out.txt")})
	if err := reviewCmd.Execute(); err != nil {
		t.Fatalf("review returned error: %v", err)
	}
	if exitCode != ExitRuntimeError {
		t.Errorf("exitCode = %d, want %d", exitCode, ExitRuntimeError)
	}
}

func TestReviewCmd_UnknownFormat(t *testing.T) {
	dir := isolate(t)
	src := writeFile(t, dir, "a.js", "eval(x)\n")

	reviewCmd.SetArgs([]string{src, "--format", "pdf"})
	if err := reviewCmd.Execute(); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestReviewCmd_Staged(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}
	dir := isolate(t)
	repo := filepath.Join(dir, "repo")
	if err := os.MkdirAll(repo, 0o755); err != nil {
		t.Fatal(err)
	}
	git := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = repo
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}
	git("init")
	writeFile(t, repo, "query.py", "db.execute('select ' + id)\n")
	writeFile(t, repo, "notes.txt", "not code\n")
	writeFile(t, repo, ".env", "TOKEN=abc\n")
	git("add", "query.py", "notes.txt", ".env")
	t.Chdir(repo)

	var reviewed []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req review.ReviewRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		reviewed = append(reviewed, req.FileName)
		fmt.Fprint(w, resultJSON)
	}))
	t.Cleanup(server.Close)
	outPath := filepath.Join(dir, "staged.md")

	reviewCmd.SetArgs([]string{"--staged", "--base-url", server.URL, "--format", "markdown", "--out", outPath, "--fail-on", "high"})
	if err := reviewCmd.Execute(); err != nil {
		t.Fatalf("review --staged returned error: %v", err)
	}
	if exitCode != ExitFindings {
		t.Errorf("exitCode = %d, want %d", exitCode, ExitFindings)
	}
	if len(reviewed) != 1 || reviewed[0] != "query.py" {
		t.Errorf("reviewed = %v, want [query.py]", reviewed)
	}
	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "## Code Review: query.py") {
		t.Errorf("markdown output missing header:\n%s", data)
	}
}

func TestReviewCmd_StagedRejectsJSON(t *testing.T) {
	isolate(t)
	reviewCmd.SetArgs([]string{"--staged", "--format", "json"})
	if err := reviewCmd.Execute(); err == nil {
		t.Error("expected error for --staged with json")
	}
}

// --- shell tests ---

func TestShell_ReviewHistoryStats(t *testing.T) {
	isolate(t)
	server := reviewServer(t)
	cfg, err := loadConfig(map[string]string{"baseURL": server.URL})
	if err != nil {
		t.Fatal(err)
	}
	sess := newSession(cfg, review.LangJavaScript, false, newLogger("error", os.Stderr))

	input := strings.Join([]string{
		"review",
		"lang python",
		"paste",
		"def q(id):",
		"    return db.execute('select ' + id)",
		".",
		"review",
		"history",
		"stats",
		"delete nope",
		"bogus",
		"quit",
		"show",
	}, "\n")
	var out bytes.Buffer
	sh := newShell(sess, strings.NewReader(input), &out)
	if err := sh.run(t.Context()); err != nil {
		t.Fatalf("run: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"Error: " + review.EmptyCodeMessage,
		"codementor [untitled python]>",
		"Code Review - Python",
		"python_review",
		"Total reviews",
		`Error: no history entry "nope"`,
		`unknown command "bogus"`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if n := len(sess.State().History); n != 1 {
		t.Errorf("history = %d entries, want 1", n)
	}
}

func TestShell_LoadDetectsLanguage(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	path := writeFile(t, dir, "lib.rs", "fn main() {}\n")
	cfg, err := loadConfig(map[string]string{})
	if err != nil {
		t.Fatal(err)
	}
	sess := newSession(cfg, review.LangJavaScript, false, newLogger("error", os.Stderr))

	var out bytes.Buffer
	sh := newShell(sess, strings.NewReader(""), &out)
	if _, err := sh.exec(t.Context(), "load "+path); err != nil {
		t.Fatal(err)
	}
	st := sess.State()
	if st.Language != review.LangRust || st.FileName != "lib.rs" || st.Code != "fn main() {}\n" {
		t.Errorf("state = %+v", st)
	}
	if _, err := sh.exec(t.Context(), "lang"); err == nil {
		t.Error("lang without argument should fail")
	}
}

// --- watch tests ---

func TestRunWatch_ReviewsThenSummarizes(t *testing.T) {
	dir := isolate(t)
	server := reviewServer(t)
	path := writeFile(t, dir, "handler.py", "db.execute('select ' + id)\n")

	cfg, err := loadConfig(map[string]string{"baseURL": server.URL})
	if err != nil {
		t.Fatal(err)
	}
	sess := newSession(cfg, review.LangPython, false, newLogger("error", os.Stderr))
	sess.SetFileName("handler.py")

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	var out bytes.Buffer
	done := make(chan error, 1)
	go func() { done <- runWatch(ctx, sess, path, &out, 10*time.Millisecond) }()

	deadline := time.Now().Add(5 * time.Second)
	for len(sess.State().History) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("initial review never completed")
		}
		time.Sleep(10 * time.Millisecond)
	}
	cancel()
	if err := <-done; err != nil {
		t.Fatalf("runWatch: %v", err)
	}

	got := out.String()
	for _, want := range []string{"Watching " + path, "Code Review - handler.py (Python)", "Total reviews"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

// --- remote command tests ---

func TestRemoteHistory(t *testing.T) {
	isolate(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/reviews/history" || r.URL.Query().Get("limit") != "5" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `[{"id":"h1","fileName":"auth.go","timestamp":"2026-01-02T03:04:05Z","language":"go","vulnerabilityCount":2,"severity":"high","score":71}]`)
	}))
	t.Cleanup(server.Close)

	var out bytes.Buffer
	remoteCmd.SetOut(&out)
	t.Cleanup(func() { remoteCmd.SetOut(nil) })

	remoteCmd.SetArgs([]string{"history", "--base-url", server.URL, "--limit", "5"})
	if err := remoteCmd.Execute(); err != nil {
		t.Fatalf("remote history returned error: %v", err)
	}
	if exitCode != ExitSuccess {
		t.Fatalf("exitCode = %d", exitCode)
	}
	for _, want := range []string{"auth.go", "HIGH", "71"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}

func TestRemoteProjectCreate_EmptyName(t *testing.T) {
	isolate(t)
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
	}))
	t.Cleanup(server.Close)

	remoteCmd.SetArgs([]string{"project", "create", "", "--base-url", server.URL})
	if err := remoteCmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exitCode != ExitValidationError {
		t.Errorf("exitCode = %d, want %d", exitCode, ExitValidationError)
	}
	if hits != 0 {
		t.Errorf("service called %d times", hits)
	}
}

func TestRemoteHealth_Unreachable(t *testing.T) {
	isolate(t)
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	remoteCmd.SetArgs([]string{"health", "--base-url", url})
	if err := remoteCmd.Execute(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exitCode != ExitRuntimeError {
		t.Errorf("exitCode = %d, want %d", exitCode, ExitRuntimeError)
	}
}

// --- exit code constants tests ---

func TestExitCodes(t *testing.T) {
	tests := []struct {
		name string
		code int
		want int
	}{
		{"ExitSuccess", ExitSuccess, 0},
		{"ExitFindings", ExitFindings, 1},
		{"ExitUsageError", ExitUsageError, 2},
		{"ExitValidationError", ExitValidationError, 3},
		{"ExitRuntimeError", ExitRuntimeError, 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.code != tt.want {
				t.Errorf("%s = %d, want %d", tt.name, tt.code, tt.want)
			}
		})
	}
}

func TestVersionConstant(t *testing.T) {
	if version == "" {
		t.Error("version constant is empty")
	}
}
