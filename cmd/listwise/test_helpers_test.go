package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"listwise/internal/config"
	"listwise/internal/testsupport"
)

// fakeAPI stands in for the listing endpoints. Stored listings are served by
// id; writes are recorded and answered with writeResponse when set.
type fakeAPI struct {
	mu            sync.Mutex
	listings      map[string]string
	creates       []map[string]any
	updates       map[string]map[string]any
	writeStatus   int
	writeResponse string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	path := r.URL.Path
	switch {
	case r.Method == http.MethodGet && strings.HasPrefix(path, "/api/listing/get/"):
		body, ok := f.listings[strings.TrimPrefix(path, "/api/listing/get/")]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"success":false,"message":"Listing not found"}`)
			return
		}
		_, _ = io.WriteString(w, body)
	case r.Method == http.MethodPost && path == "/api/listing/create":
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		f.creates = append(f.creates, body)
		f.respondWrite(w, "new123")
	case r.Method == http.MethodPost && strings.HasPrefix(path, "/api/listing/update/"):
		id := strings.TrimPrefix(path, "/api/listing/update/")
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		if f.updates == nil {
			f.updates = map[string]map[string]any{}
		}
		f.updates[id] = body
		f.respondWrite(w, id)
	default:
		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{}`)
	}
}

func (f *fakeAPI) respondWrite(w http.ResponseWriter, id string) {
	if f.writeResponse != "" {
		status := f.writeStatus
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, f.writeResponse)
		return
	}
	_, _ = fmt.Fprintf(w, `{"_id":%q}`, id)
}

type cliTestEnv struct {
	cfg        *config.Config
	api        *fakeAPI
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	for _, key := range []string{"LISTWISE_API_URL", "LISTWISE_API_TOKEN", "LISTWISE_ROLE", "LISTWISE_USER_ID"} {
		t.Setenv(key, "")
	}
	t.Setenv("LISTWISE_ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))

	fake := &fakeAPI{listings: map[string]string{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	opts = append([]testsupport.ConfigOption{testsupport.WithAPIURL(srv.URL), testsupport.WithStubbedFFprobe("12.5")}, opts...)
	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		api:        fake,
		configPath: configPath,
		baseDir:    base,
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// mustRun runs the CLI and fails the test on error.
func (env *cliTestEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, _, err := runCLI(t, args, env.configPath)
	if err != nil {
		t.Fatalf("listwise %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func (env *cliTestEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	out, _, err := runCLI(t, args, env.configPath)
	return out, err
}

// showJSON returns the decoded `show --json` view of the selected session.
func (env *cliTestEnv) showJSON(t *testing.T, extra ...string) sessionView {
	t.Helper()
	out := env.mustRun(t, append([]string{"show", "--json"}, extra...)...)
	var view sessionView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode show output: %v\n%s", err, out)
	}
	return view
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(`[api]
base_url = %q
token = %q

[account]
role = %q
user_id = %q

[media]
ffprobe_binary = %q

[paths]
data_dir = %q
log_dir = %q

[logging]
level = "error"
`,
		cfg.API.BaseURL,
		cfg.API.Token,
		cfg.Account.Role,
		cfg.Account.UserID,
		cfg.Media.FFprobeBinary,
		cfg.Paths.DataDir,
		cfg.Paths.LogDir,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
