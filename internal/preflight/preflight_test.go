package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"listwise/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckBinary(t *testing.T) {
	present := filepath.Join(t.TempDir(), "ffprobe")
	if err := os.WriteFile(present, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	if result := CheckBinary("FFprobe", present, "test"); !result.Passed || result.Detail != present {
		t.Fatalf("expected stub to resolve, got %#v", result)
	}
	if result := CheckBinary("FFprobe", "clearly-not-present-binary", "test"); result.Passed {
		t.Fatal("expected missing binary to fail")
	}
	if result := CheckBinary("FFprobe", " ", "test"); result.Passed || result.Detail != "command not configured" {
		t.Fatalf("expected unconfigured failure, got %#v", result)
	}
}

func TestCheckCredentials(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if result := CheckCredentials(cfg); !result.Passed {
		t.Fatalf("expected pass, got %s", result.Detail)
	}
	cfg.Account.UserID = ""
	if result := CheckCredentials(cfg); result.Passed {
		t.Fatal("expected missing user id to fail")
	}
	cfg.API.Token = ""
	if result := CheckCredentials(cfg); result.Passed {
		t.Fatal("expected missing token to fail")
	}
}

func TestCheckAPI(t *testing.T) {
	tests := []struct {
		name   string
		status int
		passed bool
	}{
		{"ok", http.StatusOK, true},
		{"not found still reachable", http.StatusNotFound, true},
		{"server error", http.StatusServiceUnavailable, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer srv.Close()
			cfg := testsupport.NewConfig(t, testsupport.WithAPIURL(srv.URL))
			if result := CheckAPI(context.Background(), cfg); result.Passed != tt.passed {
				t.Fatalf("expected passed=%v, got %#v", tt.passed, result)
			}
		})
	}
}

func TestRunAllReportsEveryCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()
	cfg := testsupport.NewConfig(t, testsupport.WithAPIURL(srv.URL), testsupport.WithStubbedFFprobe("1"))
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure dirs: %v", err)
	}

	results := RunAll(context.Background(), cfg)
	if len(results) != 5 {
		t.Fatalf("expected 5 results, got %d", len(results))
	}
	if Failed(results) {
		t.Fatalf("expected all checks to pass, got %#v", results)
	}

	cfg.Media.FFprobeBinary = "clearly-not-present-binary"
	if !Failed(RunAll(context.Background(), cfg)) {
		t.Fatal("expected missing ffprobe to fail the run")
	}
	if RunAll(context.Background(), nil) != nil {
		t.Fatal("expected nil results for nil config")
	}
}
