package preflight

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"listwise/internal/api"
	"listwise/internal/config"
	"listwise/internal/logging"
)

const apiCheckTimeout = 5 * time.Second

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckBinary verifies that command resolves to an executable.
func CheckBinary(name, command, purpose string) Result {
	command = strings.TrimSpace(command)
	if command == "" {
		return Result{Name: name, Detail: "command not configured"}
	}
	resolved, err := exec.LookPath(command)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("binary %q not found (%s)", command, purpose)}
	}
	return Result{Name: name, Passed: true, Detail: resolved}
}

// CheckCredentials verifies that a token and user reference are configured.
// Neither is verified against the server.
func CheckCredentials(cfg *config.Config) Result {
	const name = "Credentials"
	if strings.TrimSpace(cfg.API.Token) == "" {
		return Result{Name: name, Detail: "api token missing (set api.token or LISTWISE_API_TOKEN)"}
	}
	if strings.TrimSpace(cfg.Account.UserID) == "" {
		return Result{Name: name, Detail: "account.user_id missing"}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("role %s, cookie %s", cfg.Account.Role, cfg.API.AuthCookie)}
}

// CheckAPI verifies the listing API answers at all. It uses a 5-second
// timeout and a single attempt.
func CheckAPI(ctx context.Context, cfg *config.Config) Result {
	const name = "Listing API"

	checkCtx, cancel := context.WithTimeout(ctx, apiCheckTimeout)
	defer cancel()

	status, err := api.New(cfg, logging.NewNop()).Ping(checkCtx)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s unreachable (%v)", cfg.API.BaseURL, err)}
	}
	if status >= http.StatusInternalServerError {
		return Result{Name: name, Detail: fmt.Sprintf("%s answered %d", cfg.API.BaseURL, status)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s reachable (%d)", cfg.API.BaseURL, status)}
}
