// Package daemon backgrounds the server process for the network
// transports and knows how to stop a running instance.
package daemon

import (
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mobile-next/mobile-mcp/server"
	godaemon "github.com/sevlyar/go-daemon"
)

// DaemonEnvVar marks a daemon child process.
const DaemonEnvVar = "MOBILEMCP_DAEMON_CHILD"

// Daemonize detaches the process. A nil returned process means this is
// the child; non-nil means this is the parent and the child is running.
func Daemonize() (*os.Process, error) {
	ctx := &godaemon.Context{
		WorkDir: "/",
		Umask:   027,
		Args:    os.Args,
		Env:     append(os.Environ(), fmt.Sprintf("%s=1", DaemonEnvVar)),
	}

	child, err := ctx.Reborn()
	if err != nil {
		return nil, fmt.Errorf("failed to daemonize: %w", err)
	}

	return child, nil
}

// IsChild reports whether this process is the daemon child.
func IsChild() bool {
	return os.Getenv(DaemonEnvVar) == "1"
}

// KillServer asks a running server to shut down via its shutdown
// route, presenting the stored bearer token when one is configured.
func KillServer(addr string) error {
	if !strings.Contains(addr, ":") {
		if _, err := strconv.Atoi(addr); err == nil {
			addr = ":" + addr
		}
	}

	if strings.HasPrefix(addr, ":") {
		addr = "localhost" + addr
	}

	req, err := http.NewRequest(http.MethodPost, "http://"+addr+"/shutdown", nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if token := server.StoredToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		if strings.Contains(err.Error(), "connection refused") {
			return fmt.Errorf("server is not running on %s", addr)
		}
		return fmt.Errorf("failed to connect to server: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return fmt.Errorf("server returned error: %s", resp.Status)
	}

	return resp.Body.Close()
}
