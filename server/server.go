// Package server is the MCP dispatch layer: it registers every device
// capability as a named tool and serves them over one of the supported
// transports.
package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/mobile-next/mobile-mcp/devices"
	"github.com/mobile-next/mobile-mcp/utils"
)

const (
	serverName    = "mobile-mcp"
	serverVersion = "1.0.0"

	ReadTimeout = 10 * time.Second
	IdleTimeout = 120 * time.Second
)

// Config selects the transport and its listening behavior. Exactly one
// transport is active per process.
type Config struct {
	Transport  string // "stdio", "sse" or "http"
	ListenAddr string
	EnableCORS bool
}

type Server struct {
	manager *devices.Manager
	mcp     *mcpserver.MCPServer

	// shutdownCh is closed by the /shutdown route to stop a network
	// transport remotely; the Once keeps repeated requests harmless
	shutdownCh   chan struct{}
	shutdownOnce sync.Once
}

func NewServer() *Server {
	s := &Server{
		manager:    devices.NewManager(),
		shutdownCh: make(chan struct{}),
	}

	s.mcp = mcpserver.NewMCPServer(serverName, serverVersion)
	s.registerTools()
	return s
}

func (s *Server) Serve(cfg Config) error {
	switch cfg.Transport {
	case "stdio", "":
		return mcpserver.ServeStdio(s.mcp)

	case "sse":
		return s.serveHTTP(cfg, mcpserver.NewSSEServer(s.mcp))

	case "http":
		return s.serveHTTP(cfg, mcpserver.NewStreamableHTTPServer(s.mcp))

	default:
		return fmt.Errorf("unsupported transport: %q, use stdio, sse or http", cfg.Transport)
	}
}

// serveHTTP runs one of the network transports with the shutdown route
// and middleware mounted around the MCP handler.
func (s *Server) serveHTTP(cfg Config, mcpHandler http.Handler) error {
	addr, err := normalizeListenAddr(cfg.ListenAddr)
	if err != nil {
		return err
	}

	mux := http.NewServeMux()
	mux.Handle("/", mcpHandler)
	mux.HandleFunc("/shutdown", s.handleShutdown)

	var handler http.Handler = mux
	handler = bearerAuthMiddleware(handler)
	if cfg.EnableCORS {
		handler = corsMiddleware(handler)
	}

	httpServer := &http.Server{
		Addr:        addr,
		Handler:     handler,
		ReadTimeout: ReadTimeout,
		IdleTimeout: IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		utils.Info("Starting %s server on http://%s", cfg.Transport, addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err

	case <-s.shutdownCh:
		utils.Info("Shutdown requested, stopping server")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(ctx)
	}
}

func (s *Server) handleShutdown(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))

	s.shutdownOnce.Do(func() {
		close(s.shutdownCh)
	})
}

// normalizeListenAddr accepts "host:port", ":port" or a bare port.
func normalizeListenAddr(addr string) (string, error) {
	if addr == "" {
		return "", fmt.Errorf("listen address must not be empty")
	}

	if !strings.Contains(addr, ":") {
		port, err := strconv.Atoi(addr)
		if err != nil {
			return "", fmt.Errorf("invalid port: %v", err)
		}
		return fmt.Sprintf(":%d", port), nil
	}

	return addr, nil
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
