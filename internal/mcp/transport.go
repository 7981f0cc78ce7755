package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Transport selects how the server talks to clients.
type Transport string

const (
	TransportStreamableHTTP Transport = "streamable-http"
	TransportSSE            Transport = "sse"
	TransportStdio          Transport = "stdio"
)

// HTTP endpoints.
const (
	EndpointMCP     = "/mcp"
	EndpointSSE     = "/sse"
	EndpointMessage = "/message"
	EndpointMetrics = "/metrics"
	EndpointHealth  = "/healthz"
)

const (
	DefaultHost = "0.0.0.0"
	DefaultPort = 8000

	shutdownTimeout = 10 * time.Second
)

// ParseTransport maps a transport name to a Transport. An empty name selects
// streamable HTTP.
func ParseTransport(name string) (Transport, error) {
	switch Transport(strings.ToLower(strings.TrimSpace(name))) {
	case "", TransportStreamableHTTP, "http":
		return TransportStreamableHTTP, nil
	case TransportSSE:
		return TransportSSE, nil
	case TransportStdio:
		return TransportStdio, nil
	default:
		return "", fmt.Errorf("unknown transport %q (want %s, %s or %s)",
			name, TransportStreamableHTTP, TransportSSE, TransportStdio)
	}
}

// TransportConfig describes where the server listens.
type TransportConfig struct {
	Transport Transport
	Host      string
	Port      int
}

// Addr returns the listen address for the HTTP transports. Port 0 picks a
// free port.
func (c TransportConfig) Addr() string {
	host := c.Host
	if host == "" {
		host = DefaultHost
	}
	return net.JoinHostPort(host, strconv.Itoa(c.Port))
}

// Run serves MCP on the configured transport until ctx is done.
func (s *Server) Run(ctx context.Context, cfg TransportConfig) error {
	if cfg.Transport == TransportStdio {
		slog.Info("starting MCP server on stdio transport")
		return server.NewStdioServer(s.mcpServer).Listen(ctx, os.Stdin, os.Stdout)
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	handler, shutdown, err := s.httpHandler(cfg.Transport, srv)
	if err != nil {
		return err
	}
	srv.Handler = handler

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting MCP server",
			slog.String("transport", string(cfg.Transport)),
			slog.String("addr", srv.Addr),
		)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", srv.Addr, err)
	case <-ctx.Done():
	}

	slog.Info("shutting down MCP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// httpHandler builds the routes for an HTTP transport. The returned shutdown
// function closes open MCP sessions and then srv.
func (s *Server) httpHandler(t Transport, srv *http.Server) (http.Handler, func(context.Context) error, error) {
	mux := http.NewServeMux()
	var shutdown func(context.Context) error

	switch t {
	case TransportStreamableHTTP:
		h := server.NewStreamableHTTPServer(s.mcpServer,
			server.WithEndpointPath(EndpointMCP),
			server.WithStreamableHTTPServer(srv),
		)
		mux.Handle(EndpointMCP, h)
		shutdown = h.Shutdown
	case TransportSSE:
		h := server.NewSSEServer(s.mcpServer,
			server.WithSSEEndpoint(EndpointSSE),
			server.WithMessageEndpoint(EndpointMessage),
			server.WithHTTPServer(srv),
		)
		mux.Handle(EndpointSSE, h.SSEHandler())
		mux.Handle(EndpointMessage, h.MessageHandler())
		shutdown = h.Shutdown
	default:
		return nil, nil, fmt.Errorf("transport %q is not served over HTTP", t)
	}

	mux.Handle(EndpointMetrics, promhttp.Handler())
	mux.HandleFunc(EndpointHealth, s.handleHealth)

	return mux, shutdown, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "ok %d categories\n", s.catalog.Len())
}
