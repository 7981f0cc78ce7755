// Package mcp implements the MCP protocol server for wildcard-mcp.
package mcp

import (
	"log/slog"

	"github.com/acolita/wildcard-mcp/internal/adapters/realrand"
	"github.com/acolita/wildcard-mcp/internal/catalog"
	"github.com/acolita/wildcard-mcp/internal/metrics"
	"github.com/acolita/wildcard-mcp/internal/ports"
	"github.com/acolita/wildcard-mcp/internal/randomizer"
	"github.com/mark3labs/mcp-go/server"
)

const (
	serverName    = "wildcard-mcp"
	serverVersion = "1.0.0"
)

// Server wraps the MCP server implementation.
type Server struct {
	mcpServer  *server.MCPServer
	catalog    *catalog.Catalog
	randomizer *randomizer.Service
	rng        ports.Random
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithRandom sets the random source used for draws.
func WithRandom(rng ports.Random) ServerOption {
	return func(s *Server) {
		s.rng = rng
	}
}

// NewServer creates a new MCP server serving draws from cat. The catalog
// must not be modified afterwards.
func NewServer(cat *catalog.Catalog, opts ...ServerOption) *Server {
	mcpServer := server.NewMCPServer(
		serverName,
		serverVersion,
		server.WithToolCapabilities(false),
		server.WithLogging(),
	)

	s := &Server{
		mcpServer: mcpServer,
		catalog:   cat,
		rng:       realrand.New(), // default to the process-wide generator
	}

	for _, opt := range opts {
		opt(s)
	}

	s.randomizer = randomizer.New(cat, s.rng)
	s.registerTools()
	s.publishCatalog()

	slog.Info("server ready",
		slog.Int("categories", cat.Len()),
		slog.Int("items", cat.TotalItems()),
	)

	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

func (s *Server) publishCatalog() {
	sizes := make(map[string]int, s.catalog.Len())
	for _, name := range s.catalog.Names() {
		if c, ok := s.catalog.Lookup(name); ok {
			sizes[name] = c.Len()
		}
	}
	metrics.SetCatalog(sizes)
}
