package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/acolita/wildcard-mcp/internal/adapters/realfs"
	"github.com/acolita/wildcard-mcp/internal/mcp"
	"github.com/acolita/wildcard-mcp/internal/tracing"
	"github.com/urfave/cli/v3"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "load the catalog and serve the randomize tool (default)",
		Action: serveAction,
	}
}

func serveAction(ctx context.Context, cmd *cli.Command) error {
	transport, err := mcp.ParseTransport(cmd.String(flagTransport))
	if err != nil {
		return err
	}

	_, cat, err := loadCatalog(cmd, realfs.New())
	if err != nil {
		return err
	}

	traceCfg := tracing.DefaultConfig()
	traceCfg.ServiceVersion = Version
	shutdownTracing, err := tracing.Setup(ctx, traceCfg)
	if err != nil {
		return err
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			slog.Warn("tracing shutdown failed", slog.String("error", err.Error()))
		}
	}()

	slog.Info("starting wildcard-mcp",
		slog.String("version", Version),
		slog.String("transport", string(transport)),
	)

	server := mcp.NewServer(cat)
	return server.Run(ctx, mcp.TransportConfig{
		Transport: transport,
		Host:      cmd.String(flagHost),
		Port:      cmd.Int(flagPort),
	})
}
