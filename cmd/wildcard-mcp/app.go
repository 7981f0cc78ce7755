package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/acolita/wildcard-mcp/internal/catalog"
	"github.com/acolita/wildcard-mcp/internal/config"
	"github.com/acolita/wildcard-mcp/internal/logging"
	"github.com/acolita/wildcard-mcp/internal/mcp"
	"github.com/acolita/wildcard-mcp/internal/ports"
	"github.com/urfave/cli/v3"
)

const (
	flagConfig    = "config"
	flagLogLevel  = "log-level"
	flagLogFormat = "log-format"
	flagTransport = "transport"
	flagHost      = "host"
	flagPort      = "port"
)

func newApp() *cli.Command {
	return &cli.Command{
		Name:    "wildcard-mcp",
		Usage:   "serve random selections from word lists over MCP",
		Version: fmt.Sprintf("%s (built %s, commit %s)", Version, BuildTime, GitCommit),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagConfig,
				Aliases: []string{"c"},
				Usage:   "path to the config file (default: $" + config.EnvConfigPath + " or " + config.DefaultConfigPath + ", then ./" + config.FileName + ")",
			},
			&cli.StringFlag{
				Name:    flagLogLevel,
				Usage:   "log level: debug, info, warn or error",
				Value:   "info",
				Sources: cli.EnvVars("WILDCARD_LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    flagLogFormat,
				Usage:   "log format: json or text",
				Value:   logging.FormatJSON,
				Sources: cli.EnvVars("WILDCARD_LOG_FORMAT"),
			},
			&cli.StringFlag{
				Name:    flagTransport,
				Aliases: []string{"t"},
				Usage:   "MCP transport: streamable-http, sse or stdio",
				Value:   string(mcp.TransportStreamableHTTP),
				Sources: cli.EnvVars("WILDCARD_TRANSPORT"),
			},
			&cli.StringFlag{
				Name:    flagHost,
				Usage:   "listen host for HTTP transports",
				Value:   mcp.DefaultHost,
				Sources: cli.EnvVars("WILDCARD_HOST"),
			},
			&cli.IntFlag{
				Name:    flagPort,
				Aliases: []string{"p"},
				Usage:   "listen port for HTTP transports",
				Value:   mcp.DefaultPort,
				Sources: cli.EnvVars("WILDCARD_PORT"),
			},
		},
		Before: func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
			logging.Setup(cmd.String(flagLogLevel), cmd.String(flagLogFormat))
			return ctx, nil
		},
		Action: serveAction,
		Commands: []*cli.Command{
			serveCommand(),
			checkCommand(),
			rollCommand(),
		},
	}
}

// resolveConfigPath returns the config file to load. An explicit --config is
// used as given; otherwise the standard search order applies.
func resolveConfigPath(cmd *cli.Command, fsys ports.FileSystem) (string, error) {
	if explicit := cmd.String(flagConfig); explicit != "" {
		return explicit, nil
	}
	return config.Locate(config.SearchPaths("", fsys, installDir()), fsys)
}

// loadCatalog runs the startup sequence shared by every command: locate and
// load the config, then load every category it names.
func loadCatalog(cmd *cli.Command, fsys ports.FileSystem) (*config.Config, *catalog.Catalog, error) {
	path, err := resolveConfigPath(cmd, fsys)
	if err != nil {
		return nil, nil, err
	}

	cfg, err := config.Load(path, fsys)
	if err != nil {
		return nil, nil, err
	}

	cat, err := catalog.Load(cfg, cfg.Dir(), fsys)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, cat, nil
}

// installDir is the directory holding the running binary, or empty when it
// cannot be determined.
func installDir() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}
