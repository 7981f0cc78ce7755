package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/acolita/wildcard-mcp/internal/metrics"
	"github.com/acolita/wildcard-mcp/internal/randomizer"
	"github.com/acolita/wildcard-mcp/internal/tracing"
	"github.com/mark3labs/mcp-go/mcp"
	"go.opentelemetry.io/otel/trace"
)

// registerTools registers all MCP tools with the server.
func (s *Server) registerTools() {
	s.mcpServer.AddTool(randomizeTool(s.catalog.Names()), s.instrument(toolRandomize, s.handleRandomize))
}

// Tool definitions

func randomizeTool(categories []string) mcp.Tool {
	return mcp.NewTool(toolRandomize,
		mcp.WithDescription(descRandomize),
		mcp.WithTitleAnnotation(titleRandomize),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(false),
		mcp.WithOpenWorldHintAnnotation(false),
		mcp.WithString(paramCategory,
			mcp.Required(),
			mcp.Description(descCategoryPrefix+strings.Join(categories, ", ")),
			mcp.Enum(categories...),
		),
		mcp.WithNumber(paramCount,
			mcp.Description(descCount),
			mcp.DefaultNumber(1),
			mcp.Min(1),
		),
	)
}

// Tool handlers

func (s *Server) handleRandomize(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category := mcp.ParseString(req, paramCategory, "")
	if category == "" {
		return mcp.NewToolResultError(errCategoryRequired), nil
	}

	count, err := parseCount(req.GetArguments())
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	span := trace.SpanFromContext(ctx)

	sel, err := s.randomizer.Sample(category, count)
	if err != nil {
		var unknown *randomizer.UnknownCategoryError
		if errors.As(err, &unknown) {
			metrics.UnknownCategoryRequests.Inc()
		}
		tracing.RecordError(span, err)
		slog.Warn("randomize rejected",
			slog.String("category", category),
			slog.Int("count", count),
			slog.String("error", err.Error()),
		)
		return mcp.NewToolResultError(err.Error()), nil
	}

	metrics.RecordDraw(sel.Category, len(sel.Items), sel.Exceeded)
	tracing.AddDrawAttributes(span, sel.Category, sel.Requested, sel.Available, sel.Exceeded)

	slog.Info("randomize",
		slog.String("category", sel.Category),
		slog.Int("count", sel.Requested),
		slog.Int("available", sel.Available),
		slog.Bool("exceeded", sel.Exceeded),
	)

	return mcp.NewToolResultText(sel.Text()), nil
}

// maxCount is the largest count that survives the float64 round trip.
const maxCount = 1 << 53

// parseCount reads the optional count argument. JSON clients send numbers
// as float64; a value with a fractional part is rejected rather than
// truncated.
func parseCount(args map[string]any) (int, error) {
	raw, ok := args[paramCount]
	if !ok || raw == nil {
		return 1, nil
	}

	var n int
	switch v := raw.(type) {
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return 0, errors.New(errCountInteger)
		}
		if v < 1 {
			return 0, errors.New(errCountMinimum)
		}
		if v > maxCount {
			return 0, errors.New(errCountTooLarge)
		}
		n = int(v)
	case int:
		n = v
	case int64:
		n = int(v)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, errors.New(errCountInteger)
		}
		n = parsed
	default:
		return 0, fmt.Errorf("%s, got %T", errCountInteger, raw)
	}

	if n < 1 {
		return 0, errors.New(errCountMinimum)
	}
	return n, nil
}
