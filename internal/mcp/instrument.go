package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/acolita/wildcard-mcp/internal/metrics"
	"github.com/acolita/wildcard-mcp/internal/tracing"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// instrument wraps a tool handler with panic recovery, tracing, metrics and
// logging. A recovered panic becomes a tool error result so the session
// survives it.
func (s *Server) instrument(name string, handler server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
		ctx, span := tracing.StartSpan(ctx, "mcp.tool."+name)
		defer span.End()

		span.SetAttributes(
			attribute.String("mcp.tool.name", name),
			attribute.Bool("mcp.tool.readonly", true),
		)

		metrics.RequestInFlight.WithLabelValues(name).Inc()
		defer metrics.RequestInFlight.WithLabelValues(name).Dec()

		start := time.Now()
		defer func() {
			if rec := recover(); rec != nil {
				metrics.PanicsRecovered.WithLabelValues(name).Inc()
				slog.Error("panic recovered",
					slog.String("tool", name),
					slog.Any("panic", rec),
					slog.String("stack", string(debug.Stack())),
				)
				span.SetAttributes(attribute.String("mcp.tool.panic", fmt.Sprint(rec)))
				result, err = mcp.NewToolResultError(fmt.Sprintf(errInternal, name)), nil
			}

			duration := time.Since(start).Seconds()
			span.SetAttributes(attribute.Float64("mcp.tool.duration_seconds", duration))

			failed := err != nil || (result != nil && result.IsError)
			metrics.RecordRequest(name, duration, !failed)

			switch {
			case err != nil:
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			case failed:
				span.SetStatus(codes.Error, "tool error")
			default:
				span.SetStatus(codes.Ok, "")
			}

			slog.Debug("tool call finished",
				slog.String("tool", name),
				slog.Float64("duration_seconds", duration),
				slog.Bool("error", failed),
			)
		}()

		return handler(ctx, req)
	}
}
