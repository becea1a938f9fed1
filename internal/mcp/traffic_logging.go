package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// trafficLoggingMiddleware logs one debug line per MCP exchange, attributed
// to the contest session that served it. Tool calls also record the tool
// name and whether the result was a tool error.
func trafficLoggingMiddleware(logger *slog.Logger, direction string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			if logger == nil || !logger.Enabled(ctx, slog.LevelDebug) {
				return next(ctx, method, req)
			}

			start := time.Now()
			result, err := next(ctx, method, req)

			attrs := []any{
				"direction", direction,
				"method", method,
				"client_id", trafficClientID(ctx, req),
				"elapsed", time.Since(start),
			}
			if call, ok := req.(*sdkmcp.CallToolRequest); ok && call.Params != nil {
				attrs = append(attrs, "tool", call.Params.Name, "args", string(call.Params.Arguments))
				if res, ok := result.(*sdkmcp.CallToolResult); ok && res != nil {
					attrs = append(attrs, "tool_error", res.IsError)
				}
			} else if !strings.HasPrefix(method, "notifications/") {
				attrs = append(attrs, "params", formatPayload(safeParams(req)))
			}
			if err != nil {
				attrs = append(attrs, "error", err)
			}
			logger.Debug("mcp traffic", attrs...)

			return result, err
		}
	}
}

// trafficClientID prefers the id sessionMiddleware stored; outbound traffic
// never passes through it.
func trafficClientID(ctx context.Context, req sdkmcp.Request) string {
	if v, _ := ctx.Value(clientIDKey).(string); v != "" {
		return v
	}
	if id := safeSessionID(req); id != "" {
		return id
	}
	return defaultClientID
}

func safeSessionID(req sdkmcp.Request) (id string) {
	if req == nil {
		return ""
	}
	defer func() { recover() }()
	if session := req.GetSession(); session != nil {
		id = session.ID()
	}
	return id
}

func safeParams(req sdkmcp.Request) (params any) {
	if req == nil {
		return nil
	}
	defer func() { recover() }()
	return req.GetParams()
}

func formatPayload(payload any) string {
	if payload == nil {
		return "<nil>"
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%T", payload)
	}
	return string(data)
}
