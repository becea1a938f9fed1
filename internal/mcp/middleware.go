package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type contextKey int

const clientIDKey contextKey = iota

// defaultClientID keys the single contest session of stdio clients, which
// carry no transport session id.
const defaultClientID = "default"

// getSessionID returns the client id the request was attributed to.
func getSessionID(ctx context.Context) string {
	if v, _ := ctx.Value(clientIDKey).(string); v != "" {
		return v
	}
	return defaultClientID
}

// sessionMiddleware attributes each request to a contest session. The
// transport session id (the Mcp-Session-Id of streamable HTTP) always wins;
// _meta.client_id is read only when the transport has no session of its
// own, so an HTTP client cannot name another client's session.
func sessionMiddleware() sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			clientID := transportSessionID(req)
			if clientID == "" {
				clientID = metaClientID(req)
			}
			if clientID != "" {
				ctx = context.WithValue(ctx, clientIDKey, clientID)
			}
			return next(ctx, method, req)
		}
	}
}

func transportSessionID(req sdkmcp.Request) string {
	if id := safeSessionID(req); id != "" {
		return id
	}
	if extra := req.GetExtra(); extra != nil && extra.Header != nil {
		return extra.Header.Get("Mcp-Session-Id")
	}
	return ""
}

// metaClientID reads _meta.client_id. Notifications such as "initialized"
// may carry nil params, and GetMeta panics on a nil underlying value.
func metaClientID(req sdkmcp.Request) (id string) {
	params := req.GetParams()
	if params == nil {
		return ""
	}
	defer func() { recover() }()
	if meta := params.GetMeta(); meta != nil {
		id, _ = meta["client_id"].(string)
	}
	return id
}

// releaseOnClose drops the contest session of ss once its transport
// session ends. Sessions without a transport id share the stdio default,
// which lives as long as the process.
func releaseOnClose(release func(id string)) func(context.Context, *sdkmcp.InitializedRequest) {
	return func(_ context.Context, req *sdkmcp.InitializedRequest) {
		if req == nil || req.Session == nil {
			return
		}
		ss := req.Session
		id := ss.ID()
		if id == "" {
			return
		}
		go func() {
			_ = ss.Wait()
			release(id)
		}()
	}
}
