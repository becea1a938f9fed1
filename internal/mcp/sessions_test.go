package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rpggio/hackvote/internal/api"
	"github.com/rpggio/hackvote/internal/domain/session"
	"github.com/rpggio/hackvote/internal/domain/stage"
	"github.com/rpggio/hackvote/internal/testserver"
	"github.com/stretchr/testify/require"
)

type httpFixture struct {
	contest  *testserver.TestServer
	registry *session.Registry
	url      string
}

func newHTTPFixture(t *testing.T) *httpFixture {
	t.Helper()
	contest := testserver.New(t)
	contest.SetStage(stage.Investment)

	client := api.New(contest.URL(), contest.Server.Client())
	registry := session.NewRegistry(func() *session.Session {
		return session.New(client, session.Options{})
	})
	server := NewServer(Config{Sessions: registry})

	handler := sdkmcp.NewStreamableHTTPHandler(
		func(*http.Request) *sdkmcp.Server { return server },
		&sdkmcp.StreamableHTTPOptions{SessionTimeout: time.Minute},
	)
	hs := httptest.NewServer(handler)
	t.Cleanup(hs.Close)

	return &httpFixture{contest: contest, registry: registry, url: hs.URL}
}

func (f *httpFixture) connect(t *testing.T, name string) *sdkmcp.ClientSession {
	t.Helper()
	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: name, Version: "1.0.0"}, nil)
	cs, err := client.Connect(context.Background(), &sdkmcp.StreamableClientTransport{Endpoint: f.url}, nil)
	require.NoError(t, err)
	require.NotEmpty(t, cs.ID())
	return cs
}

func call(t *testing.T, cs *sdkmcp.ClientSession, params *sdkmcp.CallToolParams) (*sdkmcp.CallToolResult, string) {
	t.Helper()
	result, err := cs.CallTool(context.Background(), params)
	require.NoError(t, err)
	return result, textOf(t, result)
}

func errorCode(t *testing.T, text string) string {
	t.Helper()
	var apiErr APIError
	require.NoError(t, json.Unmarshal([]byte(text), &apiErr))
	return apiErr.Code
}

func TestHTTPClients_CannotShareInvestor(t *testing.T) {
	f := newHTTPFixture(t)
	a := f.connect(t, "client-a")
	t.Cleanup(func() { _ = a.Close() })
	b := f.connect(t, "client-b")
	t.Cleanup(func() { _ = b.Close() })

	result, text := call(t, a, &sdkmcp.CallToolParams{
		Name:      "login",
		Arguments: map[string]any{"username": "1001", "password": testserver.Password},
	})
	require.False(t, result.IsError, text)

	result, text = call(t, b, &sdkmcp.CallToolParams{Name: "get_investor"})
	require.True(t, result.IsError)
	require.Equal(t, "NOT_AUTHENTICATED", errorCode(t, text))

	// Naming A's session in _meta does not move B onto it.
	result, text = call(t, b, &sdkmcp.CallToolParams{
		Meta:      sdkmcp.Meta{"client_id": a.ID()},
		Name:      "invest",
		Arguments: map[string]any{"project_id": 1, "amount": 1},
	})
	require.True(t, result.IsError, text)
	require.Equal(t, "NOT_AUTHENTICATED", errorCode(t, text))

	result, text = call(t, a, &sdkmcp.CallToolParams{
		Name:      "get_investor",
		Arguments: map[string]any{"refresh": true},
	})
	require.False(t, result.IsError, text)
	var resp InvestorResponse
	require.NoError(t, json.Unmarshal([]byte(text), &resp))
	require.Equal(t, int64(100), resp.Investor.RemainingAmount)
	require.Empty(t, resp.Investor.InvestmentHistory)
}

func TestHTTPClients_SessionReleasedOnClose(t *testing.T) {
	f := newHTTPFixture(t)
	a := f.connect(t, "client-a")
	b := f.connect(t, "client-b")
	t.Cleanup(func() { _ = b.Close() })

	for _, cs := range []*sdkmcp.ClientSession{a, b} {
		result, text := call(t, cs, &sdkmcp.CallToolParams{Name: "get_stage"})
		require.False(t, result.IsError, text)
	}
	require.Equal(t, 2, f.registry.Len())

	require.NoError(t, a.Close())
	require.Eventually(t, func() bool { return f.registry.Len() == 1 }, 5*time.Second, 10*time.Millisecond)

	result, text := call(t, b, &sdkmcp.CallToolParams{Name: "get_stage"})
	require.False(t, result.IsError, text)
	require.Equal(t, 1, f.registry.Len())
}

func TestStdioClients_IsolatedByClientID(t *testing.T) {
	cs, ts := connect(t)
	ts.SetStage(stage.Investment)

	result, text := call(t, cs, &sdkmcp.CallToolParams{
		Meta:      sdkmcp.Meta{"client_id": "alice"},
		Name:      "login",
		Arguments: map[string]any{"username": "1002", "password": testserver.Password},
	})
	require.False(t, result.IsError, text)

	result, text = call(t, cs, &sdkmcp.CallToolParams{
		Meta: sdkmcp.Meta{"client_id": "alice"},
		Name: "get_investor",
	})
	require.False(t, result.IsError, text)

	result, text = call(t, cs, &sdkmcp.CallToolParams{
		Meta: sdkmcp.Meta{"client_id": "bob"},
		Name: "get_investor",
	})
	require.True(t, result.IsError)
	require.Equal(t, "NOT_AUTHENTICATED", errorCode(t, text))

	result, text = call(t, cs, &sdkmcp.CallToolParams{Name: "get_investor"})
	require.True(t, result.IsError)
	require.Equal(t, "NOT_AUTHENTICATED", errorCode(t, text))
}
