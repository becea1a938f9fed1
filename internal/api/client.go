// Package api is the HTTP client for the remote contest API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/rpggio/hackvote/internal/domain/investor"
	"github.com/rpggio/hackvote/internal/domain/project"
	"github.com/rpggio/hackvote/internal/domain/stage"
	"github.com/rpggio/hackvote/internal/transport"
)

// Client calls the remote API. Requests are never retried.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client rooted at baseURL. A nil httpClient uses
// http.DefaultClient.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Stage fetches the current contest stage.
func (c *Client) Stage(ctx context.Context) (stage.Info, error) {
	var info stage.Info
	if _, err := c.do(ctx, http.MethodGet, "/stage", nil, &info); err != nil {
		return stage.Info{}, err
	}
	info.Code = stage.FromCode(string(info.Code))
	return info, nil
}

// Projects fetches every project with server-side rank annotations.
func (c *Client) Projects(ctx context.Context) ([]project.Project, error) {
	var projects []project.Project
	if _, err := c.do(ctx, http.MethodGet, "/projects", nil, &projects); err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []project.Project{}
	}
	return projects, nil
}

// Project fetches one project by id.
func (c *Client) Project(ctx context.Context, id int64) (*project.Project, error) {
	var p project.Project
	if _, err := c.do(ctx, http.MethodGet, "/projects/"+strconv.FormatInt(id, 10), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Login authenticates an investor.
func (c *Client) Login(ctx context.Context, username, password string) (*investor.Investor, error) {
	var inv investor.Investor
	body := transport.LoginRequest{Username: username, Password: password}
	if _, err := c.do(ctx, http.MethodPost, "/login", body, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// Investor fetches the authoritative investor record.
func (c *Client) Investor(ctx context.Context, username string) (*investor.Investor, error) {
	var inv investor.Investor
	if _, err := c.do(ctx, http.MethodGet, "/investor/"+url.PathEscape(username), nil, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// Invest submits an investment and returns the server's message.
func (c *Client) Invest(ctx context.Context, req transport.InvestRequest) (string, error) {
	return c.do(ctx, http.MethodPost, "/invest", req, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) (string, error) {
	op := method + " " + path

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return "", fmt.Errorf("encode %s: %w", op, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return "", &transport.TransportFailure{Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &transport.TransportFailure{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &transport.TransportFailure{Op: op, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	msg, err := transport.Decode(resp.Body, out)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return msg, nil
}
