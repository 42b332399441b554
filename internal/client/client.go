// Package client is the HTTP client the CLI uses to talk to a running
// daemon's API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"marquee/internal/config"
	"marquee/internal/daemon"
	"marquee/internal/history"
	"marquee/internal/settings"
	"marquee/internal/slides"
	syncpkg "marquee/internal/sync"
)

// HTTPDoer describes the HTTP client used for daemon requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client issues requests against the daemon API.
type Client struct {
	baseURL string
	doer    HTTPDoer
}

// New constructs a client for the configured bind address.
func New(cfg *config.Config) *Client {
	return NewWith("http://"+strings.TrimSpace(cfg.Paths.APIBind), &http.Client{Timeout: 30 * time.Second})
}

// NewWith constructs a client with an explicit base URL and HTTP doer.
func NewWith(baseURL string, doer HTTPDoer) *Client {
	return &Client{
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		doer:    doer,
	}
}

// Status fetches the daemon runtime snapshot.
func (c *Client) Status(ctx context.Context) (*daemon.Status, error) {
	var status daemon.Status
	if err := c.get(ctx, "/api/status", &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Version fetches the daemon build version.
func (c *Client) Version(ctx context.Context) (string, error) {
	var payload map[string]string
	if err := c.get(ctx, "/api/version", &payload); err != nil {
		return "", err
	}
	return payload["version"], nil
}

// TriggerSync asks the daemon to run one cycle now.
func (c *Client) TriggerSync(ctx context.Context) (*syncpkg.Report, error) {
	var report syncpkg.Report
	if err := c.do(ctx, http.MethodPost, "/api/sync", nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// Playlist fetches the currently published playlist.
func (c *Client) Playlist(ctx context.Context) ([]slides.Slide, error) {
	var list []slides.Slide
	if err := c.get(ctx, "/api/playlist", &list); err != nil {
		return nil, err
	}
	return list, nil
}

// History fetches recent sync runs, newest first.
func (c *Client) History(ctx context.Context, limit int) ([]history.Run, error) {
	path := "/api/history"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var runs []history.Run
	if err := c.get(ctx, path, &runs); err != nil {
		return nil, err
	}
	return runs, nil
}

// Settings fetches the effective settings document.
func (c *Client) Settings(ctx context.Context) (settings.Document, error) {
	var doc settings.Document
	if err := c.get(ctx, "/api/settings", &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// UpdateSettings sends a partial document and returns the merged result.
func (c *Client) UpdateSettings(ctx context.Context, partial settings.Document) (settings.Document, error) {
	body, err := json.Marshal(partial)
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	var doc settings.Document
	if err := c.do(ctx, http.MethodPost, "/api/settings", body, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// SettingsBackup fetches the persisted settings file verbatim.
func (c *Client) SettingsBackup(ctx context.Context) ([]byte, error) {
	resp, err := c.request(ctx, http.MethodGet, "/api/settings/backup", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, responseError(resp)
	}
	return io.ReadAll(resp.Body)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	resp, err := c.request(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return responseError(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) request(ctx context.Context, method, path string, body []byte) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.doer.Do(req)
	if err != nil {
		return nil, fmt.Errorf("daemon unreachable: %w", err)
	}
	return resp, nil
}

func responseError(resp *http.Response) error {
	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(snippet, &payload); err == nil && payload.Error != "" {
		return fmt.Errorf("daemon: %s (status %d)", payload.Error, resp.StatusCode)
	}
	return fmt.Errorf("daemon: status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
}
