package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"marquee/internal/config"
)

// HTTPDoer describes the HTTP client used by the Notion service.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client queries one Notion database.
type Client struct {
	baseURL    string
	token      string
	version    string
	databaseID string
	client     HTTPDoer
}

// NewClient constructs a client from application configuration.
func NewClient(cfg *config.Config) *Client {
	timeout := time.Duration(cfg.Notion.TimeoutSeconds) * time.Second
	return NewClientWith(
		cfg.Notion.BaseURL,
		cfg.Notion.Token,
		cfg.Notion.Version,
		cfg.Notion.DatabaseID,
		&http.Client{Timeout: timeout},
	)
}

// NewClientWith constructs a client with an explicit HTTP doer (used in tests).
func NewClientWith(baseURL, token, version, databaseID string, doer HTTPDoer) *Client {
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:      strings.TrimSpace(token),
		version:    strings.TrimSpace(version),
		databaseID: strings.TrimSpace(databaseID),
		client:     doer,
	}
}

// Configured reports whether the client holds usable credentials.
func (c *Client) Configured() bool {
	return c != nil && c.token != "" && c.databaseID != ""
}

type queryRequest struct {
	StartCursor string `json:"start_cursor,omitempty"`
	PageSize    int    `json:"page_size,omitempty"`
}

type queryResponse struct {
	Results    []Page `json:"results"`
	HasMore    bool   `json:"has_more"`
	NextCursor string `json:"next_cursor"`
}

// QueryDatabase fetches every page of the configured database, exhausting
// pagination.
func (c *Client) QueryDatabase(ctx context.Context) ([]Page, error) {
	var pages []Page
	cursor := ""
	for {
		batch, err := c.queryPage(ctx, cursor)
		if err != nil {
			return nil, err
		}
		pages = append(pages, batch.Results...)
		if !batch.HasMore || batch.NextCursor == "" {
			return pages, nil
		}
		cursor = batch.NextCursor
	}
}

func (c *Client) queryPage(ctx context.Context, cursor string) (*queryResponse, error) {
	body, err := json.Marshal(queryRequest{StartCursor: cursor, PageSize: 100})
	if err != nil {
		return nil, fmt.Errorf("encode query: %w", err)
	}

	endpoint := fmt.Sprintf("%s/databases/%s/query", c.baseURL, c.databaseID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build query request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", c.version)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("query database: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("query database: status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var decoded queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode query response: %w", err)
	}
	return &decoded, nil
}
