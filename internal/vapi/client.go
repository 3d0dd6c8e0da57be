// Package vapi is the HTTP client for the remote voice-API service. The sync
// layer depends only on the Fetcher interface; this client is its production
// implementation.
package vapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/d-rollins/vapi-calls-tui/internal/logger"
	"github.com/d-rollins/vapi-calls-tui/internal/models"
)

// Fetcher is the remote fetch collaborator contract used by the sync layer.
type Fetcher interface {
	// FetchCall retrieves one call by id.
	FetchCall(ctx context.Context, id string) (*models.Call, error)

	// FetchCallIndex retrieves the ids of calls visible remotely. The
	// remote index is authoritative for the id set only; record contents
	// come from FetchCall.
	FetchCallIndex(ctx context.Context) ([]string, error)
}

// Config holds client configuration.
type Config struct {
	APIKey       string
	BaseURL      string
	LookbackDays int
	FetchLimit   int
	Timeout      time.Duration
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:      "https://api.vapi.ai",
		LookbackDays: 365,
		FetchLimit:   1000,
		Timeout:      30 * time.Second,
	}
}

// Client talks to the voice-API service over HTTP.
type Client struct {
	httpClient *http.Client
	config     Config
}

// NewClient creates a new API client.
func NewClient(config Config) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DefaultConfig().BaseURL
	}
	if config.Timeout == 0 {
		config.Timeout = DefaultConfig().Timeout
	}
	if config.FetchLimit == 0 {
		config.FetchLimit = DefaultConfig().FetchLimit
	}
	if config.LookbackDays == 0 {
		config.LookbackDays = DefaultConfig().LookbackDays
	}

	return &Client{
		httpClient: &http.Client{Timeout: config.Timeout},
		config:     config,
	}
}

// FetchCall retrieves a single call by id.
func (c *Client) FetchCall(ctx context.Context, id string) (*models.Call, error) {
	const op = "fetch call"

	body, err := c.get(ctx, op, fmt.Sprintf("%s/call/%s", c.config.BaseURL, id), nil)
	if err != nil {
		return nil, err
	}

	var raw rawCall
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &FetchError{Op: op, Kind: KindPermanent, Err: fmt.Errorf("failed to parse response: %w", err)}
	}

	call := parseCall(&raw)
	if err := call.Validate(); err != nil {
		return nil, &FetchError{Op: op, Kind: KindPermanent, Err: err}
	}

	return &call, nil
}

// FetchCallIndex retrieves the ids of all calls within the lookback window.
func (c *Client) FetchCallIndex(ctx context.Context) ([]string, error) {
	const op = "fetch call index"

	headers := map[string]string{
		"createdAtGE": time.Now().AddDate(0, 0, -c.config.LookbackDays).Format(time.RFC3339),
		"limit":       fmt.Sprintf("%d", c.config.FetchLimit),
	}

	body, err := c.get(ctx, op, c.config.BaseURL+"/call", headers)
	if err != nil {
		return nil, err
	}

	var raws []rawCall
	if err := json.Unmarshal(body, &raws); err != nil {
		return nil, &FetchError{Op: op, Kind: KindPermanent, Err: fmt.Errorf("failed to parse response: %w", err)}
	}

	ids := make([]string, 0, len(raws))
	for i := range raws {
		if raws[i].ID != "" {
			ids = append(ids, raws[i].ID)
		}
	}

	logger.Debug("fetched call index", "count", len(ids))
	return ids, nil
}

// get performs an authorized GET and returns the body, classifying failures.
func (c *Client) get(ctx context.Context, op, url string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{Op: op, Kind: KindPermanent, Err: err}
	}
	req.Header.Set("Authorization", c.config.APIKey)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, transportError(op, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("failed to close response body", "error", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(op, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &FetchError{
			Op:         op,
			Kind:       classifyStatus(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%s", truncateBody(body)),
		}
	}

	return body, nil
}

// truncateBody keeps error messages readable when the server returns HTML or
// a long payload.
func truncateBody(body []byte) string {
	const max = 200
	if len(body) > max {
		return string(body[:max]) + "..."
	}
	return string(body)
}
