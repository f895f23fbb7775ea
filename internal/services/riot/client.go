// Package riot provides the match-data provider client for riftcoach.
package riot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/riftcoach/internal/config"
)

// Provider error conditions. Callers decide whether a failure is fatal.
var (
	ErrNotFound    = errors.New("riot: match not found")
	ErrRateLimited = errors.New("riot: rate limited")
	ErrUnavailable = errors.New("riot: provider unavailable")
)

// Client is a client for the Riot match-v5 API.
type Client struct {
	apiKey     string
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// NewClient creates a new Riot API client with connection reuse.
func NewClient(cfg *config.Config) *Client {
	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 5,
		IdleConnTimeout:     90 * time.Second,
	}

	return &Client{
		apiKey:  cfg.RiotAPIKey,
		baseURL: cfg.RiotBaseURLMatch,
		timeout: cfg.RiotTimeout,
		httpClient: &http.Client{
			Timeout:   cfg.RiotTimeout,
			Transport: transport,
		},
	}
}

// doRequest makes an HTTP request to the Riot API.
func (c *Client) doRequest(ctx context.Context, reqURL string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("X-Riot-Token", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return io.ReadAll(resp.Body)
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: API error %d: %s", ErrUnavailable, resp.StatusCode, string(body))
	}
}

// FetchMatchSummary gets the participant roster and metadata of a match.
func (c *Client) FetchMatchSummary(ctx context.Context, matchID string) (*MatchSummary, error) {
	reqURL := fmt.Sprintf("%s/lol/match/v5/matches/%s", c.baseURL, matchID)

	body, err := c.doRequest(ctx, reqURL)
	if err != nil {
		log.Printf("Error fetching summary for match %s: %v", matchID, err)
		return nil, err
	}

	var resp MatchSummary
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &resp, nil
}

// FetchTimeline gets timeline data for a match.
func (c *Client) FetchTimeline(ctx context.Context, matchID string) (*TimelineResponse, error) {
	reqURL := fmt.Sprintf("%s/lol/match/v5/matches/%s/timeline", c.baseURL, matchID)

	body, err := c.doRequest(ctx, reqURL)
	if err != nil {
		log.Printf("Error fetching timeline for match %s: %v", matchID, err)
		return nil, err
	}

	var resp TimelineResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return &resp, nil
}
