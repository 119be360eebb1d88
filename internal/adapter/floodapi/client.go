// Package floodapi reads current flood warnings from the Environment Agency
// flood-monitoring API.
package floodapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/flood-monitor/internal/domain"
	"github.com/go-resty/resty/v2"
)

// Client implements monitor.Fetcher against the flood-monitoring API.
type Client struct {
	http    *resty.Client
	feedURL string
	logger  *slog.Logger
}

// NewClient creates a client for feedURL. Requests are not retried.
func NewClient(feedURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		http: resty.New().
			SetTimeout(timeout).
			SetRetryCount(0).
			SetHeader("Accept", "application/json"),
		feedURL: feedURL,
		logger:  logger,
	}
}

// Fetch requests the feed and normalizes every item.
func (c *Client) Fetch(ctx context.Context) ([]domain.FloodRecord, error) {
	feed, _, err := c.FetchFeed(ctx)
	if err != nil {
		return nil, err
	}
	return domain.NormalizeFeed(feed), nil
}

// FetchFeed requests the feed and returns both the decoded document and the
// raw response body.
func (c *Client) FetchFeed(ctx context.Context) (domain.FeedResponse, []byte, error) {
	resp, err := c.http.R().SetContext(ctx).Get(c.feedURL)
	if err != nil {
		return domain.FeedResponse{}, nil, fmt.Errorf("flood feed request: %w", err)
	}

	body := resp.Body()
	if resp.IsError() || resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return domain.FeedResponse{}, nil, fmt.Errorf("flood API error: status %d: %s", resp.StatusCode(), truncate(body, 256))
	}

	feed, err := decodeFeed(body)
	if err != nil {
		return domain.FeedResponse{}, nil, err
	}

	c.logger.Debug("flood feed fetched",
		"items", len(feed.Items),
		"bytes", len(body),
		"duration", resp.Time(),
	)
	return feed, body, nil
}

func decodeFeed(body []byte) (domain.FeedResponse, error) {
	var feed domain.FeedResponse
	if err := json.Unmarshal(body, &feed); err != nil {
		return domain.FeedResponse{}, fmt.Errorf("decode response: %w", err)
	}
	if feed.Items == nil {
		return domain.FeedResponse{}, errors.New("decode response: missing items array")
	}
	return feed, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
