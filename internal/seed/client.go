package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"starwars-api/internal/shared/config"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const maxResponseBytes = 5 << 20

// ListItem is one entry of a paged listing; URL points at its detail.
type ListItem struct {
	UID  string `json:"uid"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

type listResponse struct {
	Message string     `json:"message"`
	Results []ListItem `json:"results"`
}

type detailResponse struct {
	Message string `json:"message"`
	Result  struct {
		Properties Properties `json:"properties"`
	} `json:"result"`
}

// Properties is the loosely typed attribute bag of an external record.
type Properties map[string]any

type Client struct {
	http      *http.Client
	baseURL   string
	pageLimit int
	logger    *slog.Logger
}

func NewClient(cfg config.SeedConfig, logger *slog.Logger) *Client {
	return &Client{
		http: &http.Client{
			Timeout:   cfg.Timeout(),
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		pageLimit: cfg.PageLimit,
		logger:    logger,
	}
}

// List fetches the first page of resource.
func (c *Client) List(ctx context.Context, resource string) ([]ListItem, error) {
	q := url.Values{}
	q.Set("page", "1")
	q.Set("limit", strconv.Itoa(c.pageLimit))
	endpoint := fmt.Sprintf("%s/%s?%s", c.baseURL, url.PathEscape(resource), q.Encode())

	var body listResponse
	if err := c.getJSON(ctx, endpoint, &body); err != nil {
		return nil, err
	}

	c.logger.Debug("Fetched listing", "component", "seed_client", "resource", resource, "count", len(body.Results))
	return body.Results, nil
}

// Properties fetches a detail document. Only URLs on the configured base
// host are followed.
func (c *Client) Properties(ctx context.Context, detailURL string) (Properties, error) {
	if err := c.checkHost(detailURL); err != nil {
		return nil, err
	}

	var body detailResponse
	if err := c.getJSON(ctx, detailURL, &body); err != nil {
		return nil, err
	}
	if body.Result.Properties == nil {
		return nil, fmt.Errorf("no properties in response from %s", detailURL)
	}
	return body.Result.Properties, nil
}

func (c *Client) checkHost(rawURL string) error {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("invalid seed base URL: %w", err)
	}
	target, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid detail URL %q: %w", rawURL, err)
	}
	if target.Scheme != base.Scheme || !strings.EqualFold(target.Host, base.Host) {
		return fmt.Errorf("detail URL %s is not on %s", rawURL, base.Host)
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, dst interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request to %s failed: %w", endpoint, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Debug("Failed to close response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, endpoint)
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(dst); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", endpoint, err)
	}
	return nil
}
