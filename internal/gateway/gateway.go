// Package gateway wraps the board's REST endpoints. Transport failures
// never escape this package as errors from the sentinel methods: lists
// degrade to empty, checks and mutations degrade to false.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/matakom/informator-3000/internal/article"
	"github.com/matakom/informator-3000/internal/clock"
)

const defaultTimeout = 10 * time.Second

// Config holds configuration for creating a Gateway.
type Config struct {
	// BaseURL is the API root, e.g. "http://localhost:8080".
	BaseURL string
	// HTTPClient is used for all requests. If nil, a client with Timeout
	// is created.
	HTTPClient *http.Client
	// Timeout bounds every request. Defaults to 10s.
	Timeout time.Duration
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
	// Clock supplies "now" for records without timestamps. Defaults to Real.
	Clock clock.Clock
}

type Gateway struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
	logger  *slog.Logger
	clock   clock.Clock
}

func New(cfg Config) (*Gateway, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("gateway: BaseURL is required")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("gateway: invalid BaseURL %q: %w", cfg.BaseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("gateway: BaseURL scheme must be http or https, got %q", u.Scheme)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clk := cfg.Clock
	if clk == nil {
		clk = clock.Real()
	}

	return &Gateway{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  client,
		timeout: timeout,
		logger:  logger,
		clock:   clk,
	}, nil
}

// BaseURL returns the API root without a trailing slash.
func (g *Gateway) BaseURL() string { return g.baseURL }

// FetchArticles returns the normalized collection, newest first.
func (g *Gateway) FetchArticles(ctx context.Context) ([]article.Article, error) {
	resp, err := g.do(ctx, http.MethodGet, "/article/list", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("listing articles: unexpected status %s", resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading article list: %w", err)
	}
	articles, err := article.DecodeList(body, g.clock.Now())
	if err != nil {
		return nil, err
	}
	article.SortNewestFirst(articles)
	return articles, nil
}

// ListArticles is FetchArticles with failures logged and reduced to an
// empty collection.
func (g *Gateway) ListArticles(ctx context.Context) []article.Article {
	articles, err := g.FetchArticles(ctx)
	if err != nil {
		g.logger.Error("fetching articles", "error", err)
		return []article.Article{}
	}
	return articles
}

// CheckHealth probes the API root. Any 2xx means healthy.
func (g *Gateway) CheckHealth(ctx context.Context) bool {
	resp, err := g.do(ctx, http.MethodGet, "/", nil, nil)
	if err != nil {
		g.logger.Debug("health probe failed", "error", err)
		return false
	}
	resp.Body.Close()
	return resp.StatusCode >= 200 && resp.StatusCode < 300
}

// Create publishes a new article. Only 200 and 201 count as success.
func (g *Gateway) Create(ctx context.Context, draft article.Draft) bool {
	resp, err := g.do(ctx, http.MethodPost, "/article/create", nil, draft)
	if err != nil {
		g.logger.Error("creating article", "error", err)
		return false
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		g.logger.Error("creating article", "status", resp.StatusCode)
		return false
	}
	return true
}

// Update sends the changed fields of article id. The id travels in the
// query string, not the body.
func (g *Gateway) Update(ctx context.Context, id int64, patch article.Patch) bool {
	resp, err := g.do(ctx, http.MethodPost, "/article/update", idQuery(id), patch)
	if err != nil {
		g.logger.Error("updating article", "id", id, "error", err)
		return false
	}
	resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		g.logger.Error("updating article", "id", id, "status", resp.StatusCode)
		return false
	}
	return true
}

// Delete removes article id. Any completed request counts as success;
// only transport errors report false.
func (g *Gateway) Delete(ctx context.Context, id int64) bool {
	resp, err := g.do(ctx, http.MethodPost, "/article/delete", idQuery(id), nil)
	if err != nil {
		g.logger.Error("deleting article", "id", id, "error", err)
		return false
	}
	resp.Body.Close()
	return true
}

func idQuery(id int64) url.Values {
	return url.Values{"id": []string{strconv.FormatInt(id, 10)}}
}

func (g *Gateway) do(ctx context.Context, method, path string, query url.Values, payload any) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)

	target := g.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			cancel()
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		cancel()
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		cancel()
		return nil, err
	}
	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}

// cancelOnClose releases the request context once the caller is done
// with the body.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}
