// Package itunes is a thin client for the iTunes Search, Lookup, and
// RSS chart endpoints.
package itunes

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/aluiziolira/go-appstore-collector/config"
	"github.com/aluiziolira/go-appstore-collector/models"
	"github.com/go-resty/resty/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/time/rate"
)

// Query describes a single search request.
type Query struct {
	Term    string
	Limit   int
	GenreID int
	// Extra carries additional endpoint parameters, e.g. attribute
	// filters. Keys here override nothing the client sets itself.
	Extra map[string]string
}

type searchResponse struct {
	ResultCount int          `json:"resultCount"`
	Results     []models.App `json:"results"`
}

// Client issues paced requests against the iTunes endpoints. The
// underlying HTTP connection is created once and reused for the whole
// run; the client itself holds no per-run state and is not retried.
type Client struct {
	cfg    *config.Config
	http   *resty.Client
	pace   *rate.Limiter
	lookup *lru.Cache[int64, models.App]
}

// NewClient builds a client from cfg. The configured delay bounds the
// call rate of every network method, on success and failure alike.
func NewClient(cfg *config.Config) (*Client, error) {
	httpClient := resty.New()
	httpClient.SetBaseURL(cfg.BaseURL)
	httpClient.SetTimeout(cfg.Timeout)
	httpClient.SetHeader("User-Agent", cfg.UserAgent)
	httpClient.SetHeader("Accept", "application/json")

	var pace *rate.Limiter
	if cfg.Delay > 0 {
		pace = rate.NewLimiter(rate.Every(cfg.Delay), 1)
		// Drain the initial token so the first request also pays the delay.
		pace.Allow()
	}

	cache, err := lru.New[int64, models.App](cfg.LookupCacheSize)
	if err != nil {
		return nil, err
	}

	return &Client{
		cfg:    cfg,
		http:   httpClient,
		pace:   pace,
		lookup: cache,
	}, nil
}

// SetTransport swaps the underlying HTTP transport. Used by tests to
// install a mock round tripper.
func (c *Client) SetTransport(rt http.RoundTripper) {
	c.http.SetTransport(rt)
}

// pause blocks until the inter-request delay has elapsed. Deferred by
// every network method so it runs on each exit path.
func (c *Client) pause(ctx context.Context) {
	if c.pace == nil {
		return
	}
	if err := c.pace.Wait(ctx); err != nil {
		slog.Debug("pacing interrupted", slog.Any("error", err))
	}
}

// Search issues one request to the search endpoint and returns the
// parsed records. Failures are classified as RequestError or
// ParseError; the caller decides whether to retry (this client never
// does).
func (c *Client) Search(ctx context.Context, q Query) ([]models.App, error) {
	defer c.pause(ctx)

	if q.Term == "" && q.GenreID == 0 && len(q.Extra) == 0 {
		return nil, ErrEmptyQuery
	}

	limit := q.Limit
	if limit <= 0 {
		limit = c.cfg.Limit
	}
	if limit > config.MaxLimit {
		limit = config.MaxLimit
	}

	params := map[string]string{
		"term":    q.Term,
		"country": c.cfg.Country,
		"entity":  c.cfg.Entity,
		"media":   "software",
		"limit":   strconv.Itoa(limit),
	}
	if q.GenreID != 0 {
		params["genreId"] = strconv.Itoa(q.GenreID)
	}
	for key, value := range q.Extra {
		params[key] = value
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		Get("/search")
	if err != nil {
		return nil, &RequestError{Err: err}
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, &RequestError{Status: resp.StatusCode()}
	}

	var body searchResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, &ParseError{Err: err}
	}

	return body.Results, nil
}

// Lookup fetches a single app by track ID. Results are cached; a cache
// hit skips the network and the pacing delay.
func (c *Client) Lookup(ctx context.Context, id int64) (models.App, error) {
	if app, ok := c.lookup.Get(id); ok {
		return app, nil
	}

	defer c.pause(ctx)

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"id":      strconv.FormatInt(id, 10),
			"country": c.cfg.Country,
		}).
		Get("/lookup")
	if err != nil {
		return models.App{}, &RequestError{Err: err}
	}
	if resp.StatusCode() != http.StatusOK {
		return models.App{}, &RequestError{Status: resp.StatusCode()}
	}

	var body searchResponse
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return models.App{}, &ParseError{Err: err}
	}
	if body.ResultCount == 0 || len(body.Results) == 0 {
		return models.App{}, ErrNotFound
	}

	app := body.Results[0]
	c.lookup.Add(id, app)
	return app, nil
}

// LookupCacheLen reports how many lookups are currently cached.
func (c *Client) LookupCacheLen() int {
	return c.lookup.Len()
}
