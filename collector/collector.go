// Package collector turns an ordered list of search queries into a
// single deduplicated collection of apps.
package collector

import (
	"context"
	"log/slog"
	"time"

	"github.com/aluiziolira/go-appstore-collector/config"
	"github.com/aluiziolira/go-appstore-collector/itunes"
	"github.com/aluiziolira/go-appstore-collector/models"
)

// Collector runs queries strictly in order against a single client.
// One Collect call owns the whole run; the collector keeps no state
// across runs and does not support concurrent callers.
type Collector struct {
	cfg     *config.Config
	client  *itunes.Client
	Metrics *Metrics

	// OnResults, when set, observes every successful query's raw
	// result list before deduplication. Used to feed rankers.
	OnResults func(q itunes.Query, apps []models.App)
}

// New builds a collector around an existing client.
func New(cfg *config.Config, client *itunes.Client) *Collector {
	return &Collector{
		cfg:     cfg,
		client:  client,
		Metrics: NewMetrics(),
	}
}

// Collect issues every query in order and merges the results into one
// collection keyed by track ID, first-write-wins. A failed query is
// logged and counted but never aborts the run; it simply contributes
// zero apps. The returned statistics are finalized.
func (c *Collector) Collect(ctx context.Context, queries []itunes.Query) (*models.Collection, *models.RunStats) {
	stats := models.NewRunStats()
	coll := models.NewCollection()

	slog.Info("collection run starting",
		slog.String("run_id", stats.RunID),
		slog.Int("queries", len(queries)),
		slog.String("country", c.cfg.Country),
	)

	for _, q := range queries {
		apps := c.search(ctx, q, stats)
		if len(apps) > 0 && c.OnResults != nil {
			c.OnResults(q, apps)
		}
		for _, app := range apps {
			stats.TotalApps++
			if coll.Insert(app) {
				stats.UniqueApps++
				c.Metrics.IncApps()
			} else {
				c.Metrics.IncDuplicate()
			}
		}
	}

	stats.Finalize()

	slog.Info("collection run finished",
		slog.String("run_id", stats.RunID),
		slog.Int("unique_apps", stats.UniqueApps),
		slog.Int("total_apps", stats.TotalApps),
		slog.Int("failed_requests", stats.FailedRequests),
	)

	return coll, stats
}

// queryKind labels a query for the requests metric by what drives it:
// a bare term, a bare genre, or a term scoped to a genre.
func queryKind(q itunes.Query) string {
	switch {
	case q.GenreID != 0 && q.Term != "":
		return "term_genre"
	case q.GenreID != 0:
		return "genre"
	default:
		return "term"
	}
}

// search issues one query, recording the outcome in stats and metrics.
// On failure it returns nil; the error never escapes.
func (c *Collector) search(ctx context.Context, q itunes.Query, stats *models.RunStats) []models.App {
	stats.TotalRequests++
	c.Metrics.IncRequest(queryKind(q))

	start := time.Now()
	apps, err := c.client.Search(ctx, q)
	c.Metrics.ObserveDuration(time.Since(start))

	if err != nil {
		stats.FailedRequests++
		c.Metrics.IncError(itunes.ErrorLabel(err))
		slog.Error("search failed",
			slog.String("term", q.Term),
			slog.Int("genre_id", q.GenreID),
			slog.String("category", itunes.ErrorLabel(err)),
			slog.Any("error", err),
		)
		return nil
	}

	stats.SuccessfulRequests++
	slog.Debug("search succeeded",
		slog.String("term", q.Term),
		slog.Int("genre_id", q.GenreID),
		slog.Int("results", len(apps)),
	)
	return apps
}
