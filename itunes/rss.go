package itunes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Feed selects one of the public chart feeds.
type Feed string

const (
	FeedTopFree     Feed = "topfreeapplications"
	FeedTopPaid     Feed = "toppaidapplications"
	FeedTopGrossing Feed = "topgrossingapplications"
)

// ChartEntry is one ranked row of a chart feed.
type ChartEntry struct {
	Rank        int    `json:"rank"`
	ID          string `json:"id"`
	BundleID    string `json:"bundleId"`
	Name        string `json:"name"`
	Artist      string `json:"artist"`
	Category    string `json:"category"`
	Price       string `json:"price"`
	ReleaseDate string `json:"releaseDate"`
	Link        string `json:"link"`
	Icon        string `json:"icon"`
	Summary     string `json:"summary"`
	Rights      string `json:"rights"`
}

type rssLabel struct {
	Label string `json:"label"`
}

type rssEntry struct {
	Name rssLabel `json:"im:name"`
	ID   struct {
		Attributes struct {
			ID       string `json:"im:id"`
			BundleID string `json:"im:bundleId"`
		} `json:"attributes"`
	} `json:"id"`
	Category struct {
		Attributes struct {
			Label string `json:"label"`
		} `json:"attributes"`
	} `json:"category"`
	Price       rssLabel `json:"im:price"`
	Artist      rssLabel `json:"im:artist"`
	ReleaseDate rssLabel `json:"im:releaseDate"`
	Link        struct {
		Attributes struct {
			Href string `json:"href"`
		} `json:"attributes"`
	} `json:"link"`
	Images  []rssLabel `json:"im:image"`
	Summary rssLabel   `json:"summary"`
	Rights  rssLabel   `json:"rights"`
}

type rssFeed struct {
	Feed struct {
		Entry []rssEntry `json:"entry"`
	} `json:"feed"`
}

// TopCharts fetches a ranked chart feed for the configured country.
// genreID narrows the chart to one category when non-zero.
func (c *Client) TopCharts(ctx context.Context, feed Feed, limit int, genreID int) ([]ChartEntry, error) {
	defer c.pause(ctx)

	if limit <= 0 {
		limit = 50
	}

	path := fmt.Sprintf("/%s/rss/%s/limit=%d/json", c.cfg.Country, feed, limit)
	if genreID != 0 {
		path = fmt.Sprintf("/%s/rss/%s/limit=%d/genre=%d/json", c.cfg.Country, feed, limit, genreID)
	}

	resp, err := c.http.R().SetContext(ctx).Get(path)
	if err != nil {
		return nil, &RequestError{Err: err}
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, &RequestError{Status: resp.StatusCode()}
	}

	var body rssFeed
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, &ParseError{Err: err}
	}

	entries := make([]ChartEntry, 0, len(body.Feed.Entry))
	for i, entry := range body.Feed.Entry {
		icon := ""
		if n := len(entry.Images); n > 0 {
			// The last image variant is the largest one.
			icon = entry.Images[n-1].Label
		}
		entries = append(entries, ChartEntry{
			Rank:        i + 1,
			ID:          entry.ID.Attributes.ID,
			BundleID:    entry.ID.Attributes.BundleID,
			Name:        entry.Name.Label,
			Artist:      entry.Artist.Label,
			Category:    entry.Category.Attributes.Label,
			Price:       entry.Price.Label,
			ReleaseDate: entry.ReleaseDate.Label,
			Link:        entry.Link.Attributes.Href,
			Icon:        icon,
			Summary:     entry.Summary.Label,
			Rights:      entry.Rights.Label,
		})
	}

	return entries, nil
}
