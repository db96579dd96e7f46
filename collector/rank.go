package collector

import (
	"encoding/json"
	"sort"

	"github.com/aluiziolira/go-appstore-collector/models"
)

// RankedApp is an app with its popularity rank and score.
type RankedApp struct {
	models.App
	Rank  int `json:"rank"`
	Score int `json:"popularity_score"`
}

// MarshalJSON emits the app record with the rank and score spliced in
// as additional attributes. The embedded App's marshaller alone would
// swallow both fields.
func (r RankedApp) MarshalJSON() ([]byte, error) {
	base, err := json.Marshal(r.App)
	if err != nil {
		return nil, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(base, &fields); err != nil {
		return nil, err
	}

	rank, err := json.Marshal(r.Rank)
	if err != nil {
		return nil, err
	}
	score, err := json.Marshal(r.Score)
	if err != nil {
		return nil, err
	}
	fields["rank"] = rank
	fields["popularity_score"] = score

	return json.Marshal(fields)
}

// FrequencyRanker scores apps by how often and how high they appear
// across search results. An app seen at position p inside the scoring
// window earns window-p points per sighting, so apps that keep showing
// up near the top of many result lists accumulate the largest scores.
type FrequencyRanker struct {
	window int
	scores map[int64]int
	apps   map[int64]models.App
}

// NewFrequencyRanker builds a ranker that scores the first window
// positions of each observed result list.
func NewFrequencyRanker(window int) *FrequencyRanker {
	if window <= 0 {
		window = 50
	}
	return &FrequencyRanker{
		window: window,
		scores: make(map[int64]int),
		apps:   make(map[int64]models.App),
	}
}

// Observe accumulates scores from one result list. The first sighting
// of an app keeps its record; later sightings only add score.
func (r *FrequencyRanker) Observe(apps []models.App) {
	for position, app := range apps {
		if position >= r.window {
			break
		}
		if app.TrackID == 0 {
			continue
		}
		r.scores[app.TrackID] += r.window - position
		if _, ok := r.apps[app.TrackID]; !ok {
			r.apps[app.TrackID] = app
		}
	}
}

// Top returns the n highest-scoring apps, ranked from 1. Ties break on
// track ID so the ordering is deterministic.
func (r *FrequencyRanker) Top(n int) []RankedApp {
	ids := make([]int64, 0, len(r.scores))
	for id := range r.scores {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if r.scores[ids[i]] != r.scores[ids[j]] {
			return r.scores[ids[i]] > r.scores[ids[j]]
		}
		return ids[i] < ids[j]
	})

	if n > len(ids) {
		n = len(ids)
	}

	ranked := make([]RankedApp, 0, n)
	for rank, id := range ids[:n] {
		ranked = append(ranked, RankedApp{
			App:   r.apps[id],
			Rank:  rank + 1,
			Score: r.scores[id],
		})
	}
	return ranked
}
