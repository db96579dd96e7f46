// Package models defines data structures for the collector.
package models

import (
	"encoding/json"
	"time"
)

// App represents one App Store record returned by the search API.
//
// The typed fields cover the attributes the collector inspects; every
// attribute present in the source payload (typed or not) is retained
// verbatim and round-trips through MarshalJSON unchanged.
type App struct {
	TrackID                   int64     `json:"trackId"`
	TrackName                 string    `json:"trackName"`
	BundleID                  string    `json:"bundleId"`
	ArtistName                string    `json:"artistName"`
	Price                     float64   `json:"price"`
	Currency                  string    `json:"currency"`
	PrimaryGenre              string    `json:"primaryGenreName"`
	PrimaryGenreID            int64     `json:"primaryGenreId"`
	AverageUserRating         float64   `json:"averageUserRating"`
	UserRatingCount           int64     `json:"userRatingCount"`
	Version                   string    `json:"version"`
	ReleaseDate               time.Time `json:"releaseDate"`
	CurrentVersionReleaseDate time.Time `json:"currentVersionReleaseDate"`

	attrs map[string]json.RawMessage
}

type appFields App

// UnmarshalJSON decodes the typed fields and keeps the full source
// payload so unknown attributes survive re-serialization.
func (a *App) UnmarshalJSON(data []byte) error {
	var fields appFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	var attrs map[string]json.RawMessage
	if err := json.Unmarshal(data, &attrs); err != nil {
		return err
	}

	*a = App(fields)
	a.attrs = attrs
	return nil
}

// MarshalJSON emits the original source attributes when the app came
// from a decoded payload, and the typed fields otherwise.
func (a App) MarshalJSON() ([]byte, error) {
	if a.attrs != nil {
		return json.Marshal(a.attrs)
	}
	return json.Marshal(appFields(a))
}

// Attr returns the raw value of a source attribute by key.
func (a *App) Attr(key string) (json.RawMessage, bool) {
	value, ok := a.attrs[key]
	return value, ok
}

// AttrCount reports how many attributes the source payload carried.
func (a *App) AttrCount() int {
	return len(a.attrs)
}
