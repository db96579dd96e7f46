package models

import "time"

// Collection accumulates apps deduplicated by track ID.
//
// Insertion is first-write-wins: once a track ID is present, later
// sightings of the same ID are discarded without merging fields. The
// query order of a run therefore decides which query owns an app that
// surfaces under several queries.
type Collection struct {
	order []int64
	items map[int64]App
}

// NewCollection returns an empty collection.
func NewCollection() *Collection {
	return &Collection{
		items: make(map[int64]App),
	}
}

// Insert adds app under its track ID if the ID is valid and not yet
// present. It reports whether the app was retained.
func (c *Collection) Insert(app App) bool {
	if app.TrackID == 0 {
		return false
	}
	if _, ok := c.items[app.TrackID]; ok {
		return false
	}
	c.items[app.TrackID] = app
	c.order = append(c.order, app.TrackID)
	return true
}

// Has reports whether an app with the given track ID is present.
func (c *Collection) Has(id int64) bool {
	_, ok := c.items[id]
	return ok
}

// Get returns the app stored under the given track ID.
func (c *Collection) Get(id int64) (App, bool) {
	app, ok := c.items[id]
	return app, ok
}

// Len returns the number of unique apps retained.
func (c *Collection) Len() int {
	return len(c.items)
}

// Apps returns the retained apps in first-seen order.
func (c *Collection) Apps() []App {
	out := make([]App, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.items[id])
	}
	return out
}

// RecentlyUpdated returns the apps whose current version was released
// at or after the given time, in first-seen order.
func (c *Collection) RecentlyUpdated(since time.Time) []App {
	var out []App
	for _, id := range c.order {
		app := c.items[id]
		if !app.CurrentVersionReleaseDate.Before(since) && !app.CurrentVersionReleaseDate.IsZero() {
			out = append(out, app)
		}
	}
	return out
}
