package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aluiziolira/go-appstore-collector/collector"
	"github.com/aluiziolira/go-appstore-collector/config"
	"github.com/aluiziolira/go-appstore-collector/models"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.OutputDir = t.TempDir()
	return cfg
}

func readJSONArray(t *testing.T, dir string) []map[string]any {
	t.Helper()

	matches, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected one json file in %s, got %v (%v)", dir, matches, err)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read %s: %v", matches[0], err)
	}
	var items []map[string]any
	if err := json.Unmarshal(data, &items); err != nil {
		t.Fatalf("decode %s: %v", matches[0], err)
	}
	return items
}

func TestSaveRecentFiltersCollection(t *testing.T) {
	cfg := testConfig(t)

	now := time.Now().UTC()
	coll := models.NewCollection()
	coll.Insert(models.App{TrackID: 1, TrackName: "Fresh", CurrentVersionReleaseDate: now.AddDate(0, 0, -2)})
	coll.Insert(models.App{TrackID: 2, TrackName: "Stale", CurrentVersionReleaseDate: now.AddDate(0, 0, -30)})
	coll.Insert(models.App{TrackID: 3, TrackName: "Undated"})

	if err := saveRecent(coll, cfg, 7); err != nil {
		t.Fatalf("save recent: %v", err)
	}

	items := readJSONArray(t, cfg.OutputDir)
	if len(items) != 1 {
		t.Fatalf("got %d recent apps, want 1", len(items))
	}
	if items[0]["trackName"] != "Fresh" {
		t.Fatalf("recent app = %v, want the freshly updated one", items[0])
	}
}

func TestSaveRecentEmptyCollectionWritesArray(t *testing.T) {
	cfg := testConfig(t)

	if err := saveRecent(models.NewCollection(), cfg, 7); err != nil {
		t.Fatalf("save recent: %v", err)
	}
	if items := readJSONArray(t, cfg.OutputDir); len(items) != 0 {
		t.Fatalf("expected empty array, got %d items", len(items))
	}
}

func TestSaveRankingWritesRankAndScore(t *testing.T) {
	cfg := testConfig(t)

	ranker := collector.NewFrequencyRanker(50)
	ranker.Observe([]models.App{{TrackID: 1, TrackName: "Leader"}})

	if err := saveRanking(ranker, cfg, 10); err != nil {
		t.Fatalf("save ranking: %v", err)
	}

	items := readJSONArray(t, cfg.OutputDir)
	if len(items) != 1 {
		t.Fatalf("got %d ranked apps, want 1", len(items))
	}
	if items[0]["rank"] != float64(1) || items[0]["popularity_score"] != float64(50) {
		t.Fatalf("ranking entry missing rank/score: %v", items[0])
	}
}

func TestBuildQueries(t *testing.T) {
	cfg := config.DefaultConfig()

	defaults := buildQueries(cfg, "", "", false)
	if len(defaults) != len(collector.PriorityTerms) {
		t.Fatalf("default queries = %d, want priority term count %d", len(defaults), len(collector.PriorityTerms))
	}

	custom := buildQueries(cfg, "game, social", "games", false)
	// Two terms plus one category name query and six variations.
	if len(custom) != 2+7 {
		t.Fatalf("custom queries = %d, want 9", len(custom))
	}
	if custom[0].Term != "game" || custom[1].Term != "social" {
		t.Fatalf("unexpected leading queries: %+v", custom[:2])
	}

	all := buildQueries(cfg, "game", "all", false)
	if len(all) != 1+len(collector.Categories)*7 {
		t.Fatalf("all-category queries = %d, want %d", len(all), 1+len(collector.Categories)*7)
	}
}
