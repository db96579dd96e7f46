package output

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aluiziolira/go-appstore-collector/models"
)

func sampleCollection(t *testing.T) *models.Collection {
	t.Helper()

	coll := models.NewCollection()
	payloads := []string{
		`{"trackId":1,"trackName":"First","primaryGenreName":"Games","minimumOsVersion":"13.0"}`,
		`{"trackId":2,"trackName":"Second","primaryGenreName":"Social Networking"}`,
	}
	for _, payload := range payloads {
		var app models.App
		if err := json.Unmarshal([]byte(payload), &app); err != nil {
			t.Fatalf("unmarshal sample: %v", err)
		}
		if !coll.Insert(app) {
			t.Fatalf("insert sample failed")
		}
	}
	return coll
}

func TestJSONWriterSingleDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apps.json")

	w, err := NewJSONWriter(path)
	if err != nil {
		t.Fatalf("new json writer: %v", err)
	}
	if err := w.Write(sampleCollection(t).Apps()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := w.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}

	var decoded []map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not a JSON array: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("got %d records, want 2", len(decoded))
	}
	if decoded[0]["minimumOsVersion"] != "13.0" {
		t.Fatalf("pass-through attribute missing from output: %v", decoded[0])
	}
}

func TestCSVWriterHeaderAndRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "apps.csv")

	w, err := NewCSVWriter(path)
	if err != nil {
		t.Fatalf("new csv writer: %v", err)
	}
	if err := w.Write(sampleCollection(t).Apps()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := w.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	if rows[0][0] != "track_id" {
		t.Fatalf("header = %v", rows[0])
	}
	if rows[1][0] != "1" || rows[1][1] != "First" {
		t.Fatalf("first row = %v", rows[1])
	}
}

func TestDualWriterWritesBoth(t *testing.T) {
	dir := t.TempDir()
	csvPath := filepath.Join(dir, "apps.csv")

	w, err := NewWriter("dual", csvPath)
	if err != nil {
		t.Fatalf("new dual writer: %v", err)
	}
	if err := w.Write(sampleCollection(t).Apps()); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := w.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	if _, err := os.Stat(csvPath); err != nil {
		t.Fatalf("csv missing: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "apps.json")); err != nil {
		t.Fatalf("json sibling missing: %v", err)
	}
}

func TestNewWriterRejectsUnknownFormat(t *testing.T) {
	if _, err := NewWriter("xml", "apps.xml"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestTimestampedPath(t *testing.T) {
	at := time.Date(2025, 8, 30, 14, 5, 9, 0, time.UTC)
	got := TimestampedPath("data/raw/api", "quick_apps", "json", at)
	want := filepath.Join("data/raw/api", "quick_apps_20250830_140509.json")
	if got != want {
		t.Fatalf("path = %q, want %q", got, want)
	}
}

func TestPersistIsPureFunctionOfCollection(t *testing.T) {
	coll := sampleCollection(t)

	dirA := t.TempDir()
	dirB := t.TempDir()

	pathA, err := Persist(coll, dirA, "apps", "json")
	if err != nil {
		t.Fatalf("persist A: %v", err)
	}
	pathB, err := Persist(coll, dirB, "apps", "json")
	if err != nil {
		t.Fatalf("persist B: %v", err)
	}

	itemsA := readItems(t, pathA)
	itemsB := readItems(t, pathB)

	if len(itemsA) != len(itemsB) {
		t.Fatalf("item counts differ: %d vs %d", len(itemsA), len(itemsB))
	}
	for i := range itemsA {
		if itemsA[i]["trackId"] != itemsB[i]["trackId"] {
			t.Fatalf("item %d differs between persists", i)
		}
	}
}

func readItems(t *testing.T, path string) []map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	var items []map[string]any
	if err := json.Unmarshal(data, &items); err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return items
}

func TestPersistEmptyCollection(t *testing.T) {
	coll := models.NewCollection()

	path, err := Persist(coll, t.TempDir(), "apps", "json")
	if err != nil {
		t.Fatalf("persist empty: %v", err)
	}
	if items := readItems(t, path); len(items) != 0 {
		t.Fatalf("expected empty array, got %d items", len(items))
	}
}

func TestPersistSurfacesUnwritableDir(t *testing.T) {
	coll := sampleCollection(t)

	missing := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(missing, []byte("x"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	// Using a regular file as the directory component makes MkdirAll fail.
	if _, err := Persist(coll, filepath.Join(missing, "sub"), "apps", "json"); err == nil {
		t.Fatalf("expected persist error for unwritable destination")
	}

	if coll.Len() != 2 {
		t.Fatalf("collection must survive a failed persist, len = %d", coll.Len())
	}
}
