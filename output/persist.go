package output

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aluiziolira/go-appstore-collector/models"
)

// TimestampedPath builds "<prefix>_<YYYYMMDD_HHMMSS>.<ext>" under dir.
func TimestampedPath(dir, prefix, ext string, t time.Time) string {
	name := fmt.Sprintf("%s_%s.%s", prefix, t.Format("20060102_150405"), ext)
	return filepath.Join(dir, name)
}

// NewWriter creates a writer for the requested format at filename.
// For the dual format, filename is the CSV destination and the JSON
// sibling replaces its extension.
func NewWriter(format, filename string) (Writer, error) {
	switch format {
	case "json":
		return NewJSONWriter(filename)
	case "csv":
		return NewCSVWriter(filename)
	case "dual":
		jsonFilename := strings.TrimSuffix(filename, ".csv") + ".json"
		return NewDualWriter(filename, jsonFilename)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

func formatExt(format string) string {
	if format == "json" {
		return "json"
	}
	return "csv"
}

// Persist serializes the collection to a timestamp-suffixed file in
// dir and returns its location. A persistence failure is surfaced to
// the caller; the in-memory collection is untouched either way, so no
// collected data is lost.
func Persist(coll *models.Collection, dir, prefix, format string) (string, error) {
	path := TimestampedPath(dir, prefix, formatExt(format), time.Now())

	w, err := NewWriter(format, path)
	if err != nil {
		return "", fmt.Errorf("persist: %w", err)
	}

	if err := w.Write(coll.Apps()); err != nil {
		w.Close()
		return "", fmt.Errorf("persist: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("persist: %w", err)
	}
	if err := w.Validate(); err != nil {
		return "", fmt.Errorf("persist: %w", err)
	}

	return path, nil
}
