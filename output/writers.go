// Package output serializes a collection to disk.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/aluiziolira/go-appstore-collector/models"
)

// Writer is the destination for a collection run.
type Writer interface {
	Write(apps []models.App) error
	Close() error
	Validate() error
}

// JSONWriter buffers apps and emits a single indented JSON array on
// Close, matching the artifact shape downstream tooling expects.
type JSONWriter struct {
	path string
	file *os.File
	apps []models.App
}

// NewJSONWriter initialises the JSON writer.
func NewJSONWriter(filename string) (*JSONWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create json file: %w", err)
	}

	return &JSONWriter{path: filename, file: f, apps: []models.App{}}, nil
}

// Write buffers apps for the final document.
func (jw *JSONWriter) Write(apps []models.App) error {
	jw.apps = append(jw.apps, apps...)
	return nil
}

// Close writes the buffered apps as one document and closes the file.
func (jw *JSONWriter) Close() error {
	data, err := json.MarshalIndent(jw.apps, "", "  ")
	if err != nil {
		jw.file.Close()
		return fmt.Errorf("encode json document: %w", err)
	}
	if _, err := jw.file.Write(data); err != nil {
		jw.file.Close()
		return fmt.Errorf("write json document: %w", err)
	}
	return jw.file.Close()
}

// Validate ensures the document was written.
func (jw *JSONWriter) Validate() error {
	info, err := os.Stat(jw.path)
	if err != nil {
		return fmt.Errorf("stat json file: %w", err)
	}
	if info.Size() <= 0 {
		return fmt.Errorf("json file is empty")
	}
	return nil
}

var csvHeader = []string{
	"track_id", "track_name", "bundle_id", "artist_name", "price",
	"currency", "primary_genre", "average_user_rating",
	"user_rating_count", "version", "release_date",
	"current_version_release_date",
}

// CSVWriter writes one row per app with the typed fields.
type CSVWriter struct {
	path   string
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter initialises a CSV writer and writes the header row.
func NewCSVWriter(filename string) (*CSVWriter, error) {
	if err := ensureDir(filename); err != nil {
		return nil, err
	}

	f, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("create csv file: %w", err)
	}

	writer := csv.NewWriter(f)
	if err := writer.Write(csvHeader); err != nil {
		f.Close()
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		f.Close()
		return nil, fmt.Errorf("flush csv header: %w", err)
	}

	return &CSVWriter{path: filename, file: f, writer: writer}, nil
}

// Write appends apps to the CSV output.
func (cw *CSVWriter) Write(apps []models.App) error {
	for _, app := range apps {
		record := []string{
			strconv.FormatInt(app.TrackID, 10),
			app.TrackName,
			app.BundleID,
			app.ArtistName,
			strconv.FormatFloat(app.Price, 'f', -1, 64),
			app.Currency,
			app.PrimaryGenre,
			strconv.FormatFloat(app.AverageUserRating, 'f', -1, 64),
			strconv.FormatInt(app.UserRatingCount, 10),
			app.Version,
			formatTime(app.ReleaseDate),
			formatTime(app.CurrentVersionReleaseDate),
		}
		if err := cw.writer.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv records: %w", err)
	}
	return nil
}

// Close flushes and closes the file handle.
func (cw *CSVWriter) Close() error {
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		cw.file.Close()
		return fmt.Errorf("flush csv writer: %w", err)
	}
	return cw.file.Close()
}

// Validate ensures the file has content.
func (cw *CSVWriter) Validate() error {
	info, err := os.Stat(cw.path)
	if err != nil {
		return fmt.Errorf("stat csv file: %w", err)
	}
	if info.Size() <= 0 {
		return fmt.Errorf("csv file is empty")
	}
	return nil
}

// DualWriter outputs to both CSV and JSON destinations.
type DualWriter struct {
	csvWriter  *CSVWriter
	jsonWriter *JSONWriter
}

// NewDualWriter creates writers for both formats.
func NewDualWriter(csvFilename, jsonFilename string) (*DualWriter, error) {
	csvWriter, err := NewCSVWriter(csvFilename)
	if err != nil {
		return nil, fmt.Errorf("create csv writer: %w", err)
	}

	jsonWriter, err := NewJSONWriter(jsonFilename)
	if err != nil {
		csvWriter.Close()
		return nil, fmt.Errorf("create json writer: %w", err)
	}

	return &DualWriter{csvWriter: csvWriter, jsonWriter: jsonWriter}, nil
}

// Write writes apps to both destinations.
func (dw *DualWriter) Write(apps []models.App) error {
	if err := dw.csvWriter.Write(apps); err != nil {
		return err
	}
	return dw.jsonWriter.Write(apps)
}

// Close closes both writers, reporting the first failure.
func (dw *DualWriter) Close() error {
	csvErr := dw.csvWriter.Close()
	jsonErr := dw.jsonWriter.Close()
	if csvErr != nil {
		return csvErr
	}
	return jsonErr
}

// Validate checks both destinations.
func (dw *DualWriter) Validate() error {
	if err := dw.csvWriter.Validate(); err != nil {
		return err
	}
	return dw.jsonWriter.Validate()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func ensureDir(filename string) error {
	dir := filepath.Dir(filename)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %q: %w", dir, err)
	}
	return nil
}
