package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ppiankov/credence/internal/model"
)

const (
	// Version of the document layout
	Version = "1.0"

	// SystemInfo identifies the producing system
	SystemInfo = "Multi-Modal Fake News Detection with Cultural Context v1.0"

	// TimeFormat is ISO-8601 with millisecond precision in UTC
	TimeFormat = "2006-01-02T15:04:05.000Z07:00"
)

// Document is the self-describing export of one analysis
type Document struct {
	Analysis   model.Analysis `json:"analysis"`
	ExportTime string         `json:"exportTime"`
	Version    string         `json:"version"`
	SystemInfo string         `json:"systemInfo"`
}

// Exporter builds export documents
type Exporter struct {
	now func() time.Time
}

// New creates an exporter using the wall clock
func New() *Exporter {
	return &Exporter{now: time.Now}
}

// NewWithClock creates an exporter with an injected clock
func NewWithClock(now func() time.Time) *Exporter {
	return &Exporter{now: now}
}

// Export wraps a in a document stamped with the current instant
func (e *Exporter) Export(a model.Analysis) Document {
	return Document{
		Analysis:   a,
		ExportTime: e.now().UTC().Format(TimeFormat),
		Version:    Version,
		SystemInfo: SystemInfo,
	}
}

// Write encodes the export of a as pretty-printed JSON
func (e *Exporter) Write(w io.Writer, a model.Analysis) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(e.Export(a)); err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return nil
}

// WriteFile writes the export of a into dir under Filename(a)
func (e *Exporter) WriteFile(dir string, a model.Analysis) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	path := filepath.Join(dir, Filename(a))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}

	if err := e.Write(f, a); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close export file: %w", err)
	}
	return path, nil
}

// Filename is the download name of an export
func Filename(a model.Analysis) string {
	return fmt.Sprintf("fake-news-analysis-%d.json", a.ID)
}
