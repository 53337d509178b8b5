package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/ppiankov/credence/internal/export"
	"github.com/ppiankov/credence/internal/history"
	"github.com/ppiankov/credence/internal/logger"
	"github.com/ppiankov/credence/internal/metrics"
	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/pipeline"
	"github.com/ppiankov/credence/internal/render"
	"github.com/ppiankov/credence/internal/request"
)

var (
	// ErrNoCurrentAnalysis is returned by Export before any analysis completed or was selected
	ErrNoCurrentAnalysis = errors.New("no analysis to export")

	// ErrNotFound is returned for ids absent from history
	ErrNotFound = errors.New("analysis not found")

	// ErrEmptyFeedback is returned when feedback carries no kind
	ErrEmptyFeedback = errors.New("feedback kind is required")
)

// Session ties history, the pipeline and the current selection together.
// Safe for concurrent use; the most recent completion or selection wins.
type Session struct {
	store    *history.Store
	pipe     *pipeline.Pipeline
	exporter *export.Exporter
	metrics  *metrics.Metrics
	log      *logger.Logger

	mu      sync.RWMutex
	current *model.Analysis
}

// Option customises a Session
type Option func(*Session)

func WithExporter(e *export.Exporter) Option {
	return func(s *Session) { s.exporter = e }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Session) { s.metrics = m }
}

func WithLogger(l *logger.Logger) Option {
	return func(s *Session) { s.log = l }
}

// New creates a session. The pipeline is expected to record into store.
func New(store *history.Store, pipe *pipeline.Pipeline, opts ...Option) *Session {
	s := &Session{
		store:    store,
		pipe:     pipe,
		exporter: export.New(),
		log:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Store returns the history store
func (s *Session) Store() *history.Store {
	return s.store
}

// Pipeline returns the analysis pipeline
func (s *Session) Pipeline() *pipeline.Pipeline {
	return s.pipe
}

// Exporter returns the report exporter
func (s *Session) Exporter() *export.Exporter {
	return s.exporter
}

// Analyze validates the fields, runs the pipeline and makes the result current
func (s *Session) Analyze(ctx context.Context, contentType string, f request.Fields, sink pipeline.ProgressSink) (*model.Analysis, error) {
	sub, err := request.ValidateRaw(contentType, f)
	if err != nil {
		s.metrics.RejectRun(contentType, "validation")
		s.log.Debug("submission rejected", "type", contentType, "kind", request.KindOf(err))
		return nil, err
	}

	a, err := s.pipe.Run(ctx, sub, sink)
	if err != nil {
		return nil, err
	}

	s.setCurrent(*a)
	return a, nil
}

// Select makes the analysis with id current
func (s *Session) Select(id int64) (model.Analysis, error) {
	a, ok := s.store.FindByID(id)
	if !ok {
		return model.Analysis{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	s.setCurrent(a)
	return a, nil
}

// Find looks up id without changing the selection
func (s *Session) Find(id int64) (model.Analysis, error) {
	a, ok := s.store.FindByID(id)
	if !ok {
		return model.Analysis{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return a, nil
}

// Current returns the current selection
func (s *Session) Current() (model.Analysis, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return model.Analysis{}, false
	}
	return *s.current, true
}

// Recent returns up to n analyses, newest first
func (s *Session) Recent(n int) []model.Analysis {
	return s.store.Recent(n)
}

// Export builds the export document of the current selection
func (s *Session) Export() (export.Document, error) {
	a, ok := s.Current()
	if !ok {
		return export.Document{}, ErrNoCurrentAnalysis
	}
	s.metrics.RecordExport()
	return s.exporter.Export(a), nil
}

// WriteExport writes the current selection's export to w
func (s *Session) WriteExport(w io.Writer) (model.Analysis, error) {
	a, ok := s.Current()
	if !ok {
		return model.Analysis{}, ErrNoCurrentAnalysis
	}
	if err := s.exporter.Write(w, a); err != nil {
		return model.Analysis{}, err
	}
	s.metrics.RecordExport()
	return a, nil
}

// WriteExportFor writes the export of the analysis with id to w
func (s *Session) WriteExportFor(w io.Writer, id int64) (model.Analysis, error) {
	a, err := s.Find(id)
	if err != nil {
		return model.Analysis{}, err
	}
	if err := s.exporter.Write(w, a); err != nil {
		return model.Analysis{}, err
	}
	s.metrics.RecordExport()
	return a, nil
}

// Feedback acknowledges a user verdict on the current result
func (s *Session) Feedback(kind string) (string, error) {
	kind = strings.TrimSpace(kind)
	if kind == "" {
		return "", ErrEmptyFeedback
	}
	s.metrics.RecordFeedback(kind)
	s.log.Info("feedback received", "kind", kind)
	return fmt.Sprintf("Thank you for your %s feedback!", kind), nil
}

// Present renders the result card of a; render failures are logged before returning
func (s *Session) Present(w io.Writer, a model.Analysis) error {
	if err := render.Summary(w, a.Result); err != nil {
		s.log.Error("render failed", "id", a.ID, "error", err)
		return fmt.Errorf("render result: %w", err)
	}
	return nil
}

func (s *Session) setCurrent(a model.Analysis) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &a
}
