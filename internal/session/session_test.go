package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/ppiankov/credence/internal/export"
	"github.com/ppiankov/credence/internal/history"
	"github.com/ppiankov/credence/internal/metrics"
	"github.com/ppiankov/credence/internal/pipeline"
	"github.com/ppiankov/credence/internal/render"
	"github.com/ppiankov/credence/internal/request"
	"github.com/ppiankov/credence/internal/score"
)

func newSession(t *testing.T) (*Session, *metrics.Metrics) {
	t.Helper()
	store := history.NewStore()
	m := metrics.New()
	p := pipeline.New(score.NewScorer(),
		pipeline.WithStages(pipeline.ZeroDelayStages()),
		pipeline.WithRecorder(store),
		pipeline.WithMetrics(m),
	)
	fixed := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return New(store, p, WithMetrics(m), WithExporter(export.NewWithClock(func() time.Time { return fixed }))), m
}

func TestSession_AnalyzeSetsCurrent(t *testing.T) {
	s, _ := newSession(t)

	if _, ok := s.Current(); ok {
		t.Fatal("expected no current analysis initially")
	}

	a, err := s.Analyze(context.Background(), "text", request.Fields{Text: "hello"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	cur, ok := s.Current()
	if !ok || cur.ID != a.ID {
		t.Errorf("expected current to be %d, got %+v", a.ID, cur)
	}
	if recent := s.Recent(1); len(recent) != 1 || recent[0].ID != a.ID {
		t.Errorf("expected analysis at head of history, got %+v", recent)
	}
}

func TestSession_AnalyzeValidation(t *testing.T) {
	s, m := newSession(t)

	_, err := s.Analyze(context.Background(), "text", request.Fields{Text: "   "}, nil)
	if request.KindOf(err) != request.EmptyText {
		t.Fatalf("expected EmptyText, got %v", err)
	}
	if s.Store().Len() != 0 {
		t.Error("rejected submission must not reach history")
	}
	expected := `
# HELP credence_pipeline_failures_total Analysis runs that did not complete.
# TYPE credence_pipeline_failures_total counter
credence_pipeline_failures_total{reason="validation",type="text"} 1
`
	if err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "credence_pipeline_failures_total"); err != nil {
		t.Error(err)
	}
}

func TestSession_ExportWithoutCurrent(t *testing.T) {
	s, _ := newSession(t)
	s.Store().Seed(history.DemoAnalyses(time.Now())...)

	if _, err := s.Export(); !errors.Is(err, ErrNoCurrentAnalysis) {
		t.Errorf("expected ErrNoCurrentAnalysis, got %v", err)
	}
	var buf bytes.Buffer
	if _, err := s.WriteExport(&buf); !errors.Is(err, ErrNoCurrentAnalysis) {
		t.Errorf("expected ErrNoCurrentAnalysis, got %v", err)
	}
	if buf.Len() != 0 {
		t.Error("failed export must not write")
	}
}

func TestSession_SelectAndExport(t *testing.T) {
	s, m := newSession(t)
	demo := history.DemoAnalyses(time.Now())
	s.Store().Seed(demo...)

	if _, err := s.Select(999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	picked, err := s.Select(demo[1].ID)
	if err != nil {
		t.Fatal(err)
	}

	doc, err := s.Export()
	if err != nil {
		t.Fatal(err)
	}
	if doc.Analysis.ID != picked.ID || doc.ExportTime != "2024-01-02T03:04:05.000Z" {
		t.Errorf("unexpected document %+v", doc)
	}

	var buf bytes.Buffer
	if _, err := s.WriteExport(&buf); err != nil {
		t.Fatal(err)
	}
	var decoded export.Document
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.Version != "1.0" {
		t.Errorf("unexpected version %q", decoded.Version)
	}
	expected := `
# HELP credence_export_reports_total Exported analysis reports.
# TYPE credence_export_reports_total counter
credence_export_reports_total 2
`
	if err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "credence_export_reports_total"); err != nil {
		t.Error(err)
	}
}

func TestSession_FindKeepsSelection(t *testing.T) {
	s, _ := newSession(t)
	demo := history.DemoAnalyses(time.Now())
	s.Store().Seed(demo...)

	if _, err := s.Find(demo[0].ID); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Current(); ok {
		t.Error("Find must not change the selection")
	}
}

func TestSession_LastCompletionWins(t *testing.T) {
	s, _ := newSession(t)

	first, _ := s.Analyze(context.Background(), "text", request.Fields{Text: "one"}, nil)
	second, _ := s.Analyze(context.Background(), "image", request.Fields{Files: []string{"a.png"}}, nil)

	cur, _ := s.Current()
	if cur.ID != second.ID || cur.ID == first.ID {
		t.Errorf("expected latest completion to be current, got %d", cur.ID)
	}
}

func TestSession_Feedback(t *testing.T) {
	s, m := newSession(t)

	msg, err := s.Feedback("accurate")
	if err != nil {
		t.Fatal(err)
	}
	if msg != "Thank you for your accurate feedback!" {
		t.Errorf("got %q", msg)
	}
	if _, err := s.Feedback("  "); !errors.Is(err, ErrEmptyFeedback) {
		t.Errorf("expected ErrEmptyFeedback, got %v", err)
	}
	expected := `
# HELP credence_session_feedback_total Feedback submissions by kind.
# TYPE credence_session_feedback_total counter
credence_session_feedback_total{kind="accurate"} 1
`
	if err := testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "credence_session_feedback_total"); err != nil {
		t.Error(err)
	}
}

func TestSession_Present(t *testing.T) {
	s, _ := newSession(t)
	a := history.DemoAnalyses(time.Now())[0]

	var buf bytes.Buffer
	if err := s.Present(&buf, a); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Credible (75%)") {
		t.Errorf("unexpected card:\n%s", buf.String())
	}

	if err := s.Present(nil, a); !errors.Is(err, render.ErrRenderTargetMissing) {
		t.Errorf("expected ErrRenderTargetMissing, got %v", err)
	}
}

func TestSession_Accessors(t *testing.T) {
	s, _ := newSession(t)
	if s.Pipeline() == nil || s.Exporter() == nil || s.Store() == nil {
		t.Error("accessors must not be nil")
	}
	if s.Pipeline().ScorerName() != "random" {
		t.Errorf("unexpected scorer %q", s.Pipeline().ScorerName())
	}
}

func TestSession_WriteExportFor(t *testing.T) {
	s, _ := newSession(t)
	demo := history.DemoAnalyses(time.Now())
	s.Store().Seed(demo...)

	var buf bytes.Buffer
	a, err := s.WriteExportFor(&buf, demo[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if a.ID != demo[0].ID || !strings.Contains(buf.String(), `"systemInfo"`) {
		t.Errorf("unexpected export:\n%s", buf.String())
	}
	if _, err := s.WriteExportFor(&buf, 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
