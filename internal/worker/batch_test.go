package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/pipeline"
	"github.com/ppiankov/credence/internal/request"
)

type mockAnalyzer struct {
	mu    sync.Mutex
	calls []string
	fail  bool
}

func (m *mockAnalyzer) Analyze(ctx context.Context, contentType string, f request.Fields, sink pipeline.ProgressSink) (*model.Analysis, error) {
	time.Sleep(time.Millisecond)
	m.mu.Lock()
	m.calls = append(m.calls, contentType)
	m.mu.Unlock()

	if m.fail {
		return nil, errors.New("analysis error")
	}
	sub, err := request.ValidateRaw(contentType, f)
	if err != nil {
		return nil, err
	}
	return &model.Analysis{
		Type:           sub.Type,
		ContentSummary: sub.Summary(),
		Result:         model.AnalysisResult{OverallScore: 80, Credibility: model.CredibilityCredible},
	}, nil
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestBatchProcessor_ProcessItems_Order(t *testing.T) {
	processor := NewBatchProcessor(&mockAnalyzer{}, 3)

	items := make([]Item, 12)
	for i := range items {
		items[i] = Item{Type: "text", Fields: request.Fields{Text: string(rune('a' + i))}}
	}

	results := processor.ProcessItems(context.Background(), items)
	if len(results) != len(items) {
		t.Fatalf("expected %d results, got %d", len(items), len(results))
	}
	for i, r := range results {
		if r.Index != i {
			t.Fatalf("result %d has index %d", i, r.Index)
		}
		if r.Error != nil {
			t.Errorf("unexpected error: %v", r.Error)
		}
		if r.Analysis.ContentSummary != items[i].Text {
			t.Errorf("result %d summary %q, want %q", i, r.Analysis.ContentSummary, items[i].Text)
		}
	}
}

func TestBatchProcessor_PerItemErrors(t *testing.T) {
	processor := NewBatchProcessor(&mockAnalyzer{}, 2)

	results := processor.ProcessItems(context.Background(), []Item{
		{Type: "text", Fields: request.Fields{Text: "ok"}},
		{Type: "image"},
		{Type: "pdf", Fields: request.Fields{Text: "x"}},
	})

	if results[0].Error != nil {
		t.Errorf("first item should succeed: %v", results[0].Error)
	}
	if request.KindOf(results[1].Error) != request.NoFileProvided {
		t.Errorf("expected NoFileProvided, got %v", results[1].Error)
	}
	if request.KindOf(results[2].Error) != request.UnknownContentType {
		t.Errorf("expected UnknownContentType, got %v", results[2].Error)
	}

	s := Summarize(results)
	if s.Total != 3 || s.Failed != 2 || s.ByCredibility[model.CredibilityCredible] != 1 {
		t.Errorf("unexpected summary: %+v", s)
	}
}

func TestBatchProcessor_Empty(t *testing.T) {
	processor := NewBatchProcessor(&mockAnalyzer{}, 2)
	if results := processor.ProcessItems(context.Background(), nil); len(results) != 0 {
		t.Errorf("expected 0 results, got %d", len(results))
	}
}

func TestBatchProcessor_AnalyzerFailure(t *testing.T) {
	processor := NewBatchProcessor(&mockAnalyzer{fail: true}, 1)
	results := processor.ProcessItems(context.Background(), []Item{{Type: "text"}})
	if results[0].GetError() == nil || results[0].Analysis != nil {
		t.Errorf("expected failed item, got %+v", results[0])
	}
}

func TestLoadItems_YAML(t *testing.T) {
	path := writeFile(t, "batch.yaml", `items:
  - type: text
    text: "Scientists confirm water is wet"
    cultural_context: fr-FR
  - type: image
    files: [photo.jpg]
  - type: combined
    files: [a.mp4, b.mp3]
`)

	items, err := LoadItems(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].CulturalContext != "fr-FR" || items[0].Text == "" {
		t.Errorf("unexpected first item: %+v", items[0])
	}
	if len(items[1].Files) != 1 || items[1].Files[0] != "photo.jpg" {
		t.Errorf("unexpected files: %v", items[1].Files)
	}
	if items[2].Type != "combined" || len(items[2].Files) != 2 {
		t.Errorf("unexpected third item: %+v", items[2])
	}
}

func TestLoadItems_InvalidYAML(t *testing.T) {
	path := writeFile(t, "batch.yml", "items: [\n")
	if _, err := LoadItems(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestLoadItems_URLList(t *testing.T) {
	path := writeFile(t, "urls.txt", "https://example.com/a\n# comment\n\nhttps://example.com/a\nhttps://example.com/b\n")

	items, err := LoadItems(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 deduplicated items, got %d", len(items))
	}
	if items[0].Type != "text" || items[0].InputMethod != request.MethodURL {
		t.Errorf("URL lines should become url text items, got %+v", items[0])
	}
}

func TestReadURLsFromFile_NonExistent(t *testing.T) {
	if _, err := ReadURLsFromFile("non_existent_file.txt"); err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestBatchProcessor_ProcessFile(t *testing.T) {
	path := writeFile(t, "batch.yaml", "items:\n  - type: text\n    text: hello\n  - type: audio\n    files: [clip.mp3]\n")

	analyzer := &mockAnalyzer{}
	results, err := NewBatchProcessor(analyzer, 2).ProcessFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ProcessFile failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("expected 2 results, got %d", len(results))
	}
	if len(analyzer.calls) != 2 {
		t.Errorf("expected 2 analyzer calls, got %d", len(analyzer.calls))
	}
}

func TestBatchProcessor_ProcessFile_NonExistent(t *testing.T) {
	if _, err := NewBatchProcessor(&mockAnalyzer{}, 2).ProcessFile(context.Background(), "no_such_file.yaml"); err == nil {
		t.Error("expected error for non-existent file, got nil")
	}
}

func TestBatchProcessor_ExpiredContextReportsEveryItem(t *testing.T) {
	processor := NewBatchProcessor(&mockAnalyzer{}, 2)

	items := make([]Item, 200)
	for i := range items {
		items[i] = Item{Type: "text", Fields: request.Fields{Text: "item"}}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	results := processor.ProcessItems(ctx, items)
	if len(results) != len(items) {
		t.Fatalf("expected %d results, got %d", len(items), len(results))
	}

	dropped := 0
	for i, r := range results {
		if r == nil || r.Index != i {
			t.Fatalf("result %d missing or out of order: %+v", i, r)
		}
		if r.Error != nil && errors.Is(r.Error, context.DeadlineExceeded) {
			dropped++
		}
	}
	if dropped == 0 {
		t.Error("expected items dropped by the deadline to be reported as failures")
	}

	s := Summarize(results)
	if s.Total != len(items) || s.Failed < dropped {
		t.Errorf("unexpected summary %+v (dropped %d)", s, dropped)
	}
}
