package worker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/pipeline"
	"github.com/ppiankov/credence/internal/request"
)

// ErrNotRun marks a batch item that never reached a worker
var ErrNotRun = errors.New("item was not run")

// Analyzer validates and runs one submission
type Analyzer interface {
	Analyze(ctx context.Context, contentType string, f request.Fields, sink pipeline.ProgressSink) (*model.Analysis, error)
}

// Item is one submission in a batch file
type Item struct {
	Type           string `yaml:"type"`
	request.Fields `yaml:",inline"`
}

// File is the YAML batch document
type File struct {
	Items []Item `yaml:"items"`
}

// AnalysisJob runs one batch item
type AnalysisJob struct {
	Index    int
	Item     Item
	Analyzer Analyzer
}

// Execute runs the item through the analyzer
func (j *AnalysisJob) Execute(ctx context.Context) Result {
	a, err := j.Analyzer.Analyze(ctx, j.Item.Type, j.Item.Fields, nil)
	return &ItemResult{
		Index:    j.Index,
		Item:     j.Item,
		Analysis: a,
		Error:    err,
	}
}

// ItemResult is the outcome of one batch item
type ItemResult struct {
	Index    int
	Item     Item
	Analysis *model.Analysis
	Error    error
}

// GetError returns the item error
func (r *ItemResult) GetError() error {
	return r.Error
}

// BatchProcessor runs many submissions concurrently
type BatchProcessor struct {
	analyzer    Analyzer
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(analyzer Analyzer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		analyzer:    analyzer,
		concurrency: concurrency,
	}
}

// ProcessItems runs every item and returns results in input order
func (b *BatchProcessor) ProcessItems(ctx context.Context, items []Item) []*ItemResult {
	if len(items) == 0 {
		return []*ItemResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	go func() {
		for i, item := range items {
			pool.Submit(&AnalysisJob{Index: i, Item: item, Analyzer: b.analyzer})
		}
		pool.Close()
	}()

	// One slot per item; jobs dropped on cancellation keep a failed result
	results := make([]*ItemResult, len(items))
	for r := range pool.Results() {
		ir := r.(*ItemResult)
		results[ir.Index] = ir
	}

	for i, r := range results {
		if r != nil {
			continue
		}
		err := ctx.Err()
		if err == nil {
			err = ErrNotRun
		}
		results[i] = &ItemResult{Index: i, Item: items[i], Error: fmt.Errorf("not run: %w", err)}
	}
	return results
}

// ProcessFile loads a batch file and processes it
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*ItemResult, error) {
	items, err := LoadItems(filePath)
	if err != nil {
		return nil, err
	}
	return b.ProcessItems(ctx, items), nil
}

// Summary counts batch outcomes by label
type Summary struct {
	Total         int
	Failed        int
	ByCredibility map[model.Credibility]int
}

// Summarize tallies results
func Summarize(results []*ItemResult) Summary {
	s := Summary{Total: len(results), ByCredibility: make(map[model.Credibility]int)}
	for _, r := range results {
		if r.Error != nil || r.Analysis == nil {
			s.Failed++
			continue
		}
		s.ByCredibility[r.Analysis.Result.Credibility]++
	}
	return s
}

// LoadItems reads a .yaml/.yml batch document, or any other file as a URL list
func LoadItems(filePath string) ([]Item, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		return readYAMLItems(filePath)
	default:
		urls, err := ReadURLsFromFile(filePath)
		if err != nil {
			return nil, err
		}
		items := make([]Item, len(urls))
		for i, u := range urls {
			items[i] = Item{
				Type:   string(model.ContentText),
				Fields: request.Fields{Text: u, InputMethod: request.MethodURL},
			}
		}
		return items, nil
	}
}

func readYAMLItems(filePath string) ([]Item, error) {
	raw, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read batch file: %w", err)
	}

	var doc File
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("parse batch file: %w", err)
	}
	return doc.Items, nil
}

// ReadURLsFromFile reads one URL per line, skipping blanks, comments and duplicates
func ReadURLsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var urls []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			urls = append(urls, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return urls, nil
}
