package pipeline

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/ppiankov/credence/internal/logger"
	"github.com/ppiankov/credence/internal/metrics"
	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/score"
	"golang.org/x/sync/semaphore"
)

// ErrRunInFlight is returned when single-flight is enabled and a run is already executing
var ErrRunInFlight = errors.New("an analysis is already in progress")

// ProgressSink receives one call per stage transition
type ProgressSink interface {
	OnProgress(stage string, fraction float64)
}

// ProgressFunc adapts a function to ProgressSink
type ProgressFunc func(stage string, fraction float64)

func (f ProgressFunc) OnProgress(stage string, fraction float64) {
	f(stage, fraction)
}

// Recorder stores completed analyses
type Recorder interface {
	Record(a model.Analysis)
	Len() int
}

// Resolver replaces URL submissions with the fetched page text
type Resolver interface {
	Resolve(ctx context.Context, rawURL string) (string, error)
}

// Sleeper suspends for d or until ctx is done
type Sleeper func(ctx context.Context, d time.Duration) error

// Pipeline drives the staged evaluation of one submission per Run call.
// Runs share nothing except the recorder; concurrent runs proceed independently
// unless single-flight is enabled.
type Pipeline struct {
	stages   []Stage
	scorer   score.Model
	recorder Recorder
	resolver Resolver
	metrics  *metrics.Metrics
	log      *logger.Logger
	ids      *IDGenerator
	sleep    Sleeper
	now      func() time.Time
	jitter   func() float64
	flight   *semaphore.Weighted // nil unless single-flight
}

// Option customises a Pipeline
type Option func(*Pipeline)

// WithStages replaces the stage list
func WithStages(stages []Stage) Option {
	return func(p *Pipeline) { p.stages = stages }
}

// WithRecorder sets where completed analyses are recorded
func WithRecorder(r Recorder) Option {
	return func(p *Pipeline) { p.recorder = r }
}

// WithResolver enables URL submissions
func WithResolver(r Resolver) Option {
	return func(p *Pipeline) { p.resolver = r }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) { p.metrics = m }
}

func WithLogger(l *logger.Logger) Option {
	return func(p *Pipeline) { p.log = l }
}

func WithSleeper(s Sleeper) Option {
	return func(p *Pipeline) { p.sleep = s }
}

func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) { p.now = now }
}

// WithJitter sets the [0,1) source used to pick stage delays
func WithJitter(f func() float64) Option {
	return func(p *Pipeline) { p.jitter = f }
}

// WithSingleFlight rejects a Run while another is executing
func WithSingleFlight(enabled bool) Option {
	return func(p *Pipeline) {
		if enabled {
			p.flight = semaphore.NewWeighted(1)
		} else {
			p.flight = nil
		}
	}
}

// New creates a pipeline around a score model
func New(scorer score.Model, opts ...Option) *Pipeline {
	p := &Pipeline{
		stages: DefaultStages(),
		scorer: scorer,
		log:    logger.Nop(),
		ids:    &IDGenerator{},
		sleep:  sleepContext,
		now:    time.Now,
		jitter: rand.Float64,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewPipeline creates a pipeline configured from cfg
func NewPipeline(cfg *model.Config, scorer score.Model, opts ...Option) *Pipeline {
	base := []Option{
		WithStages(StagesWithDelay(cfg.Pipeline.MinStageDelay, cfg.Pipeline.MaxStageDelay)),
		WithSingleFlight(cfg.Pipeline.SingleFlight),
	}
	return New(scorer, append(base, opts...)...)
}

// Stages returns the configured stage list
func (p *Pipeline) Stages() []Stage {
	out := make([]Stage, len(p.stages))
	copy(out, p.stages)
	return out
}

// ScorerName reports which score model backs the pipeline
func (p *Pipeline) ScorerName() string {
	return p.scorer.Name()
}

// Run evaluates sub and returns the finished analysis.
// A failure at any stage ends the run without recording anything.
func (p *Pipeline) Run(ctx context.Context, sub model.Submission, sink ProgressSink) (*model.Analysis, error) {
	contentType := string(sub.Type)

	if p.flight != nil {
		if !p.flight.TryAcquire(1) {
			p.metrics.RejectRun(contentType, "in_flight")
			return nil, ErrRunInFlight
		}
		defer p.flight.Release(1)
	}

	p.metrics.StartRun()
	started := p.now()
	log := p.log.With("type", contentType)

	fail := func(reason string, err error) (*model.Analysis, error) {
		p.metrics.FinishRun(contentType, "", reason, p.now().Sub(started))
		log.Warn("analysis failed", "reason", reason, "error", err)
		return nil, err
	}

	// 1. Resolve URL input into page text
	if sub.SourceURL != "" && p.resolver != nil {
		text, err := p.resolver.Resolve(ctx, sub.SourceURL)
		if err != nil {
			return fail("resolve", fmt.Errorf("resolve %s: %w", sub.SourceURL, err))
		}
		sub.RawContent = text
	}

	// 2. Report each stage, then suspend
	total := len(p.stages)
	for i, stage := range p.stages {
		if err := ctx.Err(); err != nil {
			return fail("canceled", err)
		}

		stageStart := p.now()
		if sink != nil {
			sink.OnProgress(stage.Label, float64(i+1)/float64(total))
		}
		log.Debug("stage", "index", i+1, "label", stage.Label)

		if err := p.sleep(ctx, stage.delay(p.jitter())); err != nil {
			return fail("canceled", err)
		}
		p.metrics.ObserveStage(stage.Label, p.now().Sub(stageStart))
	}

	// 3. Score
	result, err := p.scorer.Score(ctx, score.Input{
		Type:            sub.Type,
		ContentSummary:  sub.Summary(),
		CulturalContext: sub.CulturalContext,
	})
	if err != nil {
		return fail("score", fmt.Errorf("score: %w", err))
	}

	// An abandoned run discards its result
	if err := ctx.Err(); err != nil {
		return fail("canceled", err)
	}

	// 4. Materialize; id and timestamp are taken at completion
	completed := p.now()
	analysis := &model.Analysis{
		ID:             p.ids.Next(completed),
		Type:           sub.Type,
		ContentSummary: sub.Summary(),
		Timestamp:      completed,
		Result:         result,
	}

	// 5. Record
	if p.recorder != nil {
		p.recorder.Record(*analysis)
		p.metrics.SetHistorySize(p.recorder.Len())
	}

	p.metrics.FinishRun(contentType, string(result.Credibility), "", completed.Sub(started))
	log.Info("analysis completed",
		"id", analysis.ID,
		"score", result.OverallScore,
		"credibility", result.Credibility,
		"scorer", p.scorer.Name(),
	)

	return analysis, nil
}

// Outcome is the eventual value of an asynchronous run
type Outcome struct {
	Analysis *model.Analysis
	Err      error
}

// Start runs the pipeline in its own goroutine.
// The returned channel receives exactly one Outcome and is then closed.
func (p *Pipeline) Start(ctx context.Context, sub model.Submission, sink ProgressSink) <-chan Outcome {
	out := make(chan Outcome, 1)
	go func() {
		defer close(out)
		a, err := p.Run(ctx, sub, sink)
		out <- Outcome{Analysis: a, Err: err}
	}()
	return out
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
