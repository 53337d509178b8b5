package cli

import (
	"fmt"
	"time"

	"github.com/ppiankov/credence/internal/cache"
	"github.com/ppiankov/credence/internal/fetch"
	"github.com/ppiankov/credence/internal/history"
	"github.com/ppiankov/credence/internal/llm"
	"github.com/ppiankov/credence/internal/logger"
	"github.com/ppiankov/credence/internal/metrics"
	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/pipeline"
	"github.com/ppiankov/credence/internal/score"
	"github.com/ppiankov/credence/internal/session"
	"github.com/ppiankov/credence/internal/worker"
	"github.com/spf13/viper"
)

// app is everything a command needs, built once from the merged config
type app struct {
	cfg     *model.Config
	log     *logger.Logger
	metrics *metrics.Metrics
	store   *history.Store
	limiter *worker.Limiter
	pipe    *pipeline.Pipeline
	sess    *session.Session
}

type appOptions struct {
	noDelay bool
	log     *logger.Logger
}

func newApp(cfg *model.Config, opts appOptions) (*app, error) {
	log := opts.log
	if log == nil {
		var err error
		log, err = logger.New(cfg.Log.Mode, cfg.Log.Level)
		if err != nil {
			return nil, fmt.Errorf("create logger: %w", err)
		}
	}

	scorer, err := buildScorer(cfg, log)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	store := history.NewStore()
	if cfg.History.SeedDemo {
		store.Seed(history.DemoAnalyses(time.Now())...)
	}
	m.SetHistorySize(store.Len())

	limiter := worker.NewLimiter(cfg.RateLimiting.RequestsPerSecond, cfg.RateLimiting.BurstSize)
	fetcher := fetch.NewFromConfig(cfg, limiter, cache.NewFromConfig(cfg.Cache), log)

	pipeOpts := []pipeline.Option{
		pipeline.WithRecorder(store),
		pipeline.WithResolver(fetcher),
		pipeline.WithMetrics(m),
		pipeline.WithLogger(log),
	}
	if opts.noDelay {
		pipeOpts = append(pipeOpts, pipeline.WithStages(pipeline.ZeroDelayStages()))
	}
	pipe := pipeline.NewPipeline(cfg, scorer, pipeOpts...)

	return &app{
		cfg:     cfg,
		log:     log,
		metrics: m,
		store:   store,
		limiter: limiter,
		pipe:    pipe,
		sess:    session.New(store, pipe, session.WithMetrics(m), session.WithLogger(log)),
	}, nil
}

// buildScorer selects the score model backend
func buildScorer(cfg *model.Config, log *logger.Logger) (score.Model, error) {
	switch cfg.Scoring.Backend {
	case "", "random":
		return score.NewScorer(), nil
	case "llm":
		provider, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM, cfg.HTTP))
		if err != nil {
			return nil, fmt.Errorf("create llm provider: %w", err)
		}
		return llm.NewScoreModel(provider, log), nil
	default:
		return nil, fmt.Errorf("unknown scoring backend: %s (supported: random, llm)", cfg.Scoring.Backend)
	}
}

// prepare loads config and builds the app, applying per-command overrides
func prepare(noDelay bool) (*app, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}
	return newApp(cfg, appOptions{noDelay: noDelay})
}
