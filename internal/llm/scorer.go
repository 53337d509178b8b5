package llm

import (
	"context"

	"github.com/ppiankov/credence/internal/logger"
	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/score"
)

// ScoreModel scores submissions by asking a Provider for a JSON verdict
type ScoreModel struct {
	provider Provider
	log      *logger.Logger
}

// NewScoreModel wraps provider as a score.Model
func NewScoreModel(provider Provider, log *logger.Logger) *ScoreModel {
	if log == nil {
		log = logger.Nop()
	}
	return &ScoreModel{provider: provider, log: log}
}

// Name identifies the backend, e.g. "llm:openai"
func (m *ScoreModel) Name() string {
	return "llm:" + m.provider.Name()
}

// Score sends one prompt and converts the verdict
func (m *ScoreModel) Score(ctx context.Context, in score.Input) (model.AnalysisResult, error) {
	resp, err := m.provider.Complete(ctx, CompletionRequest{
		System: systemPrompt,
		Prompt: BuildPrompt(in),
	})
	if err != nil {
		return model.AnalysisResult{}, err
	}

	verdict, err := ParseVerdict(resp.Text)
	if err != nil {
		m.log.Warn("unparseable verdict", "provider", m.provider.Name(), "model", resp.Model, "error", err)
		return model.AnalysisResult{}, err
	}

	m.log.Debug("verdict", "provider", m.provider.Name(), "model", resp.Model, "tokens", resp.TokensUsed)
	return verdict.Result(in), nil
}

var _ score.Model = (*ScoreModel)(nil)

var (
	_ Provider = (*OpenAIProvider)(nil)
	_ Provider = (*AnthropicProvider)(nil)
	_ Provider = (*OllamaProvider)(nil)
)
