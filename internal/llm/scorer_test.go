package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/score"
)

type stubProvider struct {
	text string
	err  error
	last CompletionRequest
}

func (p *stubProvider) Name() string                         { return "stub" }
func (p *stubProvider) IsAvailable(ctx context.Context) bool { return true }
func (p *stubProvider) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	p.last = req
	if p.err != nil {
		return nil, p.err
	}
	return &CompletionResponse{Text: p.text, Model: "stub-1"}, nil
}

func testInput() score.Input {
	return score.Input{Type: model.ContentText, ContentSummary: "Mayor cuts taxes", CulturalContext: "fr-FR"}
}

func TestParseVerdict_CodeFence(t *testing.T) {
	v, err := ParseVerdict("Here you go:\n```json\n{\"score\": 42, \"flags\": [\"x\"]}\n```")
	if err != nil {
		t.Fatal(err)
	}
	if *v.Score != 42 || len(v.Flags) != 1 {
		t.Errorf("Unexpected verdict: %+v", v)
	}
}

func TestParseVerdict_Errors(t *testing.T) {
	if _, err := ParseVerdict("no json here"); !errors.Is(err, ErrNoVerdict) {
		t.Errorf("Expected ErrNoVerdict, got %v", err)
	}
	if _, err := ParseVerdict(`{"flags": []}`); err == nil {
		t.Error("Expected error for missing score")
	}
	if _, err := ParseVerdict(`{"score": "high"}`); err == nil {
		t.Error("Expected error for non-numeric score")
	}
}

func TestVerdict_ResultFallbacks(t *testing.T) {
	s := 150.0
	res := (&Verdict{Score: &s, Flags: []string{" ", ""}}).Result(score.Input{Type: model.ContentImage})

	if res.OverallScore != 100 || res.Credibility != model.CredibilityCredible {
		t.Errorf("Unexpected score/label: %d %s", res.OverallScore, res.Credibility)
	}
	if len(res.Flags) != 3 || res.Flags[0] != score.FlagsFor(model.CredibilityCredible)[0] {
		t.Errorf("Expected band flags fallback, got %v", res.Flags)
	}
	if res.Explanation != score.ExplanationsFor(model.CredibilityCredible)[0] {
		t.Errorf("Expected band explanation fallback, got %q", res.Explanation)
	}
	if res.CulturalContext != model.DefaultCulturalContext {
		t.Errorf("Expected default context, got %q", res.CulturalContext)
	}
	for _, c := range model.Categories {
		if res.Breakdown.Get(c) != 100 {
			t.Errorf("Expected missing %s to take overall score, got %v", c, res.Breakdown.Get(c))
		}
	}
}

func TestScoreModel_Score(t *testing.T) {
	p := &stubProvider{text: `{"score": 39, "flags": ["Unverified claim"], "explanation": "No source.", "breakdown": {"text": 35}}`}
	m := NewScoreModel(p, nil)

	res, err := m.Score(context.Background(), testInput())
	if err != nil {
		t.Fatal(err)
	}
	if res.Credibility != model.CredibilityLikelyFake || res.Band() != model.BandLow {
		t.Errorf("Unexpected label: %s", res.Credibility)
	}
	if res.CulturalContext != "fr-FR" || res.Breakdown.Text != 35 || res.Breakdown.Audio != 39 {
		t.Errorf("Unexpected result: %+v", res)
	}
	if !strings.Contains(p.last.Prompt, "French (France)") || !strings.Contains(p.last.Prompt, "Mayor cuts taxes") {
		t.Errorf("Prompt missing context or content: %s", p.last.Prompt)
	}
	if p.last.System == "" {
		t.Error("Expected system prompt")
	}
}

func TestScoreModel_Failures(t *testing.T) {
	boom := errors.New("boom")
	if _, err := NewScoreModel(&stubProvider{err: boom}, nil).Score(context.Background(), testInput()); !errors.Is(err, boom) {
		t.Errorf("Expected provider error, got %v", err)
	}
	if _, err := NewScoreModel(&stubProvider{text: "sorry"}, nil).Score(context.Background(), testInput()); err == nil {
		t.Error("Expected parse error")
	}
}

func TestNewProvider(t *testing.T) {
	if _, err := NewProvider(Config{Provider: "bard"}); err == nil {
		t.Error("Expected error for unknown provider")
	}
	p, err := NewProvider(Config{Provider: "ollama", Model: "mistral"})
	if err != nil || p.Name() != "ollama" {
		t.Errorf("Expected ollama provider, got %v %v", p, err)
	}
	p, err = NewProvider(Config{Provider: "Claude", APIKey: "k"})
	if err != nil || p.Name() != "anthropic" {
		t.Errorf("Expected anthropic provider, got %v %v", p, err)
	}
}

func TestConfigFromModel_EnvKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "from-env")
	cfg := ConfigFromModel(model.LLMConfig{Provider: "anthropic", Model: "m", Timeout: 9}, model.HTTPConfig{HTTPProxy: "http://p:1"})
	if cfg.APIKey != "from-env" || cfg.Timeout != 9 || cfg.HTTPProxy != "http://p:1" {
		t.Errorf("Unexpected config: %+v", cfg)
	}

	cfg = ConfigFromModel(model.LLMConfig{Provider: "openai", APIKey: "explicit"}, model.HTTPConfig{})
	if cfg.APIKey != "explicit" {
		t.Errorf("Explicit key should win, got %q", cfg.APIKey)
	}
}
