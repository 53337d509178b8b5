package score

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/ppiankov/credence/internal/model"
)

// stubSource returns a fixed base score and fixed jitter fraction
type stubSource struct {
	base  int
	pick  int
	noise float64
	calls int
}

func (s *stubSource) IntN(n int) int {
	s.calls++
	if s.calls == 1 {
		return s.base
	}
	return s.pick % n
}

func (s *stubSource) Float64() float64 {
	return s.noise
}

func TestScorer_Calculate_AlwaysPopulated(t *testing.T) {
	scorer := NewScorerWithSource(rand.New(rand.NewPCG(1, 2)))

	for i := 0; i < 500; i++ {
		result := scorer.Calculate(Input{Type: model.ContentText, ContentSummary: "x", CulturalContext: "en-US"})

		if result.OverallScore < 0 || result.OverallScore > 99 {
			t.Fatalf("score out of range: %d", result.OverallScore)
		}
		if result.Credibility != model.CredibilityFor(result.OverallScore) {
			t.Fatalf("label %q does not match score %d", result.Credibility, result.OverallScore)
		}
		if len(result.Flags) != 3 {
			t.Fatalf("expected 3 flags, got %d", len(result.Flags))
		}
		if result.Explanation == "" {
			t.Fatal("expected explanation")
		}
		for _, c := range model.Categories {
			v := result.Breakdown.Get(c)
			if v < 0 || v > 100 {
				t.Fatalf("breakdown %s out of range: %v", c, v)
			}
		}
	}
}

func TestScorer_Calculate_ClampsAtBothEnds(t *testing.T) {
	tests := []struct {
		name  string
		base  int
		noise float64
		want  float64
	}{
		{"zero with max negative jitter", 0, 0, 0},
		{"99 with max positive jitter", 99, 0.9999, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scorer := NewScorerWithSource(&stubSource{base: tt.base, noise: tt.noise})
			result := scorer.Calculate(Input{Type: model.ContentImage})

			for _, c := range model.Categories {
				v := result.Breakdown.Get(c)
				if v < 0 || v > 100 {
					t.Errorf("%s out of range: %v", c, v)
				}
			}
			if got := result.Breakdown.Text; got != tt.want {
				t.Errorf("expected text clamped to %v, got %v", tt.want, got)
			}
		})
	}
}

func TestScorer_Calculate_CulturalJitterNarrower(t *testing.T) {
	scorer := NewScorerWithSource(&stubSource{base: 50, noise: 0})
	result := scorer.Calculate(Input{})

	if result.Breakdown.Text != 40 {
		t.Errorf("expected text 40 (50-10), got %v", result.Breakdown.Text)
	}
	if result.Breakdown.Cultural != 42.5 {
		t.Errorf("expected cultural 42.5 (50-7.5), got %v", result.Breakdown.Cultural)
	}
}

func TestScorer_Calculate_FlagsAndExplanationsByBand(t *testing.T) {
	for _, base := range []int{10, 39, 40, 69, 70, 99} {
		for pick := 0; pick < 3; pick++ {
			scorer := NewScorerWithSource(&stubSource{base: base, pick: pick, noise: 0.5})
			result := scorer.Calculate(Input{})

			label := model.CredibilityFor(base)
			wantFlags := FlagsFor(label)
			for i := range wantFlags {
				if result.Flags[i] != wantFlags[i] {
					t.Errorf("base %d: flag %d = %q, want %q", base, i, result.Flags[i], wantFlags[i])
				}
			}
			if result.Explanation != ExplanationsFor(label)[pick] {
				t.Errorf("base %d pick %d: unexpected explanation %q", base, pick, result.Explanation)
			}
		}
	}
}

func TestScorer_Calculate_DefaultsCulturalContext(t *testing.T) {
	scorer := NewScorer()
	if got := scorer.Calculate(Input{}).CulturalContext; got != "en-US" {
		t.Errorf("expected en-US, got %q", got)
	}
	if got := scorer.Calculate(Input{CulturalContext: "zh-CN"}).CulturalContext; got != "zh-CN" {
		t.Errorf("expected zh-CN, got %q", got)
	}
}

func TestScorer_Score_NeverFails(t *testing.T) {
	var m Model = NewScorer()
	if _, err := m.Score(context.Background(), Input{Type: model.ContentAudio}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Name() != "random" {
		t.Errorf("unexpected name %q", m.Name())
	}
}

func TestFlagsFor_ReturnsCopy(t *testing.T) {
	flags := FlagsFor(model.CredibilityCredible)
	flags[0] = "changed"
	if FlagsFor(model.CredibilityCredible)[0] != "Content appears authentic" {
		t.Error("FlagsFor must return a copy")
	}
}
