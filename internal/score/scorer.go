package score

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/ppiankov/credence/internal/model"
)

// Input is what a score model sees of a submission
type Input struct {
	Type            model.ContentType
	ContentSummary  string
	CulturalContext string
}

// Model maps a submission to a credibility result.
// The randomized Scorer is a placeholder; inference backends implement the same interface.
type Model interface {
	Name() string
	Score(ctx context.Context, in Input) (model.AnalysisResult, error)
}

// Source is the randomness a Scorer draws from (satisfied by *rand.Rand)
type Source interface {
	IntN(n int) int
	Float64() float64
}

// Jitter spreads for breakdown noise (total width, centred on the base score)
const (
	mediaJitter    = 20.0 // ±10
	culturalJitter = 15.0 // ±7.5
)

var bandFlags = map[model.Credibility][]string{
	model.CredibilityLikelyFake:   {"Suspicious patterns detected", "Source verification failed", "Content manipulation indicators"},
	model.CredibilityQuestionable: {"Inconsistent information", "Limited source verification", "Potential bias detected"},
	model.CredibilityCredible:     {"Content appears authentic", "Sources verified", "No manipulation detected"},
}

var bandExplanations = map[model.Credibility][]string{
	model.CredibilityCredible: {
		"Content appears authentic with consistent patterns and verified sources.",
		"No significant manipulation indicators detected in the analysis.",
		"Cultural context and linguistic patterns support authenticity.",
	},
	model.CredibilityQuestionable: {
		"Some inconsistencies detected that require further verification.",
		"Mixed signals from different analysis modules suggest caution.",
		"Content may contain biased or unverified information.",
	},
	model.CredibilityLikelyFake: {
		"Multiple red flags indicate potential misinformation or manipulation.",
		"Significant inconsistencies detected across analysis modules.",
		"Strong indicators of synthetic or manipulated content.",
	},
}

// FlagsFor returns a copy of the fixed flag triple for a label
func FlagsFor(c model.Credibility) []string {
	flags := bandFlags[c]
	out := make([]string, len(flags))
	copy(out, flags)
	return out
}

// ExplanationsFor returns the canned explanation pool for a label
func ExplanationsFor(c model.Credibility) []string {
	pool := bandExplanations[c]
	out := make([]string, len(pool))
	copy(out, pool)
	return out
}

// Scorer is the randomized placeholder score model.
// Scoring ignores content type and text.
type Scorer struct {
	mu  sync.Mutex
	src Source
}

// NewScorer creates a scorer seeded from the clock
func NewScorer() *Scorer {
	seed := uint64(time.Now().UnixNano())
	return NewScorerWithSource(rand.New(rand.NewPCG(seed, seed>>1|1)))
}

// NewScorerWithSource creates a scorer drawing from src
func NewScorerWithSource(src Source) *Scorer {
	return &Scorer{src: src}
}

// Name returns the model name
func (s *Scorer) Name() string {
	return "random"
}

// Score produces a fully populated result. It never fails.
func (s *Scorer) Score(_ context.Context, in Input) (model.AnalysisResult, error) {
	return s.Calculate(in), nil
}

// Calculate draws a base score and derives label, flags, explanation and breakdown
func (s *Scorer) Calculate(in Input) model.AnalysisResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	base := s.src.IntN(100)
	label := model.CredibilityFor(base)

	pool := bandExplanations[label]
	explanation := pool[s.src.IntN(len(pool))]

	return model.AnalysisResult{
		OverallScore:    base,
		Credibility:     label,
		CulturalContext: contextOrDefault(in.CulturalContext),
		Flags:           FlagsFor(label),
		Explanation:     explanation,
		Breakdown:       s.breakdown(base),
	}
}

// breakdown jitters every category independently around base
func (s *Scorer) breakdown(base int) model.Breakdown {
	var b model.Breakdown
	for _, c := range model.Categories {
		width := mediaJitter
		if c == model.CategoryCultural {
			width = culturalJitter
		}
		noise := (s.src.Float64() - 0.5) * width
		b.Set(c, float64(base)+noise)
	}
	return b
}

func contextOrDefault(code string) string {
	if code == "" {
		return model.DefaultCulturalContext
	}
	return code
}
