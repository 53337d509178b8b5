package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/score"
)

// ErrNoVerdict is returned when a reply carries no JSON object
var ErrNoVerdict = errors.New("no JSON verdict in model reply")

// Verdict is the JSON object a provider is asked to return
type Verdict struct {
	Score       *float64           `json:"score"`
	Flags       []string           `json:"flags"`
	Explanation string             `json:"explanation"`
	Breakdown   map[string]float64 `json:"breakdown"`
}

// ParseVerdict extracts the first JSON object from a reply, tolerating code fences and prose
func ParseVerdict(text string) (*Verdict, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, ErrNoVerdict
	}

	var v Verdict
	if err := json.Unmarshal([]byte(text[start:end+1]), &v); err != nil {
		return nil, fmt.Errorf("decode verdict: %w", err)
	}
	if v.Score == nil {
		return nil, fmt.Errorf("decode verdict: missing score")
	}
	return &v, nil
}

// Result converts the verdict into an analysis result for in
func (v *Verdict) Result(in score.Input) model.AnalysisResult {
	overall := int(math.Round(model.ClampScore(*v.Score)))
	cred := model.CredibilityFor(overall)

	flags := nonEmpty(v.Flags)
	if len(flags) == 0 {
		flags = score.FlagsFor(cred)
	}

	explanation := strings.TrimSpace(v.Explanation)
	if explanation == "" {
		explanation = score.ExplanationsFor(cred)[0]
	}

	var breakdown model.Breakdown
	for _, c := range model.Categories {
		val, ok := v.Breakdown[string(c)]
		if !ok {
			val = float64(overall)
		}
		breakdown.Set(c, val)
	}

	ctx := in.CulturalContext
	if ctx == "" {
		ctx = model.DefaultCulturalContext
	}

	return model.AnalysisResult{
		OverallScore:    overall,
		Credibility:     cred,
		CulturalContext: ctx,
		Flags:           flags,
		Explanation:     explanation,
		Breakdown:       breakdown,
	}
}

func nonEmpty(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
