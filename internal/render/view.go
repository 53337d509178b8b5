package render

import (
	"errors"
	"math"
	"strings"

	"github.com/ppiankov/credence/internal/model"
)

// ErrRenderTargetMissing is returned when there is nowhere to render to
var ErrRenderTargetMissing = errors.New("render target missing")

// Flag icons by band; credible results get a check, everything else a warning
const (
	iconWarn = "⚠"
	iconOK   = "✓"
)

// ContextView is the display pair for a cultural context code
type ContextView struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Region string `json:"region"`
}

// BreakdownRow is one category line of the breakdown chart
type BreakdownRow struct {
	Category model.Category `json:"category"`
	Title    string         `json:"title"`
	Value    int            `json:"value"`
	Class    model.Band     `json:"class"`
}

// View is everything a presentation layer needs to draw one result
type View struct {
	Score       int            `json:"score"`
	Label       string         `json:"label"`
	Class       model.Band     `json:"class"`
	Context     ContextView    `json:"context"`
	FlagIcon    string         `json:"flag_icon"`
	Flags       []string       `json:"flags"`
	Explanation string         `json:"explanation"`
	Breakdown   []BreakdownRow `json:"breakdown"`
}

// NewView resolves bands, context names and breakdown rows for r
func NewView(r model.AnalysisResult) View {
	cc := model.LookupCulturalContext(r.CulturalContext)

	icon := iconOK
	if r.OverallScore < model.CredibleThreshold {
		icon = iconWarn
	}

	rows := make([]BreakdownRow, 0, len(model.Categories))
	for _, c := range model.Categories {
		v := r.Breakdown.Get(c)
		rows = append(rows, BreakdownRow{
			Category: c,
			Title:    titleCase(string(c)),
			Value:    int(math.Round(v)),
			Class:    model.BandFor(v),
		})
	}

	flags := make([]string, len(r.Flags))
	copy(flags, r.Flags)

	return View{
		Score:       r.OverallScore,
		Label:       string(r.Credibility),
		Class:       r.Band(),
		Context:     ContextView{Code: cc.Code, Name: cc.Name, Region: cc.Region},
		FlagIcon:    icon,
		Flags:       flags,
		Explanation: r.Explanation,
		Breakdown:   rows,
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
