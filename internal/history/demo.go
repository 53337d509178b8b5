package history

import (
	"time"

	"github.com/ppiankov/credence/internal/model"
)

// DemoAnalyses returns the two canned analyses shown on first start
func DemoAnalyses(now time.Time) []model.Analysis {
	base := now.UnixMilli()
	return []model.Analysis{
		{
			ID:             base - 1000,
			Type:           model.ContentText,
			ContentSummary: "Breaking news article about local politics and government transparency...",
			Timestamp:      now.Add(-24 * time.Hour),
			Result: model.AnalysisResult{
				OverallScore:    75,
				Credibility:     model.CredibilityCredible,
				CulturalContext: model.DefaultCulturalContext,
				Flags:           []string{"Sources verified", "Content appears authentic"},
				Explanation:     "Content appears authentic with consistent patterns and verified sources.",
				Breakdown:       model.Breakdown{Text: 75, Image: 70, Video: 78, Audio: 73, Cultural: 76},
			},
		},
		{
			ID:             base - 2000,
			Type:           model.ContentImage,
			ContentSummary: "Social media photo claiming to show protest crowd manipulation...",
			Timestamp:      now.Add(-48 * time.Hour),
			Result: model.AnalysisResult{
				OverallScore:    25,
				Credibility:     model.CredibilityLikelyFake,
				CulturalContext: model.DefaultCulturalContext,
				Flags:           []string{"Digital manipulation detected", "Inconsistent lighting"},
				Explanation:     "Image shows signs of digital manipulation including cloned crowd elements.",
				Breakdown:       model.Breakdown{Text: 30, Image: 15, Video: 20, Audio: 28, Cultural: 32},
			},
		},
	}
}
