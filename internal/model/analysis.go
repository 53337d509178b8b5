package model

import "time"

// Credibility is the label derived from an overall score
type Credibility string

const (
	CredibilityCredible     Credibility = "Credible"
	CredibilityQuestionable Credibility = "Questionable"
	CredibilityLikelyFake   Credibility = "Likely Fake"
)

// Band thresholds shared by labeling, flags, explanations and styling
const (
	QuestionableThreshold = 40
	CredibleThreshold     = 70
)

// CredibilityFor maps a score to its label: <40 Likely Fake, <70 Questionable, else Credible
func CredibilityFor(score int) Credibility {
	switch {
	case score < QuestionableThreshold:
		return CredibilityLikelyFake
	case score < CredibleThreshold:
		return CredibilityQuestionable
	default:
		return CredibilityCredible
	}
}

// Band is the visual class of a score
type Band string

const (
	BandHigh   Band = "high"
	BandMedium Band = "medium"
	BandLow    Band = "low"
)

// BandFor maps a score to its visual class at the same 70/40 thresholds
func BandFor(score float64) Band {
	switch {
	case score >= CredibleThreshold:
		return BandHigh
	case score >= QuestionableThreshold:
		return BandMedium
	default:
		return BandLow
	}
}

// Category names a breakdown dimension
type Category string

const (
	CategoryText     Category = "text"
	CategoryImage    Category = "image"
	CategoryVideo    Category = "video"
	CategoryAudio    Category = "audio"
	CategoryCultural Category = "cultural"
)

// Categories lists breakdown categories in display order
var Categories = []Category{CategoryText, CategoryImage, CategoryVideo, CategoryAudio, CategoryCultural}

// Breakdown holds a sub-score in [0,100] for each of the five categories.
// Every category is always populated regardless of content type.
type Breakdown struct {
	Text     float64 `json:"text"`
	Image    float64 `json:"image"`
	Video    float64 `json:"video"`
	Audio    float64 `json:"audio"`
	Cultural float64 `json:"cultural"`
}

// Get returns the value for a category
func (b Breakdown) Get(c Category) float64 {
	switch c {
	case CategoryText:
		return b.Text
	case CategoryImage:
		return b.Image
	case CategoryVideo:
		return b.Video
	case CategoryAudio:
		return b.Audio
	case CategoryCultural:
		return b.Cultural
	}
	return 0
}

// Set assigns a category value, clamped to [0,100]
func (b *Breakdown) Set(c Category, v float64) {
	v = ClampScore(v)
	switch c {
	case CategoryText:
		b.Text = v
	case CategoryImage:
		b.Image = v
	case CategoryVideo:
		b.Video = v
	case CategoryAudio:
		b.Audio = v
	case CategoryCultural:
		b.Cultural = v
	}
}

// ClampScore bounds v to [0,100]
func ClampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// AnalysisResult is the outcome of scoring one submission
type AnalysisResult struct {
	OverallScore    int         `json:"overall_score"`
	Credibility     Credibility `json:"credibility"`
	CulturalContext string      `json:"cultural_context"`
	Flags           []string    `json:"flags"`
	Explanation     string      `json:"explanation"`
	Breakdown       Breakdown   `json:"breakdown"`
}

// Band returns the visual class of the overall score
func (r AnalysisResult) Band() Band {
	return BandFor(float64(r.OverallScore))
}

// Analysis is a completed pipeline run. Immutable once created.
type Analysis struct {
	ID             int64          `json:"id"`
	Type           ContentType    `json:"type"`
	ContentSummary string         `json:"content_summary"`
	Timestamp      time.Time      `json:"timestamp"`
	Result         AnalysisResult `json:"result"`
}
