package request

import "github.com/ppiankov/credence/internal/model"

// Sample is canned demo input for a content type
type Sample struct {
	Type    model.ContentType `json:"type"`
	Content string            `json:"content"`
}

var samples = []Sample{
	{Type: model.ContentText, Content: "BREAKING: Local mayor announces massive tax cuts after secret meeting with business leaders"},
	{Type: model.ContentImage, Content: "manipulated_protest_image.jpg"},
}

// Samples returns every available sample
func Samples() []Sample {
	out := make([]Sample, len(samples))
	copy(out, samples)
	return out
}

// SampleFor returns the sample for a type, if there is one
func SampleFor(t model.ContentType) (Sample, bool) {
	for _, s := range samples {
		if s.Type == t {
			return s, true
		}
	}
	return Sample{}, false
}

// Fields converts the sample into submission input
func (s Sample) Fields() Fields {
	if s.Type == model.ContentText {
		return Fields{Text: s.Content}
	}
	return Fields{Files: []string{s.Content}}
}
