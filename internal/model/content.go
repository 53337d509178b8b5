package model

import "fmt"

// ContentType identifies what kind of content a submission carries
type ContentType string

const (
	ContentText     ContentType = "text"
	ContentImage    ContentType = "image"
	ContentVideo    ContentType = "video"
	ContentAudio    ContentType = "audio"
	ContentCombined ContentType = "combined"
)

// ContentTypes lists every supported content type in display order
var ContentTypes = []ContentType{ContentText, ContentImage, ContentVideo, ContentAudio, ContentCombined}

// ParseContentType converts a raw string into a ContentType
func ParseContentType(s string) (ContentType, error) {
	for _, t := range ContentTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown content type: %q", s)
}

// IsMedia reports whether the type is a single-file upload
func (t ContentType) IsMedia() bool {
	return t == ContentImage || t == ContentVideo || t == ContentAudio
}

// Title returns the type with its first letter upper-cased ("text" -> "Text")
func (t ContentType) Title() string {
	if t == "" {
		return ""
	}
	s := string(t)
	if c := s[0]; c >= 'a' && c <= 'z' {
		return string(c-'a'+'A') + s[1:]
	}
	return s
}

// Submission is validated user input ready for the pipeline
type Submission struct {
	Type            ContentType `json:"type"`
	RawContent      string      `json:"raw_content"`          // Text body, file name, or "<N> files uploaded"
	CulturalContext string      `json:"cultural_context"`     // Context code, e.g. "en-US"
	SourceURL       string      `json:"source_url,omitempty"` // Set for URL input; resolved to page text before scoring
}

// Summary returns the canonical content summary for the submission
func (s Submission) Summary() string {
	return SummarizeContent(s.RawContent)
}

const (
	summaryLimit  = 100
	summaryMarker = "..."
)

// SummarizeContent truncates content to 100 characters, appending "..." when cut
func SummarizeContent(content string) string {
	runes := []rune(content)
	if len(runes) <= summaryLimit {
		return content
	}
	return string(runes[:summaryLimit]) + summaryMarker
}
