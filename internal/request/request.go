package request

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/ppiankov/credence/internal/model"
)

// Input methods for text submissions
const (
	MethodText = "text"
	MethodURL  = "url"
)

// Fields is raw user input for one submission
type Fields struct {
	Text            string   `json:"text,omitempty" yaml:"text,omitempty"`
	Files           []string `json:"files,omitempty" yaml:"files,omitempty"` // File names
	InputMethod     string   `json:"input_method,omitempty" yaml:"input_method,omitempty"`
	CulturalContext string   `json:"cultural_context,omitempty" yaml:"cultural_context,omitempty"`
}

// ErrorKind classifies a validation failure
type ErrorKind string

const (
	EmptyText          ErrorKind = "EmptyText"
	NoFileProvided     ErrorKind = "NoFileProvided"
	MultipleFiles      ErrorKind = "MultipleFiles"
	EmptyCombinedInput ErrorKind = "EmptyCombinedInput"
	InvalidURL         ErrorKind = "InvalidURL"
	UnknownContentType ErrorKind = "UnknownContentType"
)

// ErrValidation matches every *ValidationError via errors.Is
var ErrValidation = errors.New("validation failed")

// ValidationError is a recoverable input error carrying a user-facing message
type ValidationError struct {
	Kind    ErrorKind
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Is reports whether target is ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(kind ErrorKind, format string, args ...any) *ValidationError {
	return &ValidationError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// KindOf returns the validation kind of err, or "" when err is not a validation error
func KindOf(err error) ErrorKind {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Kind
	}
	return ""
}

// Validate turns raw fields into a Submission for the given content type
func Validate(t model.ContentType, f Fields) (model.Submission, error) {
	sub := model.Submission{
		Type:            t,
		CulturalContext: f.CulturalContext,
	}
	if sub.CulturalContext == "" {
		sub.CulturalContext = model.DefaultCulturalContext
	}

	switch {
	case t == model.ContentText:
		if strings.TrimSpace(f.Text) == "" {
			return model.Submission{}, invalid(EmptyText, "Please enter text content to analyze")
		}
		if f.InputMethod == MethodURL {
			u, err := parseURL(f.Text)
			if err != nil {
				return model.Submission{}, err
			}
			sub.RawContent = u
			sub.SourceURL = u
			return sub, nil
		}
		sub.RawContent = f.Text

	case t.IsMedia():
		files := nonBlank(f.Files)
		switch len(files) {
		case 0:
			return model.Submission{}, invalid(NoFileProvided, "Please upload %s to analyze", mediaNoun(t))
		case 1:
			sub.RawContent = files[0]
		default:
			return model.Submission{}, invalid(MultipleFiles, "Please upload a single %s file (got %d)", t, len(files))
		}

	case t == model.ContentCombined:
		files := nonBlank(f.Files)
		hasText := strings.TrimSpace(f.Text) != ""
		if !hasText && len(files) == 0 {
			return model.Submission{}, invalid(EmptyCombinedInput, "Please provide text content or upload files to analyze")
		}
		if hasText {
			sub.RawContent = f.Text
		} else {
			sub.RawContent = fmt.Sprintf("%d files uploaded", len(files))
		}

	default:
		return model.Submission{}, invalid(UnknownContentType, "Unsupported analysis type: %q", t)
	}

	return sub, nil
}

// ValidateRaw parses the type string before validating
func ValidateRaw(rawType string, f Fields) (model.Submission, error) {
	t, err := model.ParseContentType(rawType)
	if err != nil {
		return model.Submission{}, invalid(UnknownContentType, "Unsupported analysis type: %q", rawType)
	}
	return Validate(t, f)
}

func parseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", invalid(InvalidURL, "Please enter a valid http(s) URL to analyze")
	}
	return u.String(), nil
}

func nonBlank(files []string) []string {
	var out []string
	for _, f := range files {
		if strings.TrimSpace(f) != "" {
			out = append(out, f)
		}
	}
	return out
}

func mediaNoun(t model.ContentType) string {
	switch t {
	case model.ContentImage:
		return "an image"
	case model.ContentVideo:
		return "a video"
	default:
		return "an audio file"
	}
}
