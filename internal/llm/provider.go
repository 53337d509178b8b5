package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/ppiankov/credence/internal/model"
	"github.com/ppiankov/credence/internal/score"
)

// Provider is a chat-completion backend
type Provider interface {
	// Name returns the provider name
	Name() string

	// Complete sends one system+user exchange and returns the reply text
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)

	// IsAvailable checks if the provider is configured and reachable
	IsAvailable(ctx context.Context) bool
}

// CompletionRequest is one prompt exchange
type CompletionRequest struct {
	System    string
	Prompt    string
	Model     string // Overrides Config.Model
	MaxTokens int    // Overrides Config.MaxTokens
}

// CompletionResponse is the provider reply
type CompletionResponse struct {
	Text       string
	Model      string
	TokensUsed int
}

// Config holds provider configuration
type Config struct {
	// Provider name: "openai", "anthropic", "ollama"
	Provider string

	Model   string
	APIKey  string
	BaseURL string

	Timeout   int // seconds
	MaxTokens int

	HTTPProxy  string
	HTTPSProxy string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Provider:  "openai",
		Timeout:   30,
		MaxTokens: 500,
	}
}

const systemPrompt = "You assess the credibility of submitted media content. " +
	"Reply with a single JSON object and nothing else."

// BuildPrompt asks for a JSON verdict on one submission
func BuildPrompt(in score.Input) string {
	cc := model.LookupCulturalContext(in.CulturalContext)

	var b strings.Builder
	fmt.Fprintf(&b, "Assess how credible this %s submission is for an audience in %s (%s).\n\n", in.Type, cc.Name, cc.Region)
	fmt.Fprintf(&b, "Content: %s\n\n", in.ContentSummary)
	b.WriteString(`Respond with JSON of the form:
{"score": <0-100>, "flags": ["<short finding>", ...], "explanation": "<one sentence>",
 "breakdown": {"text": <0-100>, "image": <0-100>, "video": <0-100>, "audio": <0-100>, "cultural": <0-100>}}

Scores below 40 mean likely fake, 40-69 questionable, 70 and above credible.
Only describe signals visible in the content; do not invent sources.`)
	return b.String()
}
