package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/ppiankov/credence/internal/model"
)

const barWidth = 20

// Bar draws v (0..100) as a fixed-width bar
func Bar(v int) string {
	filled := v * barWidth / 100
	if filled < 0 {
		filled = 0
	}
	if filled > barWidth {
		filled = barWidth
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

// Summary writes the result card for r as plain text
func Summary(w io.Writer, r model.AnalysisResult) error {
	if w == nil {
		return ErrRenderTargetMissing
	}
	v := NewView(r)

	var b strings.Builder
	fmt.Fprintf(&b, "Credibility: %s (%d%%) [%s]\n", v.Label, v.Score, v.Class)
	fmt.Fprintf(&b, "Cultural context: %s - %s\n", v.Context.Name, v.Context.Region)
	b.WriteString("\nFlags:\n")
	for _, f := range v.Flags {
		fmt.Fprintf(&b, "  %s %s\n", v.FlagIcon, f)
	}
	b.WriteString("\nBreakdown:\n")
	for _, row := range v.Breakdown {
		fmt.Fprintf(&b, "  %-9s %s %3d  %s\n", row.Title, Bar(row.Value), row.Value, row.Class)
	}
	fmt.Fprintf(&b, "\n%s\n", v.Explanation)

	_, err := io.WriteString(w, b.String())
	return err
}
