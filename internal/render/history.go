package render

import (
	"fmt"
	"io"

	"github.com/ppiankov/credence/internal/history"
	"github.com/ppiankov/credence/internal/model"
)

// NoHistory is shown when nothing has been analysed
const NoHistory = "No analyses yet"

// HistoryLine is one row of the recent analyses panel
type HistoryLine struct {
	ID      int64      `json:"id"`
	Type    string     `json:"type"`
	Summary string     `json:"content_summary"`
	Label   string     `json:"credibility"`
	Score   int        `json:"overall_score"`
	Class   model.Band `json:"class"`
}

func (l HistoryLine) String() string {
	return fmt.Sprintf("%s analysis | %s | %s (%d%%)", l.Type, l.Summary, l.Label, l.Score)
}

// HistoryLines converts up to history.PreviewSize analyses, newest first as given
func HistoryLines(list []model.Analysis) []HistoryLine {
	if len(list) > history.PreviewSize {
		list = list[:history.PreviewSize]
	}
	lines := make([]HistoryLine, 0, len(list))
	for _, a := range list {
		lines = append(lines, Line(a))
	}
	return lines
}

// Line converts one analysis
func Line(a model.Analysis) HistoryLine {
	return HistoryLine{
		ID:      a.ID,
		Type:    string(a.Type),
		Summary: a.ContentSummary,
		Label:   string(a.Result.Credibility),
		Score:   a.Result.OverallScore,
		Class:   a.Result.Band(),
	}
}

// History writes the panel, or NoHistory when list is empty
func History(w io.Writer, list []model.Analysis) error {
	if w == nil {
		return ErrRenderTargetMissing
	}
	lines := HistoryLines(list)
	if len(lines) == 0 {
		_, err := fmt.Fprintln(w, NoHistory)
		return err
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%d  %s\n", l.ID, l); err != nil {
			return err
		}
	}
	return nil
}
