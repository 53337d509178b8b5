package render

import (
	"io"
	"text/template"
	"time"

	"github.com/ppiankov/credence/internal/model"
)

// TimestampFormat is how analysis times are shown to people
const TimestampFormat = "2006-01-02 15:04:05"

const technicalDetails = "This analysis was performed using advanced machine learning models trained on multi-modal datasets. " +
	"The system combines natural language processing, computer vision, and audio analysis techniques to provide " +
	"comprehensive fake news detection with cultural context awareness."

var detailedTmpl = template.Must(template.New("detailed").Funcs(template.FuncMap{
	"bar": Bar,
	"ts":  func(t time.Time) string { return t.Local().Format(TimestampFormat) },
}).Parse(`# Analysis Summary

- **Type:** {{.Analysis.Type.Title}} Analysis
- **Timestamp:** {{ts .Analysis.Timestamp}}
- **Overall Score:** {{.View.Score}}%
- **Content:** {{.Analysis.ContentSummary}}

## Detailed Findings

**{{.View.Label}}** ({{.View.Class}}), confidence {{.View.Score}}%

### Cultural Context

**{{.View.Context.Name}}** - {{.View.Context.Region}}

### Analysis Flags
{{range .View.Flags}}
- {{$.View.FlagIcon}} {{.}}{{end}}

### Breakdown

| Category | Score | Class | |
|---|---:|---|---|
{{- range .View.Breakdown}}
| {{.Title}} | {{.Value}} | {{.Class}} | ` + "`{{bar .Value}}`" + ` |
{{- end}}

### Explanation

{{.View.Explanation}}

## Technical Details

{{.Technical}}
`))

// Detailed writes the full Markdown report for a
func Detailed(w io.Writer, a model.Analysis) error {
	if w == nil {
		return ErrRenderTargetMissing
	}
	return detailedTmpl.Execute(w, struct {
		Analysis  model.Analysis
		View      View
		Technical string
	}{a, NewView(a.Result), technicalDetails})
}
