package model

// DefaultCulturalContext is used when a submission does not name one
const DefaultCulturalContext = "en-US"

// CulturalContext describes a locale/region the content is read against
type CulturalContext struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Region string `json:"region"`
}

var culturalContexts = []CulturalContext{
	{Code: "en-US", Name: "US English", Region: "North America"},
	{Code: "en-UK", Name: "UK English", Region: "Europe"},
	{Code: "en-IN", Name: "Indian English", Region: "South Asia"},
	{Code: "es-MX", Name: "Spanish (Mexico)", Region: "Latin America"},
	{Code: "fr-FR", Name: "French (France)", Region: "Europe"},
	{Code: "zh-CN", Name: "Chinese (Simplified)", Region: "East Asia"},
	{Code: "ar-SA", Name: "Arabic (Saudi Arabia)", Region: "Middle East"},
}

// CulturalContexts returns a copy of the reference table
func CulturalContexts() []CulturalContext {
	out := make([]CulturalContext, len(culturalContexts))
	copy(out, culturalContexts)
	return out
}

// LookupCulturalContext resolves a code against the table.
// Unknown codes resolve to an "Unknown" placeholder carrying the code.
func LookupCulturalContext(code string) CulturalContext {
	if ctx, ok := FindCulturalContext(code); ok {
		return ctx
	}
	return CulturalContext{Code: code, Name: "Unknown", Region: "Unknown Region"}
}

// FindCulturalContext is LookupCulturalContext without the placeholder
func FindCulturalContext(code string) (CulturalContext, bool) {
	for _, c := range culturalContexts {
		if c.Code == code {
			return c, true
		}
	}
	return CulturalContext{}, false
}
