package pipeline

import "time"

// Stage is one named step of an analysis run with the delay drawn after reporting it
type Stage struct {
	Label    string
	MinDelay time.Duration
	MaxDelay time.Duration
}

var stageLabels = []string{
	"Initializing analysis...",
	"Processing content...",
	"Running AI models...",
	"Analyzing cultural context...",
	"Cross-referencing sources...",
	"Generating results...",
}

// StageLabels returns the six stage labels in reporting order
func StageLabels() []string {
	out := make([]string, len(stageLabels))
	copy(out, stageLabels)
	return out
}

// DefaultStages returns the six stages with delays in [600ms, 900ms)
func DefaultStages() []Stage {
	return StagesWithDelay(600*time.Millisecond, 900*time.Millisecond)
}

// StagesWithDelay returns the six stages with delays in [min, max)
func StagesWithDelay(min, max time.Duration) []Stage {
	stages := make([]Stage, len(stageLabels))
	for i, label := range stageLabels {
		stages[i] = Stage{Label: label, MinDelay: min, MaxDelay: max}
	}
	return stages
}

// ZeroDelayStages returns the six stages without any suspension
func ZeroDelayStages() []Stage {
	return StagesWithDelay(0, 0)
}

// delay picks a duration in [MinDelay, MaxDelay) using frac in [0,1)
func (s Stage) delay(frac float64) time.Duration {
	if s.MaxDelay <= s.MinDelay {
		return s.MinDelay
	}
	return s.MinDelay + time.Duration(frac*float64(s.MaxDelay-s.MinDelay))
}
