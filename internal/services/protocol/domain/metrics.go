package domain

// Metric is one progress indicator expressed as catalog keys.
type Metric struct {
	LabelKey string
	ValueKey string
}

type metricRule struct {
	name      string
	threshold float64
}

var metricRules = []metricRule{
	{name: "sleep", threshold: 0.66},
	{name: "noise", threshold: 0.33},
	{name: "routine", threshold: 0.5},
}

// MetricsOf derives the progress indicators from the ritual completion ratio.
func MetricsOf(progress Progress) []Metric {
	out := make([]Metric, 0, len(metricRules))
	for _, rule := range metricRules {
		level := "low"
		if progress.CompletionRatio >= rule.threshold {
			level = "high"
		}
		out = append(out, Metric{
			LabelKey: "metrics." + rule.name + ".label",
			ValueKey: "metrics." + rule.name + "." + level,
		})
	}
	return out
}
