package criteria

import (
	"strconv"
	"strings"
)

// Metric selects which user aggregate an achievement criteria is
// evaluated against.
type Metric int

const (
	MetricUnknown Metric = iota
	MetricPoints
	MetricTasksCompleted
	MetricStreak
)

func (m Metric) String() string {
	switch m {
	case MetricPoints:
		return "points"
	case MetricTasksCompleted:
		return "tasks completed"
	case MetricStreak:
		return "streak"
	default:
		return "unknown"
	}
}

// Parse parses a space-delimited criteria string such as "points 100",
// "tasks completed 10" or "streak 5". The last token is the integer
// threshold; the preceding tokens select the metric by substring match,
// checked in fixed order. Unrecognized strings report ok=false; the
// evaluator skips them rather than erroring.
func Parse(s string) (metric Metric, threshold int, ok bool) {
	tokens := strings.Fields(s)
	if len(tokens) < 2 {
		return MetricUnknown, 0, false
	}

	threshold, err := strconv.Atoi(tokens[len(tokens)-1])
	if err != nil {
		return MetricUnknown, 0, false
	}

	switch {
	case strings.Contains(s, "points"):
		metric = MetricPoints
	case strings.Contains(s, "tasks completed"):
		metric = MetricTasksCompleted
	case strings.Contains(s, "streak"):
		metric = MetricStreak
	default:
		return MetricUnknown, 0, false
	}

	return metric, threshold, true
}
