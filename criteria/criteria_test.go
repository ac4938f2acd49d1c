package criteria

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePoints(t *testing.T) {
	tests := []struct {
		input     string
		threshold int
	}{
		{"points 100", 100},
		{"points 1", 1},
		{"total points 500", 500},
		{"points   250", 250},
	}

	for _, tt := range tests {
		metric, threshold, ok := Parse(tt.input)
		assert.True(t, ok, "input %q", tt.input)
		assert.Equal(t, MetricPoints, metric, "input %q", tt.input)
		assert.Equal(t, tt.threshold, threshold, "input %q", tt.input)
	}
}

func TestParseTasksCompleted(t *testing.T) {
	tests := []struct {
		input     string
		threshold int
	}{
		{"tasks completed 10", 10},
		{"tasks completed 1", 1},
		{"total tasks completed 50", 50},
	}

	for _, tt := range tests {
		metric, threshold, ok := Parse(tt.input)
		assert.True(t, ok, "input %q", tt.input)
		assert.Equal(t, MetricTasksCompleted, metric, "input %q", tt.input)
		assert.Equal(t, tt.threshold, threshold, "input %q", tt.input)
	}
}

func TestParseStreak(t *testing.T) {
	tests := []struct {
		input     string
		threshold int
	}{
		{"streak 5", 5},
		{"streak 30", 30},
		{"daily streak 7", 7},
	}

	for _, tt := range tests {
		metric, threshold, ok := Parse(tt.input)
		assert.True(t, ok, "input %q", tt.input)
		assert.Equal(t, MetricStreak, metric, "input %q", tt.input)
		assert.Equal(t, tt.threshold, threshold, "input %q", tt.input)
	}
}

// "points" wins over "streak" when both substrings appear, matching the
// fixed check order.
func TestParseOrderOfMetrics(t *testing.T) {
	metric, threshold, ok := Parse("streak points 10")
	assert.True(t, ok)
	assert.Equal(t, MetricPoints, metric)
	assert.Equal(t, 10, threshold)
}

func TestParseUnrecognized(t *testing.T) {
	tests := []string{
		"",
		"points",
		"100",
		"badges 5",
		"points abc",
		"streak five",
		"tasks 10", // "tasks" alone is not a metric
		"   ",
	}

	for _, input := range tests {
		metric, threshold, ok := Parse(input)
		assert.False(t, ok, "input %q should not parse", input)
		assert.Equal(t, MetricUnknown, metric, "input %q", input)
		assert.Zero(t, threshold, "input %q", input)
	}
}
