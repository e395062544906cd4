package services

import "testing"

func TestCalculateProgress(t *testing.T) {
	tests := []struct {
		name      string
		total     int
		completed int
		expected  float64
	}{
		{
			name:      "half completed",
			total:     4,
			completed: 2,
			expected:  50.00,
		},
		{
			name:      "none completed",
			total:     10,
			completed: 0,
			expected:  0.00,
		},
		{
			name:      "all completed",
			total:     5,
			completed: 5,
			expected:  100.00,
		},
		{
			name:      "rounds to two decimals",
			total:     3,
			completed: 1,
			expected:  33.33,
		},
		{
			name:      "two thirds rounds up",
			total:     3,
			completed: 2,
			expected:  66.67,
		},
		{
			name:      "empty course counts as complete",
			total:     0,
			completed: 0,
			expected:  100.00,
		},
		{
			name:      "negative total counts as complete",
			total:     -1,
			completed: 0,
			expected:  100.00,
		},
		{
			name:      "completed clamped to total",
			total:     4,
			completed: 7,
			expected:  100.00,
		},
		{
			name:      "negative completed clamped to zero",
			total:     4,
			completed: -2,
			expected:  0.00,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateProgress(tt.total, tt.completed)
			if got != tt.expected {
				t.Errorf("CalculateProgress(%d, %d) = %v, expected %v",
					tt.total, tt.completed, got, tt.expected)
			}
		})
	}
}

func TestIsComplete(t *testing.T) {
	tests := []struct {
		name     string
		pct      float64
		expected bool
	}{
		{"zero", 0, false},
		{"just below", 99.99, false},
		{"exactly hundred", 100, true},
		{"above hundred", 100.01, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsComplete(tt.pct); got != tt.expected {
				t.Errorf("IsComplete(%v) = %v, expected %v", tt.pct, got, tt.expected)
			}
		})
	}
}
