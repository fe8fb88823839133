package command

import (
	"testing"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{name: "short string unchanged", input: "abc", max: 5, expected: "abc"},
		{name: "exact length unchanged", input: "abcde", max: 5, expected: "abcde"},
		{name: "long string truncated", input: "abcdefgh", max: 3, expected: "abc...(truncated)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Truncate(tt.input, tt.max)
			if result != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, result)
			}
		})
	}
}
