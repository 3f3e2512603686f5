package knum

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		input    string
		expected int
	}{
		{"26.8K", 26800},
		{"1.2M", 1200000},
		{"12 345", 12345},
		{"12 345", 12345},
		{"12 345", 12345},
		{"12,345", 12345},
		{"123", 123},
		{"5k", 5000},
		{"3m", 3000000},
		{"0", 0},
		{"", 0},
		{"garbage", 0},
		{"about 42 views", 42},
		{"1.5", 1},
	}

	for _, test := range testCases {
		require.Equal(t, test.expected, Parse(test.input), "input: %q", test.input)
	}
}
