// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package slug_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/folio/pkg/slug"
)

/*
TestFrom verifies normalization of collection titles.
*/
func TestFrom(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Sunset", "sunset"},
		{"Daily Moments", "daily-moments"},
		{"  Café  Crème!! ", "cafe-creme"},
		{"Tokyo: 2024 / Night", "tokyo-2024-night"},
		{"---", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, slug.From(tt.input))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "sunset", slug.Truncate("sunset", 10))
	assert.Equal(t, "daily", slug.Truncate("daily-moments", 6))
	assert.Len(t, slug.Truncate(strings.Repeat("a", 200), 150), 150)
}
