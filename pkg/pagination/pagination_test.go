// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/pkg/pagination"
)

/*
TestNewMeta_TotalPages checks ceil(N/P) across a grid of sizes.
*/
func TestNewMeta_TotalPages(t *testing.T) {
	for total := 0; total <= 60; total++ {
		for limit := 1; limit <= 12; limit++ {
			meta := pagination.NewMeta(1, limit, total)

			expected := total / limit
			if total%limit != 0 {
				expected++
			}

			require.Equal(t, expected, meta.TotalPages, "total=%d limit=%d", total, limit)
			assert.True(t, meta.IsFirst)
			assert.Equal(t, meta.TotalPages <= 1, meta.IsLast, "total=%d limit=%d", total, limit)
		}
	}
}

/*
TestNewMeta_Navigation walks 25 items at 10 per page.
*/
func TestNewMeta_Navigation(t *testing.T) {
	tests := []struct {
		name        string
		page        int
		hasPrevious bool
		hasNext     bool
		isFirst     bool
		isLast      bool
		previous    *int
		next        *int
	}{
		{"first_page", 1, false, true, true, false, nil, intPtr(2)},
		{"middle_page", 2, true, true, false, false, intPtr(1), intPtr(3)},
		{"last_page", 3, true, false, false, true, intPtr(2), nil},
		{"past_the_end", 7, true, false, false, false, intPtr(3), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := pagination.NewMeta(tt.page, 10, 25)

			assert.Equal(t, 3, meta.TotalPages)
			assert.Equal(t, tt.hasPrevious, meta.HasPrevious)
			assert.Equal(t, tt.hasNext, meta.HasNext)
			assert.Equal(t, tt.isFirst, meta.IsFirst)
			assert.Equal(t, tt.isLast, meta.IsLast)
			assert.Equal(t, tt.previous, meta.PreviousPage)
			assert.Equal(t, tt.next, meta.NextPage)
		})
	}
}

/*
TestNewMeta_Empty treats an empty result as a single first-and-last page.
*/
func TestNewMeta_Empty(t *testing.T) {
	meta := pagination.NewMeta(1, 30, 0)

	assert.Equal(t, 0, meta.TotalPages)
	assert.True(t, meta.IsFirst)
	assert.True(t, meta.IsLast)
	assert.False(t, meta.HasNext)
	assert.Nil(t, meta.NextPage)
	assert.Nil(t, meta.PreviousPage)

	// Page 2 of nothing still points back at page 1
	meta = pagination.NewMeta(2, 30, 0)
	require.NotNil(t, meta.PreviousPage)
	assert.Equal(t, 1, *meta.PreviousPage)
}

func TestFromRequest(t *testing.T) {
	tests := []struct {
		query    string
		expected pagination.Params
	}{
		{"", pagination.Params{Page: 1, Limit: 20}},
		{"?page=3&limit=50", pagination.Params{Page: 3, Limit: 50}},
		{"?page=-2&limit=500", pagination.Params{Page: 1, Limit: 20}},
		{"?page=abc", pagination.Params{Page: 1, Limit: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			request := httptest.NewRequest("GET", "/collections"+tt.query, nil)
			assert.Equal(t, tt.expected, pagination.FromRequest(request))
		})
	}

	assert.Equal(t, 40, pagination.Params{Page: 3, Limit: 20}.Offset())
	assert.Equal(t, 0, pagination.Offset(0, 20))
}

func intPtr(v int) *int { return &v }
