// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package collection_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/core/collection"
	"github.com/taibuivan/folio/internal/core/content"
	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/pkg/pointer"
)

/* TestApplyDefaults verifies type defaults only fill unset fields. */
func TestApplyDefaults(t *testing.T) {
	tests := []struct {
		name           string
		input          collection.CreateInput
		wantPerPage    int
		wantVisibility bool
	}{
		{
			name:           "client gallery is private with larger pages",
			input:          collection.CreateInput{Type: string(collection.TypeClientGallery)},
			wantPerPage:    collection.ClientGalleryContentPerPage,
			wantVisibility: false,
		},
		{
			name:           "blog is public",
			input:          collection.CreateInput{Type: string(collection.TypeBlog)},
			wantPerPage:    collection.DefaultContentPerPage,
			wantVisibility: true,
		},
		{
			name: "explicit values survive",
			input: collection.CreateInput{
				Type:           string(collection.TypeClientGallery),
				ContentPerPage: pointer.To(10),
				Visible:        pointer.To(true),
			},
			wantPerPage:    10,
			wantVisibility: true,
		},
		{
			name: "explicit false survives on a public type",
			input: collection.CreateInput{
				Type:    string(collection.TypePortfolio),
				Visible: pointer.To(false),
			},
			wantPerPage:    collection.DefaultContentPerPage,
			wantVisibility: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := collection.ApplyDefaults(tt.input)
			require.NotNil(t, got.ContentPerPage)
			require.NotNil(t, got.Visible)
			assert.Equal(t, tt.wantPerPage, *got.ContentPerPage)
			assert.Equal(t, tt.wantVisibility, *got.Visible)
		})
	}
}

// # Slug Resolver

type fakeChecker struct {
	taken map[string]string
	err   error
}

func (checker *fakeChecker) SlugExists(_ context.Context, slug string, excludeID string) (bool, error) {
	if checker.err != nil {
		return false, checker.err
	}
	owner, ok := checker.taken[slug]
	return ok && owner != excludeID, nil
}

/* TestResolver_Resolve covers free slugs, sequential suffixes, fallbacks and truncation. */
func TestResolver_Resolve(t *testing.T) {
	long := strings.Repeat("a", 200)

	tests := []struct {
		name      string
		taken     map[string]string
		candidate string
		excludeID string
		want      string
	}{
		{name: "free slug is kept", candidate: "summer-trip", want: "summer-trip"},
		{
			name:      "first suffix",
			taken:     map[string]string{"summer-trip": "c1"},
			candidate: "summer-trip",
			want:      "summer-trip-1",
		},
		{
			name:      "suffixes are sequential",
			taken:     map[string]string{"summer-trip": "c1", "summer-trip-1": "c2"},
			candidate: "summer-trip",
			want:      "summer-trip-2",
		},
		{
			name:      "own slug is not a collision",
			taken:     map[string]string{"summer-trip": "c1"},
			candidate: "summer-trip",
			excludeID: "c1",
			want:      "summer-trip",
		},
		{name: "short candidate falls back", candidate: "ab", want: "collection"},
		{name: "empty candidate falls back", candidate: "", want: "collection"},
		{name: "long candidate is truncated", candidate: long, want: long[:collection.SlugMaxLength]},
		{
			name:      "suffix fits within the limit",
			taken:     map[string]string{long[:collection.SlugMaxLength]: "c1"},
			candidate: long,
			want:      long[:collection.SlugMaxLength-2] + "-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := collection.NewResolver(&fakeChecker{taken: tt.taken})
			got, err := resolver.Resolve(context.Background(), tt.candidate, tt.excludeID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), collection.SlugMaxLength)
		})
	}
}

/* TestResolver_CheckerFailure verifies lookup failures are surfaced. */
func TestResolver_CheckerFailure(t *testing.T) {
	boom := errors.New("connection reset")
	resolver := collection.NewResolver(&fakeChecker{err: boom})

	_, err := resolver.Resolve(context.Background(), "summer-trip", "")
	assert.ErrorIs(t, err, boom)
}

// # Page Builder

/* TestBuildPagedView checks caption overrides, skipped items and page validation. */
func TestBuildPagedView(t *testing.T) {
	owner := &collection.Collection{ID: "c1", ContentPerPage: 2}

	first := &content.Content{ID: "x1", Kind: content.KindText, Caption: pointer.To("content caption"), Payload: &content.Text{Body: "one"}}
	second := &content.Content{ID: "x2", Kind: content.KindText, Caption: pointer.To("content caption"), Payload: &content.Text{Body: "two"}}

	links := []*collection.Link{
		{ID: "l1", ContentID: "x1", OrderIndex: 0},
		{ID: "l2", ContentID: "x2", OrderIndex: 1, Caption: pointer.To("placement caption")},
		{ID: "l3", ContentID: "gone", OrderIndex: 2},
	}
	contents := map[string]*content.Content{"x1": first, "x2": second}

	view, err := collection.BuildPagedView(owner, collection.PageRequest{Page: 1}, links, contents, 5, collection.Counts{Text: 5})
	require.NoError(t, err)

	require.Len(t, view.Items, 2)
	assert.Equal(t, "content caption", *view.Items[0].Caption)
	assert.Equal(t, "placement caption", *view.Items[1].Caption)
	assert.Equal(t, 2, view.Meta.Limit)
	assert.Equal(t, 3, view.Meta.TotalPages)
	assert.True(t, view.Meta.HasNext)
	assert.Equal(t, 5, view.Counts.Text)

	tests := []struct {
		name    string
		request collection.PageRequest
	}{
		{name: "page zero", request: collection.PageRequest{Page: 0}},
		{name: "size too large", request: collection.PageRequest{Page: 1, Size: 101}},
		{name: "negative size", request: collection.PageRequest{Page: 1, Size: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := collection.BuildPagedView(owner, tt.request, nil, nil, 0, collection.Counts{})
			assert.True(t, apperr.HasCode(err, apperr.CodeValidation))
		})
	}
}
