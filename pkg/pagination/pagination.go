// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for paged reads.
//
// # Overview
//
// Pages are one-based at every public surface. [NewMeta] derives the
// navigation block (previous/next, first/last) that accompanies every page,
// and never produces a page number outside [1, TotalPages].
package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultLimit is the number of items per page if not specified.
	DefaultLimit = 20
	// MaxLimit is the upper bound for items per page.
	MaxLimit = 100
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
)

// Params holds the parsed page and limit from a request's query string.
type Params struct {
	Page  int
	Limit int
}

// Offset returns the SQL OFFSET value derived from [Page] and [Limit].
func (p Params) Offset() int {
	return Offset(p.Page, p.Limit)
}

// Offset converts a one-based page into a zero-based row offset.
func Offset(page, limit int) int {
	if page <= 1 {
		return 0
	}
	return (page - 1) * limit
}

// Meta is the pagination metadata included in paged responses.
type Meta struct {
	Page         int  `json:"page"`
	Limit        int  `json:"limit"`
	Total        int  `json:"total"`
	TotalPages   int  `json:"total_pages"`
	HasPrevious  bool `json:"has_previous"`
	HasNext      bool `json:"has_next"`
	IsFirst      bool `json:"is_first"`
	IsLast       bool `json:"is_last"`
	PreviousPage *int `json:"previous_page"`
	NextPage     *int `json:"next_page"`
}

// NewMeta constructs pagination metadata for a response.
//
// TotalPages is ceil(total/limit), and 0 for an empty result. A page past
// the end still reports a previous page, clamped to the last real page.
func NewMeta(page, limit, total int) Meta {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}

	meta := Meta{
		Page:        page,
		Limit:       limit,
		Total:       total,
		TotalPages:  totalPages,
		HasPrevious: page > DefaultPage,
		HasNext:     page < totalPages,
		IsFirst:     page == DefaultPage,
		IsLast:      page == totalPages || totalPages == 0,
	}

	if meta.HasPrevious {
		previous := min(page-1, max(totalPages, DefaultPage))
		meta.PreviousPage = &previous
	}

	if meta.HasNext {
		next := page + 1
		meta.NextPage = &next
	}

	return meta
}

// FromRequest parses "page" and "limit" query parameters from an HTTP request.
//
// # Clamping
//
// Invalid, negative, or excessive values are automatically clamped to
// [DefaultPage], [DefaultLimit], or [MaxLimit].
func FromRequest(r *http.Request) Params {
	page := parseIntParam(r, "page", DefaultPage)
	limit := parseIntParam(r, "limit", DefaultLimit)

	if page < 1 {
		page = DefaultPage
	}

	if limit < 1 || limit > MaxLimit {
		limit = DefaultLimit
	}

	return Params{Page: page, Limit: limit}
}

// parseIntParam parses a single integer query parameter with a fallback default.
func parseIntParam(r *http.Request, key string, defaultVal int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		return defaultVal
	}

	return n
}
