// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package collection

import (
	"context"
	"fmt"
	"strconv"

	"github.com/taibuivan/folio/pkg/slug"
)

// fallbackSlug replaces candidates too short to be a valid slug.
const fallbackSlug = "collection"

// SlugChecker answers whether a slug is used by a collection other than excludeID.
type SlugChecker interface {
	SlugExists(context context.Context, slug string, excludeID string) (bool, error)
}

// Resolver makes normalized slug candidates globally unique.
type Resolver struct {
	checker SlugChecker
}

// NewResolver constructs a [Resolver].
func NewResolver(checker SlugChecker) *Resolver {
	return &Resolver{checker: checker}
}

/*
Resolve returns candidate itself when free, otherwise the first free
"candidate-N" for N = 1, 2, ...

Description: The probe is sequential, so two resolutions against the same
state always agree. The base is truncated so the suffixed result never
exceeds [SlugMaxLength]. Collisions are never errors; only a failing
existence check is.

Parameters:
  - context: context.Context
  - candidate: string (already normalized by slug.From)
  - excludeID: string (the collection being updated, or "")

Returns:
  - string: A slug free at the time of the check
  - error: Infrastructure failure from the checker
*/
func (resolver *Resolver) Resolve(context context.Context, candidate string, excludeID string) (string, error) {
	base := candidate
	if len(base) < SlugMinLength {
		base = fallbackSlug
	}
	base = slug.Truncate(base, SlugMaxLength)

	taken, err := resolver.checker.SlugExists(context, base, excludeID)
	if err != nil {
		return "", fmt.Errorf("collection: slug lookup failed: %w", err)
	}
	if !taken {
		return base, nil
	}

	for suffix := 1; ; suffix++ {
		if err := context.Err(); err != nil {
			return "", err
		}

		tail := "-" + strconv.Itoa(suffix)
		probe := slug.Truncate(base, SlugMaxLength-len(tail)) + tail

		taken, err := resolver.checker.SlugExists(context, probe, excludeID)
		if err != nil {
			return "", fmt.Errorf("collection: slug lookup failed: %w", err)
		}
		if !taken {
			return probe, nil
		}
	}
}
