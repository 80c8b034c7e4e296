// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content

import "context"

// # Content Data Access

// Repository defines the data access contract for content items.
type Repository interface {

	/*
		FindByID returns the content with the given ID.

		Returns:
		  - *Content: The decoded variant
		  - error: apperr.NotFound if missing
	*/
	FindByID(context context.Context, id string) (*Content, error)

	/*
		FindByIDs resolves many items in one round-trip. Missing ids are
		simply absent from the returned map.
	*/
	FindByIDs(context context.Context, ids []string) (map[string]*Content, error)

	// Create persists a new content item.
	Create(context context.Context, item *Content) error

	// Update overwrites the mutable fields and payload of an existing item.
	Update(context context.Context, item *Content) error

	/*
		Delete removes a content item.

		Returns:
		  - error: apperr.NotFound if missing, apperr.Conflict if a
		    composition link still references it
	*/
	Delete(context context.Context, id string) error
}
