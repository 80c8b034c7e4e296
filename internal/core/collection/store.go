// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package collection

import "context"

// # Collection Data Access

// Repository defines the data access contract for collections and their
// placements.
type Repository interface {
	SlugChecker

	/*
		FindByID returns the collection with the given ID.

		Returns:
		  - *Collection: The collection
		  - error: apperr.NotFound if missing
	*/
	FindByID(context context.Context, id string) (*Collection, error)

	// FindBySlug returns the collection owning the slug, or apperr.NotFound.
	FindBySlug(context context.Context, slug string) (*Collection, error)

	/*
		List returns a filtered, paginated slice of collections and the total count.

		Parameters:
		  - context: context.Context
		  - filter: Filter (Types, Visible)
		  - limit: int
		  - offset: int

		Returns:
		  - []*Collection: Ordered by priority, then newest first
		  - int: Total count matching the filter
		  - error: Database retrieval failures
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*Collection, int, error)

	// Create persists a new collection. A lost slug race yields [ErrSlugTaken].
	Create(context context.Context, collection *Collection) error

	// Update overwrites the collection's attributes. A lost slug race yields [ErrSlugTaken].
	Update(context context.Context, collection *Collection) error

	/*
		Delete removes a collection, its placements, and every content item
		that no other collection still references, in one transaction.

		Returns:
		  - []string: IDs of the content items deleted with it
		  - error: apperr.NotFound if missing
	*/
	Delete(context context.Context, id string) ([]string, error)

	/*
		ListLinks returns one window of a collection's placements ordered by
		order index, ties broken by link id.

		Parameters:
		  - context: context.Context
		  - collectionID: string
		  - includeHidden: bool (false drops placements with visible = false)
		  - limit: int
		  - offset: int
	*/
	ListLinks(context context.Context, collectionID string, includeHidden bool, limit, offset int) ([]*Link, error)

	// CountLinks counts a collection's placements.
	CountLinks(context context.Context, collectionID string, includeHidden bool) (int, error)

	// CountByKind counts a collection's placements per content kind.
	CountByKind(context context.Context, collectionID string, includeHidden bool) (Counts, error)

	// CountLinksForContent counts placements of one content item across all collections.
	CountLinksForContent(context context.Context, contentID string) (int, error)

	/*
		WithPlacements runs fn with exclusive access to one collection's
		placements.

		Description: The collection is locked for the duration of fn, so
		concurrent edits of the same collection are serialized while other
		collections proceed independently. Every change made through the
		[Placements] view is committed together after fn returns nil, and
		discarded if it returns an error. The collection's total content
		counter is refreshed from the placement count on commit.

		Returns:
		  - error: apperr.NotFound if the collection is missing, or fn's error
	*/
	WithPlacements(context context.Context, collectionID string, fn func(collection *Collection, placements Placements) error) error
}

// Placements is the transactional view of one locked collection's links.
type Placements interface {

	// All returns every placement in display order.
	All(context context.Context) ([]*Link, error)

	// Find returns the placement of contentID, or apperr.NotFound.
	Find(context context.Context, contentID string) (*Link, error)

	// MaxOrderIndex returns the highest order index, or -1 when empty.
	MaxOrderIndex(context context.Context) (int, error)

	// Insert adds a placement.
	Insert(context context.Context, link *Link) error

	// Update writes a placement's visibility and caption.
	Update(context context.Context, link *Link) error

	// Remove deletes the placement of contentID, or returns apperr.NotFound.
	Remove(context context.Context, contentID string) error

	/*
		UpdateOrderIndices assigns new order indices by content id in one
		write. Indices of unmentioned placements are untouched.

		Returns:
		  - error: [ErrLinkMissing] if any content id has no placement;
		    nothing is written in that case
	*/
	UpdateOrderIndices(context context.Context, indices map[string]int) error
}
