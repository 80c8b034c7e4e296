// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package memory

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"

	"github.com/taibuivan/folio/internal/core/collection"
	"github.com/taibuivan/folio/internal/core/content"
	"github.com/taibuivan/folio/internal/platform/apperr"
)

// collectionStore implements [collection.Repository] over a [Store].
type collectionStore struct {
	store *Store
}

// # Collection Lookups

func (repository *collectionStore) FindByID(_ context.Context, id string) (*collection.Collection, error) {
	repository.store.mu.RLock()
	defer repository.store.mu.RUnlock()

	found, ok := repository.store.collections[id]
	if !ok {
		return nil, apperr.NotFound("Collection")
	}
	return &found, nil
}

func (repository *collectionStore) FindBySlug(context context.Context, slug string) (*collection.Collection, error) {
	repository.store.mu.RLock()
	id, ok := repository.store.slugs[slug]
	repository.store.mu.RUnlock()

	if !ok {
		return nil, apperr.NotFound("Collection")
	}
	return repository.FindByID(context, id)
}

func (repository *collectionStore) SlugExists(_ context.Context, slug string, excludeID string) (bool, error) {
	repository.store.mu.RLock()
	defer repository.store.mu.RUnlock()

	owner, ok := repository.store.slugs[slug]
	return ok && owner != excludeID, nil
}

func (repository *collectionStore) List(_ context.Context, filter collection.Filter, limit, offset int) ([]*collection.Collection, int, error) {
	repository.store.mu.RLock()
	var matched []*collection.Collection
	for _, stored := range repository.store.collections {
		if len(filter.Types) > 0 && !slices.Contains(filter.Types, stored.Type) {
			continue
		}
		if filter.Visible != nil && stored.Visible != *filter.Visible {
			continue
		}
		copied := stored
		matched = append(matched, &copied)
	}
	repository.store.mu.RUnlock()

	slices.SortFunc(matched, compareListing)

	total := len(matched)
	if offset >= total {
		return nil, total, nil
	}
	return matched[offset:min(offset+limit, total)], total, nil
}

// compareListing orders by priority (unset last), then newest first.
func compareListing(a, b *collection.Collection) int {
	switch {
	case a.Priority != nil && b.Priority == nil:
		return -1
	case a.Priority == nil && b.Priority != nil:
		return 1
	case a.Priority != nil && b.Priority != nil && *a.Priority != *b.Priority:
		return cmp.Compare(*a.Priority, *b.Priority)
	}

	if order := b.CreatedAt.Compare(a.CreatedAt); order != 0 {
		return order
	}
	return cmp.Compare(b.ID, a.ID)
}

// # Collection Writes

func (repository *collectionStore) Create(_ context.Context, created *collection.Collection) error {
	repository.store.mu.Lock()
	defer repository.store.mu.Unlock()

	if _, taken := repository.store.slugs[created.Slug]; taken {
		return collection.ErrSlugTaken
	}
	if _, exists := repository.store.collections[created.ID]; exists {
		return apperr.Conflict("Collection already exists")
	}

	repository.store.collections[created.ID] = *created
	repository.store.slugs[created.Slug] = created.ID
	repository.store.links[created.ID] = make(map[string]collection.Link)
	return nil
}

func (repository *collectionStore) Update(_ context.Context, updated *collection.Collection) error {
	repository.store.mu.Lock()
	defer repository.store.mu.Unlock()

	existing, ok := repository.store.collections[updated.ID]
	if !ok {
		return apperr.NotFound("Collection")
	}

	if updated.Slug != existing.Slug {
		if _, taken := repository.store.slugs[updated.Slug]; taken {
			return collection.ErrSlugTaken
		}
		delete(repository.store.slugs, existing.Slug)
		repository.store.slugs[updated.Slug] = updated.ID
	}

	next := *updated
	next.CreatedAt = existing.CreatedAt
	next.TotalContent = existing.TotalContent
	repository.store.collections[updated.ID] = next
	return nil
}

func (repository *collectionStore) Delete(_ context.Context, id string) ([]string, error) {
	lock := repository.store.lockFor(id)
	lock.Lock()
	defer lock.Unlock()

	repository.store.mu.Lock()
	defer repository.store.mu.Unlock()

	existing, ok := repository.store.collections[id]
	if !ok {
		return nil, apperr.NotFound("Collection")
	}

	linked := repository.store.links[id]
	delete(repository.store.collections, id)
	delete(repository.store.slugs, existing.Slug)
	delete(repository.store.links, id)

	var orphans []string
	for contentID := range linked {
		if repository.store.placedAnywhere(contentID) == 0 {
			delete(repository.store.contents, contentID)
			orphans = append(orphans, contentID)
		}
	}
	slices.Sort(orphans)
	return orphans, nil
}

// # Placement Reads

func (repository *collectionStore) ListLinks(_ context.Context, collectionID string, includeHidden bool, limit, offset int) ([]*collection.Link, error) {
	repository.store.mu.RLock()
	ordered := orderedLinks(repository.store.links[collectionID], includeHidden)
	repository.store.mu.RUnlock()

	if offset >= len(ordered) {
		return nil, nil
	}
	return ordered[offset:min(offset+limit, len(ordered))], nil
}

func (repository *collectionStore) CountLinks(_ context.Context, collectionID string, includeHidden bool) (int, error) {
	repository.store.mu.RLock()
	defer repository.store.mu.RUnlock()

	return len(orderedLinks(repository.store.links[collectionID], includeHidden)), nil
}

func (repository *collectionStore) CountByKind(_ context.Context, collectionID string, includeHidden bool) (collection.Counts, error) {
	repository.store.mu.RLock()
	defer repository.store.mu.RUnlock()

	var counts collection.Counts
	for _, link := range repository.store.links[collectionID] {
		if !link.Visible && !includeHidden {
			continue
		}
		if record, ok := repository.store.contents[link.ContentID]; ok {
			counts.Add(content.Kind(record.Kind), 1)
		}
	}
	return counts, nil
}

func (repository *collectionStore) CountLinksForContent(_ context.Context, contentID string) (int, error) {
	repository.store.mu.RLock()
	defer repository.store.mu.RUnlock()

	return repository.store.placedAnywhere(contentID), nil
}

// # Unit Of Work

/*
WithPlacements serializes edits per collection and commits the staged
links only when fn succeeds. On commit every staged placement must still
reference existing content, mirroring the foreign key of the SQL schema.
*/
func (repository *collectionStore) WithPlacements(context context.Context, collectionID string, fn func(locked *collection.Collection, placements collection.Placements) error) error {
	lock := repository.store.lockFor(collectionID)
	lock.Lock()
	defer lock.Unlock()

	repository.store.mu.RLock()
	found, ok := repository.store.collections[collectionID]
	staged := maps.Clone(repository.store.links[collectionID])
	repository.store.mu.RUnlock()

	if !ok {
		return apperr.NotFound("Collection")
	}
	if staged == nil {
		staged = make(map[string]collection.Link)
	}

	view := &stagedPlacements{collectionID: collectionID, links: staged}
	if err := fn(&found, view); err != nil {
		return err
	}
	if err := context.Err(); err != nil {
		return err
	}

	repository.store.mu.Lock()
	defer repository.store.mu.Unlock()

	current, ok := repository.store.collections[collectionID]
	if !ok {
		return apperr.NotFound("Collection")
	}
	for contentID := range view.links {
		if _, exists := repository.store.contents[contentID]; !exists {
			return apperr.NotFound("Content")
		}
	}

	current.TotalContent = len(view.links)
	repository.store.collections[collectionID] = current
	repository.store.links[collectionID] = view.links
	return nil
}

// stagedPlacements implements [collection.Placements] over a private copy.
type stagedPlacements struct {
	collectionID string
	links        map[string]collection.Link
}

func (placements *stagedPlacements) All(_ context.Context) ([]*collection.Link, error) {
	return orderedLinks(placements.links, true), nil
}

func (placements *stagedPlacements) Find(_ context.Context, contentID string) (*collection.Link, error) {
	link, ok := placements.links[contentID]
	if !ok {
		return nil, apperr.NotFound("Placement")
	}
	return &link, nil
}

func (placements *stagedPlacements) MaxOrderIndex(_ context.Context) (int, error) {
	maxIndex := -1
	for _, link := range placements.links {
		maxIndex = max(maxIndex, link.OrderIndex)
	}
	return maxIndex, nil
}

func (placements *stagedPlacements) Insert(_ context.Context, link *collection.Link) error {
	if _, exists := placements.links[link.ContentID]; exists {
		return apperr.Conflict("Content is already placed in this collection")
	}
	for _, existing := range placements.links {
		if existing.OrderIndex == link.OrderIndex {
			return apperr.Conflict(fmt.Sprintf("Order index %d is already in use", link.OrderIndex))
		}
	}

	inserted := *link
	inserted.CollectionID = placements.collectionID
	placements.links[link.ContentID] = inserted
	return nil
}

func (placements *stagedPlacements) Update(_ context.Context, link *collection.Link) error {
	existing, ok := placements.links[link.ContentID]
	if !ok {
		return apperr.NotFound("Placement")
	}

	existing.Visible = link.Visible
	existing.Caption = link.Caption
	placements.links[link.ContentID] = existing
	return nil
}

func (placements *stagedPlacements) Remove(_ context.Context, contentID string) error {
	if _, ok := placements.links[contentID]; !ok {
		return apperr.NotFound("Placement")
	}
	delete(placements.links, contentID)
	return nil
}

func (placements *stagedPlacements) UpdateOrderIndices(_ context.Context, indices map[string]int) error {
	for contentID := range indices {
		if _, ok := placements.links[contentID]; !ok {
			return collection.ErrLinkMissing
		}
	}

	next := maps.Clone(placements.links)
	for contentID, orderIndex := range indices {
		link := next[contentID]
		link.OrderIndex = orderIndex
		next[contentID] = link
	}

	used := make(map[int]bool, len(next))
	for _, link := range next {
		if used[link.OrderIndex] {
			return apperr.ValidationError("Reorder would give two placements the same order index")
		}
		used[link.OrderIndex] = true
	}

	placements.links = next
	return nil
}

// orderedLinks copies links into display order: order index, then link id.
func orderedLinks(links map[string]collection.Link, includeHidden bool) []*collection.Link {
	ordered := make([]*collection.Link, 0, len(links))
	for _, link := range links {
		if !link.Visible && !includeHidden {
			continue
		}
		copied := link
		ordered = append(ordered, &copied)
	}

	slices.SortFunc(ordered, func(a, b *collection.Link) int {
		return cmp.Or(cmp.Compare(a.OrderIndex, b.OrderIndex), cmp.Compare(a.ID, b.ID))
	})
	return ordered
}
