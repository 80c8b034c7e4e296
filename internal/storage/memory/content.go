// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package memory

import (
	"context"

	"github.com/taibuivan/folio/internal/core/content"
	"github.com/taibuivan/folio/internal/platform/apperr"
)

// contentStore implements [content.Repository] over a [Store].
type contentStore struct {
	store *Store
}

func (repository *contentStore) FindByID(_ context.Context, id string) (*content.Content, error) {
	repository.store.mu.RLock()
	record, ok := repository.store.contents[id]
	repository.store.mu.RUnlock()

	if !ok {
		return nil, apperr.NotFound("Content")
	}
	return content.FromRecord(cloneRecord(record))
}

func (repository *contentStore) FindByIDs(_ context.Context, ids []string) (map[string]*content.Content, error) {
	repository.store.mu.RLock()
	records := make([]content.Record, 0, len(ids))
	for _, id := range ids {
		if record, ok := repository.store.contents[id]; ok {
			records = append(records, cloneRecord(record))
		}
	}
	repository.store.mu.RUnlock()

	items := make(map[string]*content.Content, len(records))
	for _, record := range records {
		item, err := content.FromRecord(record)
		if err != nil {
			return nil, err
		}
		items[item.ID] = item
	}
	return items, nil
}

func (repository *contentStore) Create(_ context.Context, item *content.Content) error {
	record, err := content.ToRecord(item)
	if err != nil {
		return err
	}

	repository.store.mu.Lock()
	defer repository.store.mu.Unlock()

	if _, exists := repository.store.contents[record.ID]; exists {
		return apperr.Conflict("Content already exists")
	}
	repository.store.contents[record.ID] = record
	return nil
}

func (repository *contentStore) Update(_ context.Context, item *content.Content) error {
	record, err := content.ToRecord(item)
	if err != nil {
		return err
	}

	repository.store.mu.Lock()
	defer repository.store.mu.Unlock()

	existing, ok := repository.store.contents[record.ID]
	if !ok {
		return apperr.NotFound("Content")
	}

	record.Kind = existing.Kind
	record.CreatedAt = existing.CreatedAt
	repository.store.contents[record.ID] = record
	return nil
}

func (repository *contentStore) Delete(_ context.Context, id string) error {
	repository.store.mu.Lock()
	defer repository.store.mu.Unlock()

	if _, ok := repository.store.contents[id]; !ok {
		return apperr.NotFound("Content")
	}
	if repository.store.placedAnywhere(id) > 0 {
		return apperr.Conflict("Content is still placed in a collection")
	}

	delete(repository.store.contents, id)
	return nil
}
