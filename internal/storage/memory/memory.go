// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package memory provides process-local implementations of the collection and
content repositories.

All state lives behind one RWMutex. Placement edits additionally hold a
per-collection mutex and work on a staged copy of the collection's links,
which is swapped in only when the unit of work succeeds. Edits of different
collections therefore proceed in parallel, and a failed edit leaves no trace.

Content is kept in its encoded [content.Record] form, the same shape the
PostgreSQL store persists.
*/
package memory

import (
	"bytes"
	"sync"

	"github.com/taibuivan/folio/internal/core/collection"
	"github.com/taibuivan/folio/internal/core/content"
)

// Store holds every collection, placement and content item.
type Store struct {
	mu          sync.RWMutex
	collections map[string]collection.Collection
	slugs       map[string]string
	links       map[string]map[string]collection.Link
	contents    map[string]content.Record

	lockMu sync.Mutex
	locks  map[string]*sync.Mutex
}

// New constructs an empty [Store].
func New() *Store {
	return &Store{
		collections: make(map[string]collection.Collection),
		slugs:       make(map[string]string),
		links:       make(map[string]map[string]collection.Link),
		contents:    make(map[string]content.Record),
		locks:       make(map[string]*sync.Mutex),
	}
}

// Collections returns the store's [collection.Repository] view.
func (store *Store) Collections() collection.Repository {
	return &collectionStore{store: store}
}

// Contents returns the store's [content.Repository] view.
func (store *Store) Contents() content.Repository {
	return &contentStore{store: store}
}

// lockFor returns the placement lock of one collection.
func (store *Store) lockFor(collectionID string) *sync.Mutex {
	store.lockMu.Lock()
	defer store.lockMu.Unlock()

	lock, ok := store.locks[collectionID]
	if !ok {
		lock = &sync.Mutex{}
		store.locks[collectionID] = lock
	}
	return lock
}

// placedAnywhere reports whether any collection links contentID. Callers hold mu.
func (store *Store) placedAnywhere(contentID string) int {
	placed := 0
	for _, links := range store.links {
		if _, ok := links[contentID]; ok {
			placed++
		}
	}
	return placed
}

func cloneRecord(record content.Record) content.Record {
	record.Payload = bytes.Clone(record.Payload)
	return record
}
