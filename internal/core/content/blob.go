// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content

import (
	"context"

	"github.com/taibuivan/folio/internal/platform/blob"
)

// bucketStore adapts the object store to [BlobStore]; the kind is the key prefix.
type bucketStore struct {
	bucket *blob.Store
}

// NewBucketStore wraps a [blob.Store] as the asset store of the ingestor.
func NewBucketStore(bucket *blob.Store) BlobStore {
	return &bucketStore{bucket: bucket}
}

func (store *bucketStore) Store(context context.Context, upload Upload, kind Kind) (*StoredObject, error) {
	object, err := store.bucket.Put(context, string(kind), upload.Filename, upload.ContentType, upload.Data)
	if err != nil {
		return nil, err
	}

	return &StoredObject{
		Key:         object.Key,
		URL:         object.URL,
		ContentType: object.ContentType,
		Size:        object.Size,
	}, nil
}
