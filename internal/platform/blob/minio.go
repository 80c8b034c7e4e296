// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package blob stores binary assets in an S3-compatible bucket through minio-go.

Objects are write-once: every upload gets a fresh key under a per-kind prefix,
so a public URL never changes meaning.

Usage:

	store, err := blob.NewStore(ctx, blob.Options{Endpoint: "localhost:9000", Bucket: "folio-media"}, logger)
	object, err := store.Put(ctx, "image", "sunset.jpg", "", data)
*/
package blob

import (
	"bytes"
	stdctx "context"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/taibuivan/folio/pkg/uuid"
)

const pingTimeout = 2 * time.Second

// fallbackExtensions names files uploaded without an extension.
var fallbackExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// Options configures the bucket connection.
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool

	// PublicURL is the base of returned object URLs. Defaults to the endpoint.
	PublicURL string
}

// Object describes an uploaded asset.
type Object struct {
	Key         string
	URL         string
	ContentType string
	Size        int64
}

// Store writes objects into a single bucket.
type Store struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

/*
NewStore connects to the object store and makes sure the bucket exists.

Parameters:
  - context: Context for the bucket check.
  - options: Options
  - logger: Structured logger for connection events.

Returns:
  - *Store: Ready-to-use store
  - error: Connection or bucket creation failures
*/
func NewStore(context stdctx.Context, options Options, logger *slog.Logger) (*Store, error) {
	client, err := minio.New(options.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(options.AccessKey, options.SecretKey, ""),
		Secure: options.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("blob: invalid endpoint: %w", err)
	}

	store := &Store{
		client:    client,
		bucket:    options.Bucket,
		publicURL: publicBase(options),
	}

	if err := store.ensureBucket(context); err != nil {
		return nil, err
	}

	logger.Info("blob store connected",
		slog.String("endpoint", options.Endpoint),
		slog.String("bucket", options.Bucket),
	)

	return store, nil
}

/*
Put uploads data under a fresh key "<prefix>/<uuid><ext>".

Description: An empty or generic content type is replaced by the type sniffed
from the data.

Parameters:
  - context: context.Context
  - prefix: string (asset kind)
  - filename: string (original name, used for its extension)
  - contentType: string
  - data: []byte

Returns:
  - *Object: Key, public URL, content type and size
  - error: Upload failures
*/
func (store *Store) Put(context stdctx.Context, prefix, filename, contentType string, data []byte) (*Object, error) {
	contentType = DetectContentType(contentType, data)
	key := ObjectKey(prefix, filename, contentType)

	info, err := store.client.PutObject(context, store.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("blob: put %s: %w", key, err)
	}

	return &Object{
		Key:         key,
		URL:         ObjectURL(store.publicURL, store.bucket, key),
		ContentType: contentType,
		Size:        info.Size,
	}, nil
}

// Ping verifies the bucket is reachable.
func (store *Store) Ping(context stdctx.Context) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if _, err := store.client.BucketExists(pingCtx, store.bucket); err != nil {
		return fmt.Errorf("blob: ping failed: %w", err)
	}
	return nil
}

func (store *Store) ensureBucket(context stdctx.Context) error {
	exists, err := store.client.BucketExists(context, store.bucket)
	if err != nil {
		return fmt.Errorf("blob: bucket check: %w", err)
	}
	if exists {
		return nil
	}

	if err := store.client.MakeBucket(context, store.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("blob: create bucket %s: %w", store.bucket, err)
	}
	return nil
}

// # Naming

// ObjectKey builds "<prefix>/<uuid><ext>". The extension comes from the
// filename, else from the content type.
func ObjectKey(prefix, filename, contentType string) string {
	extension := strings.ToLower(path.Ext(filename))
	if extension == "" {
		extension = fallbackExtensions[contentType]
	}
	return prefix + "/" + uuid.New() + extension
}

// ObjectURL joins the public base, bucket and key.
func ObjectURL(base, bucket, key string) string {
	return strings.TrimRight(base, "/") + "/" + bucket + "/" + key
}

// DetectContentType keeps a specific declared type and sniffs the rest.
func DetectContentType(declared string, data []byte) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	return http.DetectContentType(data)
}

func publicBase(options Options) string {
	if options.PublicURL != "" {
		return options.PublicURL
	}

	scheme := "http://"
	if options.UseSSL {
		scheme = "https://"
	}
	return scheme + options.Endpoint
}
