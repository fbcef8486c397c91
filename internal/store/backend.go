package store

import "context"

// Backend is the search engine a Store writes to. Implementations speak
// the engine's native flat-field representation; the Store handles the
// translation from documents and all duplicate-policy decisions.
type Backend interface {
	// BulkWrite indexes a batch of native records. With overwrite set the
	// batch upserts; without it the backend rejects ids it already holds
	// with an error wrapping ErrDuplicateDocument.
	BulkWrite(ctx context.Context, collection string, docs []map[string]any, overwrite bool) error

	// Exists reports whether the collection holds the given id.
	Exists(ctx context.Context, collection, id string) (bool, error)

	// Count returns the number of documents in the collection.
	Count(ctx context.Context, collection string) (int64, error)

	// DeleteByID removes one document, wrapping ErrNotFound when the id
	// is not present.
	DeleteByID(ctx context.Context, collection, id string) error

	// Query runs a free-text match over document content restricted by
	// the given filters and returns the native records of every hit.
	// An empty query matches all documents.
	Query(ctx context.Context, collection, query string, filters []Filter) ([]map[string]any, error)

	// Ping verifies the backend is reachable and healthy.
	Ping(ctx context.Context) error

	// Config returns the connection identity of the backend as a flat
	// mapping, merged into the store's ToConfig snapshot.
	Config() map[string]string
}
