// Package store implements a thin document store on top of a search
// engine backend: policy-aware batch writes, count, delete, filtered
// search, and a serializable snapshot of the connection identity.
package store

import (
	"context"
	"fmt"

	"docstore/internal/document"
)

// Native field names shared by every backend record.
const (
	idField      = "id"
	contentField = "content"
)

// DuplicatePolicy decides what Write does when a document id already
// exists in the collection.
type DuplicatePolicy int

const (
	// DuplicateFail rejects the whole batch before anything is written.
	DuplicateFail DuplicatePolicy = iota
	// DuplicateOverwrite replaces the stored document.
	DuplicateOverwrite
	// DuplicateSkip keeps the stored document and drops the new one.
	DuplicateSkip
)

func (p DuplicatePolicy) String() string {
	switch p {
	case DuplicateFail:
		return "fail"
	case DuplicateOverwrite:
		return "overwrite"
	case DuplicateSkip:
		return "skip"
	default:
		return fmt.Sprintf("policy(%d)", int(p))
	}
}

// ParsePolicy maps a policy name from a flag or config value to its
// DuplicatePolicy.
func ParsePolicy(name string) (DuplicatePolicy, error) {
	switch name {
	case "fail":
		return DuplicateFail, nil
	case "overwrite":
		return DuplicateOverwrite, nil
	case "skip":
		return DuplicateSkip, nil
	default:
		return DuplicateFail, fmt.Errorf("unknown duplicate policy %q (want fail, overwrite or skip)", name)
	}
}

// Filter restricts a search to documents whose field holds the given
// value. On list fields the match is membership, so Eq("cast", "Tom
// Hanks") finds every document with Tom Hanks anywhere in the cast.
type Filter struct {
	Field string
	Value any
}

// Eq builds an equality filter on a metadata field.
func Eq(field string, value any) Filter {
	return Filter{Field: field, Value: value}
}

// Store is a document store bound to one collection of one backend.
type Store struct {
	backend    Backend
	collection string
}

// New binds a store to a backend and collection.
func New(backend Backend, collection string) (*Store, error) {
	if backend == nil {
		return nil, fmt.Errorf("%w: backend is nil", ErrInvalidConfig)
	}
	if collection == "" {
		return nil, fmt.Errorf("%w: collection is empty", ErrInvalidConfig)
	}
	return &Store{backend: backend, collection: collection}, nil
}

// Collection returns the collection name the store writes to.
func (s *Store) Collection() string {
	return s.collection
}

// Ping verifies the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}

// Write indexes a batch of documents under the given duplicate policy.
// DuplicateFail checks every id up front and returns an error wrapping
// ErrDuplicateDocument before anything is written. DuplicateSkip drops
// documents whose id is already stored, or appears earlier in the same
// batch, and writes the rest. DuplicateOverwrite upserts the whole
// batch. The id check under fail and skip reads the live collection,
// so a concurrent writer can still race a fail batch into a duplicate;
// the backend rejects those with the same error.
func (s *Store) Write(ctx context.Context, docs []document.Document, policy DuplicatePolicy) error {
	if len(docs) == 0 {
		return nil
	}

	native := make([]map[string]any, 0, len(docs))
	seen := make(map[string]struct{}, len(docs))
	for _, doc := range docs {
		if doc.ID == "" {
			return fmt.Errorf("%w: document id is empty", document.ErrInvalid)
		}
		if policy != DuplicateOverwrite {
			if _, dup := seen[doc.ID]; dup {
				if policy == DuplicateFail {
					return fmt.Errorf("%w: %s", ErrDuplicateDocument, doc.ID)
				}
				continue
			}
			stored, err := s.backend.Exists(ctx, s.collection, doc.ID)
			if err != nil {
				return fmt.Errorf("check id %q: %w", doc.ID, err)
			}
			if stored {
				if policy == DuplicateFail {
					return fmt.Errorf("%w: %s", ErrDuplicateDocument, doc.ID)
				}
				continue
			}
		}
		seen[doc.ID] = struct{}{}
		native = append(native, toNative(doc))
	}

	if len(native) == 0 {
		return nil
	}
	if err := s.backend.BulkWrite(ctx, s.collection, native, policy == DuplicateOverwrite); err != nil {
		return fmt.Errorf("bulk write: %w", err)
	}
	return nil
}

// Count returns the number of documents in the collection.
func (s *Store) Count(ctx context.Context) (int64, error) {
	count, err := s.backend.Count(ctx, s.collection)
	if err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return count, nil
}

// Delete removes documents by id. A missing id is an error wrapping
// ErrNotFound; deletion stops at the first failure, so earlier ids in
// the batch stay deleted.
func (s *Store) Delete(ctx context.Context, ids ...string) error {
	for _, id := range ids {
		if err := s.backend.DeleteByID(ctx, s.collection, id); err != nil {
			return fmt.Errorf("delete %q: %w", id, err)
		}
	}
	return nil
}

// Search runs a free-text query over document content, restricted by
// the given filters, and returns the matching documents. An empty query
// matches everything, so Search(ctx, "", Eq("genre", "comedy")) lists a
// filtered slice of the collection.
func (s *Store) Search(ctx context.Context, query string, filters ...Filter) ([]document.Document, error) {
	hits, err := s.backend.Query(ctx, s.collection, query, filters)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	docs := make([]document.Document, 0, len(hits))
	for _, hit := range hits {
		docs = append(docs, fromNative(hit))
	}
	return docs, nil
}

// ToConfig captures the store's connection identity, the backend's own
// config plus the collection name, as a flat mapping FromConfig can
// rebuild from. Document contents are never part of the snapshot.
func (s *Store) ToConfig() map[string]string {
	cfg := make(map[string]string)
	for key, value := range s.backend.Config() {
		cfg[key] = value
	}
	cfg[cfgCollection] = s.collection
	return cfg
}

// toNative flattens a document into the backend record shape. Metadata
// is copied first so the document's own id and content always win.
func toNative(doc document.Document) map[string]any {
	fields := make(map[string]any, len(doc.Metadata)+2)
	for key, value := range doc.Metadata {
		fields[key] = value
	}
	fields[idField] = doc.ID
	fields[contentField] = doc.Content
	return fields
}

// fromNative rebuilds a document from a backend record, lifting id and
// content out and leaving everything else as metadata.
func fromNative(fields map[string]any) document.Document {
	doc := document.Document{}
	if id, ok := fields[idField].(string); ok {
		doc.ID = id
	}
	if content, ok := fields[contentField].(string); ok {
		doc.Content = content
	}
	for key, value := range fields {
		if key == idField || key == contentField {
			continue
		}
		if doc.Metadata == nil {
			doc.Metadata = make(map[string]any, len(fields)-2)
		}
		doc.Metadata[key] = value
	}
	return doc
}
