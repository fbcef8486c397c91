package store

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// MemoryBackend is an in-process Backend for tests and offline runs.
// Free-text matching is a case-insensitive substring check on content,
// a stand-in for the real engine's relevance matching.
type MemoryBackend struct {
	mu          sync.RWMutex
	collections map[string]map[string]map[string]any
}

var _ Backend = (*MemoryBackend)(nil)

// NewMemory builds an empty in-memory backend.
func NewMemory() *MemoryBackend {
	return &MemoryBackend{collections: make(map[string]map[string]map[string]any)}
}

// BulkWrite stores the batch. Without overwrite it mirrors the real
// engine's create action: colliding ids are rejected and reported while
// the rest of the batch is still written.
func (m *MemoryBackend) BulkWrite(ctx context.Context, collection string, docs []map[string]any, overwrite bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	bucket := m.collections[collection]
	if bucket == nil {
		bucket = make(map[string]map[string]any)
		m.collections[collection] = bucket
	}

	var rejected int
	for _, doc := range docs {
		id, ok := doc[idField].(string)
		if !ok || id == "" {
			return fmt.Errorf("document missing %q field", idField)
		}
		if !overwrite {
			if _, taken := bucket[id]; taken {
				rejected++
				continue
			}
		}
		bucket[id] = doc
	}
	if rejected > 0 {
		return fmt.Errorf("import: %d of %d documents rejected: %w", rejected, len(docs), ErrDuplicateDocument)
	}
	return nil
}

func (m *MemoryBackend) Exists(ctx context.Context, collection, id string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.collections[collection][id]
	return ok, nil
}

func (m *MemoryBackend) Count(ctx context.Context, collection string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return int64(len(m.collections[collection])), nil
}

// DeleteByID removes one document, failing with ErrNotFound on unknown
// ids so both backends share the strict delete policy.
func (m *MemoryBackend) DeleteByID(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	bucket := m.collections[collection]
	if _, ok := bucket[id]; !ok {
		return fmt.Errorf("document %q: %w", id, ErrNotFound)
	}
	delete(bucket, id)
	return nil
}

func (m *MemoryBackend) Query(ctx context.Context, collection, query string, filters []Filter) ([]map[string]any, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []map[string]any
	for _, fields := range m.collections[collection] {
		if matches(fields, query, filters) {
			out = append(out, fields)
		}
	}
	return out, nil
}

func (m *MemoryBackend) Ping(ctx context.Context) error {
	return nil
}

func (m *MemoryBackend) Config() map[string]string {
	return map[string]string{cfgBackend: backendMemory}
}

// Clear drops every stored document, for test cleanup.
func (m *MemoryBackend) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.collections = make(map[string]map[string]map[string]any)
}

func matches(fields map[string]any, query string, filters []Filter) bool {
	for _, f := range filters {
		value, ok := fields[f.Field]
		if !ok || !fieldHolds(value, f.Value) {
			return false
		}
	}
	if query == "" || query == "*" {
		return true
	}
	content, _ := fields[contentField].(string)
	return strings.Contains(strings.ToLower(content), strings.ToLower(query))
}

// fieldHolds reports equality for scalar fields and membership for list
// fields, matching the engine's := semantics.
func fieldHolds(have, want any) bool {
	switch list := have.(type) {
	case []string:
		for _, item := range list {
			if s, ok := want.(string); ok && item == s {
				return true
			}
		}
		return false
	case []any:
		for _, item := range list {
			if reflect.DeepEqual(item, want) {
				return true
			}
		}
		return false
	default:
		return reflect.DeepEqual(have, want)
	}
}
