package store

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/typesense/typesense-go/typesense"
	"github.com/typesense/typesense-go/typesense/api"
	"github.com/typesense/typesense-go/typesense/api/pointer"
)

const (
	connectionTimeout  = 5 * time.Second
	healthCheckTimeout = 5 * time.Second

	// Typesense caps per_page at 250, so larger result sets paginate.
	searchPageSize = 250
)

// TypesenseBackend talks to a Typesense server over its HTTP API.
type TypesenseBackend struct {
	client *typesense.Client
	url    string
	apiKey string
}

var _ Backend = (*TypesenseBackend)(nil)

// NewTypesense builds a backend for the Typesense server at url.
func NewTypesense(url, apiKey string) *TypesenseBackend {
	client := typesense.NewClient(
		typesense.WithServer(url),
		typesense.WithAPIKey(apiKey),
		typesense.WithConnectionTimeout(connectionTimeout),
	)
	return &TypesenseBackend{client: client, url: url, apiKey: apiKey}
}

// BulkWrite imports the batch in one call, action create or upsert
// depending on overwrite. Typesense imports line by line, so a rejected
// document never blocks the rest of the batch; rejections are collected
// from the per-document responses afterwards.
func (b *TypesenseBackend) BulkWrite(ctx context.Context, collection string, docs []map[string]any, overwrite bool) error {
	payload := make([]interface{}, len(docs))
	for i, doc := range docs {
		payload[i] = doc
	}
	action := "create"
	if overwrite {
		action = "upsert"
	}
	params := &api.ImportDocumentsParams{Action: pointer.String(action)}

	responses, err := b.client.Collection(collection).Documents().Import(ctx, payload, params)
	if err != nil {
		if statusOf(err) == http.StatusNotFound {
			return fmt.Errorf("import: collection %q: %w", collection, ErrNotFound)
		}
		return mapTypesenseError("import", err)
	}

	var failed, duplicates int
	var firstErr string
	for _, resp := range responses {
		if resp == nil || resp.Success {
			continue
		}
		failed++
		if firstErr == "" {
			firstErr = resp.Error
		}
		if strings.Contains(resp.Error, "already exists") {
			duplicates++
		}
	}
	if failed == 0 {
		return nil
	}
	if duplicates == failed {
		return fmt.Errorf("import: %d of %d documents rejected: %w", failed, len(docs), ErrDuplicateDocument)
	}
	return fmt.Errorf("import: %d of %d documents failed: %s", failed, len(docs), firstErr)
}

// Exists retrieves the document by id and treats a 404 as absence.
func (b *TypesenseBackend) Exists(ctx context.Context, collection, id string) (bool, error) {
	_, err := b.client.Collection(collection).Document(id).Retrieve(ctx)
	if err != nil {
		if statusOf(err) == http.StatusNotFound {
			return false, nil
		}
		return false, mapTypesenseError("retrieve", err)
	}
	return true, nil
}

// Count reads the document count off the collection metadata.
func (b *TypesenseBackend) Count(ctx context.Context, collection string) (int64, error) {
	resp, err := b.client.Collection(collection).Retrieve(ctx)
	if err != nil {
		if statusOf(err) == http.StatusNotFound {
			return 0, fmt.Errorf("collection %q: %w", collection, ErrNotFound)
		}
		return 0, mapTypesenseError("collection retrieve", err)
	}
	if resp.NumDocuments == nil {
		return 0, nil
	}
	return *resp.NumDocuments, nil
}

// DeleteByID removes one document; a 404 surfaces as ErrNotFound.
func (b *TypesenseBackend) DeleteByID(ctx context.Context, collection, id string) error {
	if _, err := b.client.Collection(collection).Document(id).Delete(ctx); err != nil {
		return mapTypesenseError("delete", err)
	}
	return nil
}

// Query searches document content with an optional filter_by clause and
// pages through the results until every hit is collected.
func (b *TypesenseBackend) Query(ctx context.Context, collection, query string, filters []Filter) ([]map[string]any, error) {
	q := query
	if q == "" {
		q = "*"
	}
	filterBy := buildFilterBy(filters)

	var out []map[string]any
	for page := 1; ; page++ {
		params := &api.SearchCollectionParams{
			Q:       q,
			QueryBy: contentField,
			Page:    pointer.Int(page),
			PerPage: pointer.Int(searchPageSize),
		}
		if filterBy != "" {
			params.FilterBy = pointer.String(filterBy)
		}

		result, err := b.client.Collection(collection).Documents().Search(ctx, params)
		if err != nil {
			if statusOf(err) == http.StatusNotFound {
				return nil, fmt.Errorf("search: collection %q: %w", collection, ErrNotFound)
			}
			return nil, mapTypesenseError("search", err)
		}
		if result.Hits == nil || len(*result.Hits) == 0 {
			break
		}
		for _, hit := range *result.Hits {
			if hit.Document != nil {
				out = append(out, *hit.Document)
			}
		}
		if result.Found != nil && len(out) >= *result.Found {
			break
		}
		if len(*result.Hits) < searchPageSize {
			break
		}
	}
	return out, nil
}

// Ping checks the server health endpoint.
func (b *TypesenseBackend) Ping(ctx context.Context) error {
	healthy, err := b.client.Health(ctx, healthCheckTimeout)
	if err != nil {
		return mapTypesenseError("health", err)
	}
	if !healthy {
		return fmt.Errorf("typesense health: %w: server reports unhealthy", ErrUnavailable)
	}
	return nil
}

// Config returns the connection identity used by ToConfig snapshots.
func (b *TypesenseBackend) Config() map[string]string {
	return map[string]string{
		cfgBackend: backendTypesense,
		cfgURL:     b.url,
		cfgAPIKey:  b.apiKey,
	}
}

// buildFilterBy renders filters as a Typesense filter_by expression.
// String values are backtick-quoted so names with spaces survive; on
// string[] fields := matches any element.
func buildFilterBy(filters []Filter) string {
	if len(filters) == 0 {
		return ""
	}
	clauses := make([]string, 0, len(filters))
	for _, f := range filters {
		switch v := f.Value.(type) {
		case string:
			clauses = append(clauses, fmt.Sprintf("%s:=`%s`", f.Field, v))
		default:
			clauses = append(clauses, fmt.Sprintf("%s:=%v", f.Field, v))
		}
	}
	return strings.Join(clauses, " && ")
}

// statusOf extracts the HTTP status from a typesense client error, or
// zero when the error never reached the server.
func statusOf(err error) int {
	var httpErr *typesense.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.Status
	}
	return 0
}

// mapTypesenseError translates client errors into the store's sentinel
// errors: 404 to ErrNotFound, 409 to ErrDuplicateDocument, transport
// failures to ErrUnavailable. Context cancellation passes through.
func mapTypesenseError(op string, err error) error {
	var httpErr *typesense.HTTPError
	switch {
	case errors.As(err, &httpErr):
		switch httpErr.Status {
		case http.StatusNotFound:
			return fmt.Errorf("typesense %s: %w", op, ErrNotFound)
		case http.StatusConflict:
			return fmt.Errorf("typesense %s: %w", op, ErrDuplicateDocument)
		case http.StatusServiceUnavailable:
			return fmt.Errorf("typesense %s: %w", op, ErrUnavailable)
		default:
			return fmt.Errorf("typesense %s: status %d: %s", op, httpErr.Status, httpErr.Body)
		}
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("typesense %s: %w", op, err)
	default:
		return fmt.Errorf("typesense %s: %w: %v", op, ErrUnavailable, err)
	}
}
