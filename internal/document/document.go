// Package document defines the record written to and read from a
// collection: an id, the searchable text content, and a free-form
// metadata mapping for structured fields.
package document

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
)

// ErrInvalid is returned when a document fails constructor validation.
var ErrInvalid = errors.New("invalid document")

// reservedKeys are metadata keys that would collide with the document's
// own fields once flattened into a backend record.
var reservedKeys = map[string]struct{}{
	"id":      {},
	"content": {},
}

// Document is a single record in a collection. Metadata keys map to
// backend fields alongside id and content, so the reserved names are
// rejected by the constructors.
type Document struct {
	ID       string
	Content  string
	Metadata map[string]any
}

// New builds a document whose id is derived from its content hash, so
// writing the same content twice always targets the same id.
func New(content string, metadata map[string]any) (Document, error) {
	return WithID("", content, metadata)
}

// WithID builds a document under an explicit id. An empty id falls back
// to the content-hash derivation used by New.
func WithID(id, content string, metadata map[string]any) (Document, error) {
	if content == "" {
		return Document{}, fmt.Errorf("%w: content is empty", ErrInvalid)
	}
	for key := range metadata {
		if _, reserved := reservedKeys[key]; reserved {
			return Document{}, fmt.Errorf("%w: metadata key %q is reserved", ErrInvalid, key)
		}
	}
	if id == "" {
		id = HashID(content)
	}
	return Document{ID: id, Content: content, Metadata: metadata}, nil
}

// HashID derives the stable document id for a piece of content: the hex
// form of its SHA-256 digest.
func HashID(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
