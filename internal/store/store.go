package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a document or local item does not exist
	ErrNotFound = errors.New("not found")
	// ErrUnavailable wraps transport failures of a backing store
	ErrUnavailable = errors.New("store unavailable")
)

// Document is a schemaless JSON object stored at a slash separated path
type Document map[string]any

// Encode converts a JSON-serializable value into a Document
func Encode(v any) (Document, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgEncodeFailed, err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgEncodeFailed, err)
	}
	return doc, nil
}

// Decode fills v from the document
func (d Document) Decode(v any) error {
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgDecodeFailed, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgDecodeFailed, err)
	}
	return nil
}

// Int reads a numeric field, tolerating the number types JSON decoding produces
func (d Document) Int(field string) int64 {
	return toInt64(d[field])
}

func toInt64(v any) int64 {
	switch n := v.(type) {
	case int:
		return int64(n)
	case int32:
		return int64(n)
	case int64:
		return n
	case float64:
		return int64(n)
	case json.Number:
		i, _ := n.Int64()
		return i
	default:
		return 0
	}
}

// Remote is the authoritative document store
type Remote interface {
	// GetDocument returns ErrNotFound when nothing is stored at path
	GetDocument(ctx context.Context, path string) (Document, error)
	// SetDocument replaces the document, or merges top-level fields when merge is true
	SetDocument(ctx context.Context, path string, data Document, merge bool) error
	// UpdateDocument merges fields into an existing document; ErrNotFound when absent
	UpdateDocument(ctx context.Context, path string, fields Document) error
	// IncrementField atomically adds delta to a numeric field, creating it when missing
	IncrementField(ctx context.Context, path, field string, delta int64) error
	// RunTransaction serializes a read-modify-write of one document. fn receives nil
	// when the document does not exist. A nil result leaves the document untouched;
	// an error aborts without writing and is returned as-is.
	RunTransaction(ctx context.Context, path string, fn func(current Document) (Document, error)) error
	// ListDocuments returns the direct children of a collection keyed by id
	ListDocuments(ctx context.Context, collection string) (map[string]Document, error)
}

// Local is a persistent key-value cache on the service host
type Local interface {
	// GetItem returns ErrNotFound when the key is absent
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
	// Keys lists stored keys starting with prefix
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Join builds a document path from segments
func Join(segments ...string) string {
	return strings.Join(segments, "/")
}

// Split returns the parent collection and id of a document path
func Split(path string) (parent, id string) {
	i := strings.LastIndex(path, "/")
	if i < 0 {
		return "", path
	}
	return path[:i], path[i+1:]
}
