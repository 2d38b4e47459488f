// Package vector provides interfaces and implementations for vector storage
// and similarity search over document passages.
package vector

import "context"

// Document represents a stored passage with its embedding and metadata.
type Document struct {
	// ID is a unique identifier for the document.
	ID string

	// Content is the passage text.
	Content string

	// Metadata holds source attributes (e.g. "source", "page", "category").
	Metadata map[string]any

	// Embedding is the vector representation of the passage content.
	Embedding []float32
}

// QueryResult represents a search result with similarity score.
type QueryResult struct {
	Document

	// Score represents the similarity score (higher = more similar).
	Score float32
}

// Driver handles storage and similarity search of embedded passages.
type Driver interface {
	// Add stores documents with their embeddings. If a document with the
	// same ID already exists, implementers should update the document.
	Add(ctx context.Context, docs []Document) error

	// Query finds the topK most similar documents to the given embedding.
	// filter is an optional expression in the form produced by NotEquals
	// (e.g. "category ne 'internal'"); the empty string means no filter.
	// Results are ordered by descending score.
	Query(ctx context.Context, embedding []float32, filter string, topK int) ([]QueryResult, error)

	// Delete removes documents by their IDs.
	Delete(ctx context.Context, ids []string) error

	// Close releases any resources held by the driver.
	Close() error
}
