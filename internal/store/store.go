// Package store is the document store client: path-addressed get, set,
// merge, append and stream over an external database.
package store

import (
	"context"
	"errors"

	"github.com/safebite/safebite/backend/internal/models"
)

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidPath is returned for malformed document or collection paths.
	ErrInvalidPath = errors.New("invalid document path")
	// Done is returned by Iterator.Next when the collection is exhausted.
	Done = errors.New("no more documents")
)

// Store is a hierarchical document database addressed by slash-separated
// paths (collection/doc/collection/doc...).
type Store interface {
	// Get returns the document at docPath or ErrNotFound.
	Get(ctx context.Context, docPath string) (models.Document, error)
	// Set creates or overwrites the document at docPath.
	Set(ctx context.Context, docPath string, data models.Document) error
	// Update merges the top-level keys of data into an existing document.
	// It returns ErrNotFound when the document does not exist.
	Update(ctx context.Context, docPath string, data models.Document) error
	// Add stores data as a new document in the collection and returns its id.
	Add(ctx context.Context, collectionPath string, data models.Document) (string, error)
	// Stream lazily iterates the documents of a collection.
	Stream(ctx context.Context, collectionPath string) Iterator
	Close() error
}

// Snapshot is one document read from a collection.
type Snapshot struct {
	ID   string
	Data models.Document
}

// Iterator walks a collection once. Next returns Done after the last
// document; Stop must be called when the caller is finished.
type Iterator interface {
	Next() (*Snapshot, error)
	Stop()
}

// All drains it and returns every snapshot.
func All(it Iterator) ([]*Snapshot, error) {
	defer it.Stop()
	var out []*Snapshot
	for {
		snap, err := it.Next()
		if errors.Is(err, Done) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
}

// AllData drains it and returns only the document bodies.
func AllData(it Iterator) ([]models.Document, error) {
	snaps, err := All(it)
	if err != nil {
		return nil, err
	}
	docs := make([]models.Document, 0, len(snaps))
	for _, s := range snaps {
		docs = append(docs, s.Data)
	}
	return docs, nil
}

// errIterator yields err from its first Next call.
type errIterator struct{ err error }

func (e errIterator) Next() (*Snapshot, error) { return nil, e.err }
func (errIterator) Stop()                      {}
