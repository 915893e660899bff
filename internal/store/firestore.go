package store

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/safebite/safebite/backend/internal/models"
)

// FirestoreStore is the Cloud Firestore backend.
type FirestoreStore struct {
	client *firestore.Client
}

var _ Store = (*FirestoreStore)(nil)

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) doc(docPath string) (*firestore.DocumentRef, error) {
	if _, _, err := SplitDocPath(docPath); err != nil {
		return nil, err
	}
	ref := s.client.Doc(docPath)
	if ref == nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, docPath)
	}
	return ref, nil
}

func (s *FirestoreStore) Get(ctx context.Context, docPath string) (models.Document, error) {
	ref, err := s.doc(docPath)
	if err != nil {
		return nil, err
	}
	snap, err := ref.Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", docPath, err)
	}
	return models.Document(snap.Data()), nil
}

func (s *FirestoreStore) Set(ctx context.Context, docPath string, data models.Document) error {
	ref, err := s.doc(docPath)
	if err != nil {
		return err
	}
	if _, err := ref.Set(ctx, map[string]any(nonNilDocument(data))); err != nil {
		return fmt.Errorf("failed to write document %s: %w", docPath, err)
	}
	return nil
}

func (s *FirestoreStore) Update(ctx context.Context, docPath string, data models.Document) error {
	ref, err := s.doc(docPath)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		// Firestore rejects an empty update; still report a missing document.
		_, err := s.Get(ctx, docPath)
		return err
	}

	updates := make([]firestore.Update, 0, len(data))
	for k, v := range data {
		updates = append(updates, firestore.Update{FieldPath: firestore.FieldPath{k}, Value: v})
	}
	_, err = ref.Update(ctx, updates)
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update document %s: %w", docPath, err)
	}
	return nil
}

func (s *FirestoreStore) Add(ctx context.Context, collectionPath string, data models.Document) (string, error) {
	if err := ValidateCollectionPath(collectionPath); err != nil {
		return "", err
	}
	ref, _, err := s.client.Collection(collectionPath).Add(ctx, map[string]any(nonNilDocument(data)))
	if err != nil {
		return "", fmt.Errorf("failed to add document to %s: %w", collectionPath, err)
	}
	return ref.ID, nil
}

func (s *FirestoreStore) Stream(ctx context.Context, collectionPath string) Iterator {
	if err := ValidateCollectionPath(collectionPath); err != nil {
		return errIterator{err: err}
	}
	return &firestoreIterator{it: s.client.Collection(collectionPath).Documents(ctx)}
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}

type firestoreIterator struct {
	it *firestore.DocumentIterator
}

func (f *firestoreIterator) Next() (*Snapshot, error) {
	snap, err := f.it.Next()
	if errors.Is(err, iterator.Done) {
		return nil, Done
	}
	if err != nil {
		return nil, err
	}
	return &Snapshot{ID: snap.Ref.ID, Data: models.Document(snap.Data())}, nil
}

func (f *firestoreIterator) Stop() {
	f.it.Stop()
}

func nonNilDocument(d models.Document) models.Document {
	if d == nil {
		return models.Document{}
	}
	return d
}
