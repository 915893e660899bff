package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/safebite/safebite/backend/internal/models"
	"github.com/safebite/safebite/backend/internal/store"
)

// MockStore is a mock implementation of store.Store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Get(ctx context.Context, docPath string) (models.Document, error) {
	args := m.Called(ctx, docPath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(models.Document), args.Error(1)
}

func (m *MockStore) Set(ctx context.Context, docPath string, data models.Document) error {
	return m.Called(ctx, docPath, data).Error(0)
}

func (m *MockStore) Update(ctx context.Context, docPath string, data models.Document) error {
	return m.Called(ctx, docPath, data).Error(0)
}

func (m *MockStore) Add(ctx context.Context, collectionPath string, data models.Document) (string, error) {
	args := m.Called(ctx, collectionPath, data)
	return args.String(0), args.Error(1)
}

func (m *MockStore) Stream(ctx context.Context, collectionPath string) store.Iterator {
	return m.Called(ctx, collectionPath).Get(0).(store.Iterator)
}

func (m *MockStore) Close() error {
	return m.Called().Error(0)
}

// SliceIterator yields Snapshots in order, then Err (store.Done when nil).
type SliceIterator struct {
	Snapshots []*store.Snapshot
	Err       error
	Stopped   bool
}

func (it *SliceIterator) Next() (*store.Snapshot, error) {
	if len(it.Snapshots) == 0 {
		if it.Err != nil {
			return nil, it.Err
		}
		return nil, store.Done
	}
	s := it.Snapshots[0]
	it.Snapshots = it.Snapshots[1:]
	return s, nil
}

func (it *SliceIterator) Stop() { it.Stopped = true }
