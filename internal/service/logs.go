package service

import (
	"context"
	"time"

	"github.com/safebite/safebite/backend/internal/models"
	"github.com/safebite/safebite/backend/internal/store"
)

// LogService appends and reads a user's symptom and exposure logs.
type LogService struct {
	store store.Store
	now   func() time.Time
}

var _ ILogService = (*LogService)(nil)

func NewLogService(s store.Store) *LogService {
	return &LogService{store: s, now: time.Now}
}

// AddLog stores entry and returns its id. A server UTC timestamp is added
// when the caller did not send one.
func (s *LogService) AddLog(ctx context.Context, uid string, entry models.Document) (string, error) {
	col, err := store.UserLogsPath(uid)
	if err != nil {
		return "", err
	}
	doc := entry.Clone()
	if doc == nil {
		doc = models.Document{}
	}
	if !doc.Has(models.FieldTimestamp) {
		doc[models.FieldTimestamp] = s.now().UTC()
	}
	return s.store.Add(ctx, col, doc)
}

// ListLogs returns every entry ordered by timestamp, each carrying its
// document id under "id" unless the entry already has one.
func (s *LogService) ListLogs(ctx context.Context, uid string) ([]models.Document, error) {
	col, err := store.UserLogsPath(uid)
	if err != nil {
		return nil, err
	}
	snaps, err := store.All(s.store.Stream(ctx, col))
	if err != nil {
		return nil, err
	}

	entries := make([]models.Document, 0, len(snaps))
	for _, snap := range snaps {
		doc := snap.Data
		if doc == nil {
			doc = models.Document{}
		}
		if !doc.Has("id") {
			doc["id"] = snap.ID
		}
		entries = append(entries, doc)
	}
	models.SortByTimestamp(entries)
	return entries, nil
}

// readLogs returns the raw log bodies in store order.
func readLogs(ctx context.Context, s store.Store, uid string) ([]models.Document, error) {
	col, err := store.UserLogsPath(uid)
	if err != nil {
		return nil, err
	}
	return store.AllData(s.Stream(ctx, col))
}
