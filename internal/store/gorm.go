package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/safebite/safebite/backend/internal/models"
)

// DocumentRecord is the row layout of the documents table shared by the
// postgres and sqlite backends.
type DocumentRecord struct {
	Path       string    `gorm:"primaryKey;size:768"`
	Collection string    `gorm:"size:768;not null;index:idx_documents_collection_created,priority:1"`
	DocID      string    `gorm:"size:255;not null;index:idx_documents_collection_created,priority:3"`
	Data       string    `gorm:"type:text;not null"`
	CreatedAt  time.Time `gorm:"not null;index:idx_documents_collection_created,priority:2"`
	UpdatedAt  time.Time `gorm:"not null"`
}

func (DocumentRecord) TableName() string {
	return "documents"
}

// GormStore keeps every document as a JSON row keyed by its full path.
type GormStore struct {
	db *gorm.DB
}

var _ Store = (*GormStore)(nil)

// NewGormStore wraps an open gorm connection. The documents table must exist;
// see database.RunMigrations.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Get(ctx context.Context, docPath string) (models.Document, error) {
	if _, _, err := SplitDocPath(docPath); err != nil {
		return nil, err
	}
	var rec DocumentRecord
	err := s.db.WithContext(ctx).Where("path = ?", docPath).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", docPath, err)
	}
	return decodeDocument(rec.Data)
}

func (s *GormStore) Set(ctx context.Context, docPath string, data models.Document) error {
	collection, id, err := SplitDocPath(docPath)
	if err != nil {
		return err
	}
	body, err := encodeDocument(data)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	rec := DocumentRecord{
		Path:       docPath,
		Collection: collection,
		DocID:      id,
		Data:       body,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "path"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&rec).Error
	if err != nil {
		return fmt.Errorf("failed to write document %s: %w", docPath, err)
	}
	return nil
}

func (s *GormStore) Update(ctx context.Context, docPath string, data models.Document) error {
	if _, _, err := SplitDocPath(docPath); err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rec DocumentRecord
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("path = ?", docPath).Take(&rec).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to read document %s: %w", docPath, err)
		}

		current, err := decodeDocument(rec.Data)
		if err != nil {
			return err
		}
		current.Merge(data)
		body, err := encodeDocument(current)
		if err != nil {
			return err
		}

		err = tx.Model(&DocumentRecord{}).Where("path = ?", docPath).Updates(map[string]any{
			"data":       body,
			"updated_at": time.Now().UTC(),
		}).Error
		if err != nil {
			return fmt.Errorf("failed to update document %s: %w", docPath, err)
		}
		return nil
	})
}

func (s *GormStore) Add(ctx context.Context, collectionPath string, data models.Document) (string, error) {
	if err := ValidateCollectionPath(collectionPath); err != nil {
		return "", err
	}
	id := uuid.NewString()
	body, err := encodeDocument(data)
	if err != nil {
		return "", err
	}
	now := time.Now().UTC()
	rec := DocumentRecord{
		Path:       Join(collectionPath, id),
		Collection: collectionPath,
		DocID:      id,
		Data:       body,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return "", fmt.Errorf("failed to add document to %s: %w", collectionPath, err)
	}
	return id, nil
}

func (s *GormStore) Stream(ctx context.Context, collectionPath string) Iterator {
	if err := ValidateCollectionPath(collectionPath); err != nil {
		return errIterator{err: err}
	}
	db := s.db.WithContext(ctx)
	rows, err := db.Model(&DocumentRecord{}).
		Where("collection = ?", collectionPath).
		Order("created_at, doc_id").
		Rows()
	if err != nil {
		return errIterator{err: fmt.Errorf("failed to stream %s: %w", collectionPath, err)}
	}
	return &gormIterator{db: db, rows: rows}
}

// Close releases the underlying connection pool.
func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

type gormIterator struct {
	db   *gorm.DB
	rows *sql.Rows
	done bool
}

func (it *gormIterator) Next() (*Snapshot, error) {
	if it.done {
		return nil, Done
	}
	if !it.rows.Next() {
		it.Stop()
		if err := it.rows.Err(); err != nil {
			return nil, err
		}
		return nil, Done
	}
	var rec DocumentRecord
	if err := it.db.ScanRows(it.rows, &rec); err != nil {
		return nil, fmt.Errorf("failed to scan document: %w", err)
	}
	data, err := decodeDocument(rec.Data)
	if err != nil {
		return nil, err
	}
	return &Snapshot{ID: rec.DocID, Data: data}, nil
}

func (it *gormIterator) Stop() {
	if !it.done {
		it.done = true
		_ = it.rows.Close()
	}
}

func encodeDocument(data models.Document) (string, error) {
	if data == nil {
		data = models.Document{}
	}
	body, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}
	return string(body), nil
}

func decodeDocument(body string) (models.Document, error) {
	doc, err := models.DecodeDocument(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return doc, nil
}
