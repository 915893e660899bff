package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/safebite/safebite/backend/internal/models"
)

const (
	defaultRedisPrefix = "safebite"
	redisPageSize      = 100
	redisUpdateRetries = 3
)

// RedisStore keeps each document as a JSON string and each collection as a
// sorted set of document ids scored by insertion time.
type RedisStore struct {
	client *redis.Client
	prefix string
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore wraps an existing client. An empty prefix uses "safebite".
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) docKey(docPath string) string {
	return s.prefix + ":doc:" + docPath
}

func (s *RedisStore) colKey(collection string) string {
	return s.prefix + ":col:" + collection
}

func (s *RedisStore) Get(ctx context.Context, docPath string) (models.Document, error) {
	if _, _, err := SplitDocPath(docPath); err != nil {
		return nil, err
	}
	body, err := s.client.Get(ctx, s.docKey(docPath)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read document %s: %w", docPath, err)
	}
	return decodeDocument(body)
}

func (s *RedisStore) Set(ctx context.Context, docPath string, data models.Document) error {
	collection, id, err := SplitDocPath(docPath)
	if err != nil {
		return err
	}
	body, err := encodeDocument(data)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.docKey(docPath), body, 0)
		pipe.ZAddNX(ctx, s.colKey(collection), redis.Z{
			Score:  float64(time.Now().UnixNano()),
			Member: id,
		})
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to write document %s: %w", docPath, err)
	}
	return nil
}

func (s *RedisStore) Update(ctx context.Context, docPath string, data models.Document) error {
	if _, _, err := SplitDocPath(docPath); err != nil {
		return err
	}
	key := s.docKey(docPath)
	txf := func(tx *redis.Tx) error {
		body, err := tx.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		current, err := decodeDocument(body)
		if err != nil {
			return err
		}
		current.Merge(data)
		merged, err := encodeDocument(current)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, merged, 0)
			return nil
		})
		return err
	}

	for i := 0; i < redisUpdateRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil && !errors.Is(err, ErrNotFound) {
			return fmt.Errorf("failed to update document %s: %w", docPath, err)
		}
		return err
	}
	return fmt.Errorf("failed to update document %s: too much contention", docPath)
}

func (s *RedisStore) Add(ctx context.Context, collectionPath string, data models.Document) (string, error) {
	if err := ValidateCollectionPath(collectionPath); err != nil {
		return "", err
	}
	id := uuid.NewString()
	if err := s.Set(ctx, Join(collectionPath, id), data); err != nil {
		return "", err
	}
	return id, nil
}

func (s *RedisStore) Stream(ctx context.Context, collectionPath string) Iterator {
	if err := ValidateCollectionPath(collectionPath); err != nil {
		return errIterator{err: err}
	}
	return &redisIterator{ctx: ctx, store: s, collection: collectionPath}
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// redisIterator fetches the collection one page of ids at a time.
type redisIterator struct {
	ctx        context.Context
	store      *RedisStore
	collection string
	offset     int64
	page       []*Snapshot
	exhausted  bool
}

func (it *redisIterator) Next() (*Snapshot, error) {
	for len(it.page) == 0 {
		if it.exhausted {
			return nil, Done
		}
		if err := it.fetch(); err != nil {
			return nil, err
		}
	}
	snap := it.page[0]
	it.page = it.page[1:]
	return snap, nil
}

func (it *redisIterator) fetch() error {
	s := it.store
	ids, err := s.client.ZRange(it.ctx, s.colKey(it.collection), it.offset, it.offset+redisPageSize-1).Result()
	if err != nil {
		return fmt.Errorf("failed to stream %s: %w", it.collection, err)
	}
	it.offset += int64(len(ids))
	if len(ids) < redisPageSize {
		it.exhausted = true
	}
	if len(ids) == 0 {
		return nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.docKey(Join(it.collection, id))
	}
	values, err := s.client.MGet(it.ctx, keys...).Result()
	if err != nil {
		return fmt.Errorf("failed to stream %s: %w", it.collection, err)
	}
	for i, v := range values {
		body, ok := v.(string)
		if !ok {
			// id indexed but document gone
			continue
		}
		data, err := decodeDocument(body)
		if err != nil {
			return err
		}
		it.page = append(it.page, &Snapshot{ID: ids[i], Data: data})
	}
	return nil
}

func (it *redisIterator) Stop() {
	it.exhausted = true
	it.page = nil
}
