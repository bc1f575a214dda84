package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"quiz-storefront/internal/domain"

	"github.com/redis/go-redis/v9"
)

// Store keeps one collection in Redis:
//
//	HSET {prefix}:{collection}:docs  {id} {json}
//	ZADD {prefix}:{collection}:order {seq} {id}   (seq from INCR {prefix}:{collection}:seq)
//
// The sorted set gives List its insertion order; a replace keeps the original score.
type Store[T domain.Document] struct {
	client   *redis.Client
	base     string
	notFound error
}

func NewStore[T domain.Document](client *redis.Client, prefix, collection string, notFound error) *Store[T] {
	return &Store[T]{
		client:   client,
		base:     prefix + ":" + collection,
		notFound: notFound,
	}
}

func (s *Store[T]) Get(ctx context.Context, id string) (T, error) {
	var doc T
	raw, err := s.client.HGet(ctx, s.docsKey(), id).Bytes()
	if errors.Is(err, redis.Nil) {
		return doc, s.notFound
	}
	if err != nil {
		return doc, fmt.Errorf("redis hget %s: %w", s.base, err)
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("decode %s/%s: %w", s.base, id, err)
	}
	return doc, nil
}

func (s *Store[T]) List(ctx context.Context) ([]T, error) {
	ids, err := s.client.ZRange(ctx, s.orderKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis zrange %s: %w", s.base, err)
	}
	docs := make([]T, 0, len(ids))
	if len(ids) == 0 {
		return docs, nil
	}
	values, err := s.client.HMGet(ctx, s.docsKey(), ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hmget %s: %w", s.base, err)
	}
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// order entry without a document; skip rather than fail the listing
			continue
		}
		var doc T
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", s.base, ids[i], err)
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

func (s *Store[T]) Put(ctx context.Context, doc T) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode %s: %w", s.base, err)
	}
	seq, err := s.client.Incr(ctx, s.seqKey()).Result()
	if err != nil {
		return fmt.Errorf("redis incr %s: %w", s.base, err)
	}
	id := doc.DocumentID()
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.docsKey(), id, data)
		pipe.ZAddNX(ctx, s.orderKey(), redis.Z{Score: float64(seq), Member: id})
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis put %s/%s: %w", s.base, id, err)
	}
	return nil
}

func (s *Store[T]) Delete(ctx context.Context, id string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HDel(ctx, s.docsKey(), id)
		pipe.ZRem(ctx, s.orderKey(), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis delete %s/%s: %w", s.base, id, err)
	}
	return nil
}

func (s *Store[T]) docsKey() string  { return s.base + ":docs" }
func (s *Store[T]) orderKey() string { return s.base + ":order" }
func (s *Store[T]) seqKey() string   { return s.base + ":seq" }

// NewStores builds the three collections under one key prefix.
func NewStores(client *redis.Client, prefix string) (*Store[domain.Quiz], *Store[domain.Submission], *Store[domain.Coupon]) {
	return NewStore[domain.Quiz](client, prefix, "quizzes", domain.ErrQuizNotFound),
		NewStore[domain.Submission](client, prefix, "submissions", domain.ErrSubmissionNotFound),
		NewStore[domain.Coupon](client, prefix, "coupons", domain.ErrCouponNotFound)
}
