package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"quiz-storefront/internal/domain"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// Store keeps one collection as JSONB rows in the documents table.
// seq is assigned on insert only, so a replace keeps the document's position.
type Store[T domain.Document] struct {
	pool       *pgxpool.Pool
	collection string
	notFound   error
}

func NewStore[T domain.Document](pool *pgxpool.Pool, collection string, notFound error) *Store[T] {
	return &Store[T]{pool: pool, collection: collection, notFound: notFound}
}

func (s *Store[T]) Get(ctx context.Context, id string) (T, error) {
	var doc T
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT data FROM documents WHERE collection=$1 AND id=$2`, s.collection, id).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return doc, s.notFound
	}
	if err != nil {
		return doc, fmt.Errorf("load %s/%s: %w", s.collection, id, err)
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("unmarshal %s/%s: %w", s.collection, id, err)
	}
	return doc, nil
}

func (s *Store[T]) List(ctx context.Context) ([]T, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT data FROM documents WHERE collection=$1 ORDER BY seq`, s.collection)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.collection, err)
	}
	defer rows.Close()

	docs := []T{}
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.collection, err)
		}
		var doc T
		if err := json.Unmarshal(raw, &doc); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", s.collection, err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list %s: %w", s.collection, err)
	}
	return docs, nil
}

func (s *Store[T]) Put(ctx context.Context, doc T) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", s.collection, err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO documents (collection, id, data)
		VALUES ($1, $2, $3::jsonb)
		ON CONFLICT (collection, id) DO UPDATE SET data=EXCLUDED.data, updated_at=now()`,
		s.collection, doc.DocumentID(), string(data))
	if err != nil {
		return fmt.Errorf("put %s/%s: %w", s.collection, doc.DocumentID(), err)
	}
	return nil
}

func (s *Store[T]) Delete(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx,
		`DELETE FROM documents WHERE collection=$1 AND id=$2`, s.collection, id); err != nil {
		return fmt.Errorf("delete %s/%s: %w", s.collection, id, err)
	}
	return nil
}

// NewStores builds the three collections over one pool.
func NewStores(pool *pgxpool.Pool) (*Store[domain.Quiz], *Store[domain.Submission], *Store[domain.Coupon]) {
	return NewStore[domain.Quiz](pool, "quizzes", domain.ErrQuizNotFound),
		NewStore[domain.Submission](pool, "submissions", domain.ErrSubmissionNotFound),
		NewStore[domain.Coupon](pool, "coupons", domain.ErrCouponNotFound)
}
