package memory

import (
	"context"
	"sync"

	"quiz-storefront/internal/domain"
)

// Store is an in-memory document store that keeps insertion order.
type Store[T domain.Document] struct {
	mu       sync.RWMutex
	notFound error
	docs     map[string]T
	order    []string
}

// NewStore returns an empty store; notFound is returned by Get for unknown ids.
func NewStore[T domain.Document](notFound error) *Store[T] {
	return &Store[T]{
		notFound: notFound,
		docs:     make(map[string]T),
	}
}

func (s *Store[T]) Get(_ context.Context, id string) (T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		var zero T
		return zero, s.notFound
	}
	return doc, nil
}

func (s *Store[T]) List(_ context.Context) ([]T, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]T, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.docs[id])
	}
	return out, nil
}

func (s *Store[T]) Put(_ context.Context, doc T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := doc.DocumentID()
	if _, ok := s.docs[id]; !ok {
		s.order = append(s.order, id)
	}
	s.docs[id] = doc
	return nil
}

func (s *Store[T]) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return nil
	}
	delete(s.docs, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// NewStores returns empty quiz, submission and coupon stores.
func NewStores() (*Store[domain.Quiz], *Store[domain.Submission], *Store[domain.Coupon]) {
	return NewStore[domain.Quiz](domain.ErrQuizNotFound),
		NewStore[domain.Submission](domain.ErrSubmissionNotFound),
		NewStore[domain.Coupon](domain.ErrCouponNotFound)
}
