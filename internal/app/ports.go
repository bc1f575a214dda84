package app

import (
	"context"

	"quiz-storefront/internal/domain"
)

// Store is a key-value document store (JSON file, in-memory, Redis, Postgres).
// List returns documents in insertion order; Put replaces in place.
type Store[T domain.Document] interface {
	Get(ctx context.Context, id string) (T, error)
	List(ctx context.Context) ([]T, error)
	Put(ctx context.Context, doc T) error
	Delete(ctx context.Context, id string) error
}

// Stores groups the three independent document stores.
type Stores struct {
	Quizzes     Store[domain.Quiz]
	Submissions Store[domain.Submission]
	Coupons     Store[domain.Coupon]
}

// QuizRepository loads quiz content (possibly through a cache).
type QuizRepository interface {
	GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error)
}

// Invalidator is implemented by caching repositories that must drop a quiz after re-upload or delete.
type Invalidator interface {
	Invalidate(ctx context.Context, quizID string)
}

// Gateway is the payment adapter the checkout flow talks to.
type Gateway interface {
	Mode() domain.PaymentMode
	CreateOrder(ctx context.Context, req domain.OrderRequest) (domain.Order, error)
	Verify(ctx context.Context, c domain.PaymentConfirmation) error
}
