package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"quiz-storefront/internal/domain"
)

func TestQuizRepositoryCaches(t *testing.T) {
	loader := &countingLoader{QuizLoader: seededStore(t)}
	repo := NewQuizRepository(loader, time.Minute)

	if _, err := repo.GetQuiz(context.Background(), "quiz-1"); err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader once, got %d", loader.calls)
	}

	if _, err := repo.GetQuiz(context.Background(), "quiz-1"); err != nil {
		t.Fatalf("get quiz 2: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls %d", loader.calls)
	}
}

func TestQuizRepositoryInvalidate(t *testing.T) {
	loader := &countingLoader{QuizLoader: seededStore(t)}
	repo := NewQuizRepository(loader, time.Minute)
	ctx := context.Background()

	_, _ = repo.GetQuiz(ctx, "quiz-1")
	repo.Invalidate(ctx, "quiz-1")
	if _, err := repo.GetQuiz(ctx, "quiz-1"); err != nil {
		t.Fatalf("get quiz after invalidate: %v", err)
	}
	if loader.calls != 2 {
		t.Fatalf("expected reload after invalidate, loader calls %d", loader.calls)
	}
}

func TestQuizRepositoryMissing(t *testing.T) {
	repo := NewQuizRepository(seededStore(t), time.Minute)
	_, err := repo.GetQuiz(context.Background(), "nope")
	if !errors.Is(err, domain.ErrQuizNotFound) {
		t.Fatalf("expected quiz not found, got %v", err)
	}
}

type countingLoader struct {
	QuizLoader
	calls int
}

func (l *countingLoader) Get(ctx context.Context, quizID string) (domain.Quiz, error) {
	l.calls++
	return l.QuizLoader.Get(ctx, quizID)
}

func seededStore(t *testing.T) *Store[domain.Quiz] {
	t.Helper()
	store := NewStore[domain.Quiz](domain.ErrQuizNotFound)
	if err := store.Put(context.Background(), sampleQuiz()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return store
}

func sampleQuiz() domain.Quiz {
	return domain.Quiz{
		ID:         "quiz-1",
		Title:      "Arithmetic",
		PriceMinor: 4900,
		Currency:   "INR",
		Questions: []domain.Question{
			{
				Prompt:  "What is 2 + 2?",
				Options: map[string]string{"A": "3", "B": "4", "C": "5", "D": "22"},
				Answer:  "B",
			},
		},
	}
}
