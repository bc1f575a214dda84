package redis

import (
	"context"
	"testing"
	"time"

	"quiz-storefront/internal/domain"
	"quiz-storefront/internal/infra/memory"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestQuizRepositoryCachesInRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	client := newClient(mr)
	loader := &countingLoader{QuizLoader: seededLoader(t)}
	repo := NewQuizRepository(client, loader, "test", time.Minute)

	quiz, err := repo.GetQuiz(context.Background(), "quiz-1")
	if err != nil {
		t.Fatalf("get quiz: %v", err)
	}
	if loader.calls != 1 {
		t.Fatalf("expected loader called once, got %d", loader.calls)
	}
	if !mr.Exists("test:quiz:quiz-1") {
		t.Fatalf("expected quiz cached in redis")
	}

	// Second call should hit cache, loader not incremented.
	again, _ := repo.GetQuiz(context.Background(), "quiz-1")
	if loader.calls != 1 {
		t.Fatalf("expected cache hit, loader calls=%d", loader.calls)
	}
	if again.Questions[0].Answer != quiz.Questions[0].Answer {
		t.Fatalf("cached quiz differs: %+v", again)
	}

	repo.Invalidate(context.Background(), "quiz-1")
	if mr.Exists("test:quiz:quiz-1") {
		t.Fatalf("expected cache key removed")
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

func seededLoader(t *testing.T) QuizLoader {
	t.Helper()
	store := memory.NewStore[domain.Quiz](domain.ErrQuizNotFound)
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

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
