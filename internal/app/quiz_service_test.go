package app_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"quiz-storefront/internal/app"
	"quiz-storefront/internal/domain"
	"quiz-storefront/internal/infra/memory"
)

const sampleCSV = "question,option_a,option_b,option_c,option_d,answer\n" +
	"q1,a,b,c,d,A\n" +
	"q2,a,b,c,d,B\n" +
	"q3,a,b,c,d,C\n" +
	"q4,a,b,c,d,D\n"

func newStores() app.Stores {
	quizzes, submissions, coupons := memory.NewStores()
	return app.Stores{Quizzes: quizzes, Submissions: submissions, Coupons: coupons}
}

func TestCreateQuizParsesPrice(t *testing.T) {
	ctx := context.Background()
	stores := newStores()
	svc := app.NewQuizService(stores, memory.NewQuizRepository(stores.Quizzes, time.Minute), "")

	quiz, err := svc.CreateQuiz(ctx, app.NewQuiz{Title: " Physics ", Price: "199.5", CSV: strings.NewReader(sampleCSV)})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if quiz.PriceMinor != 19950 || quiz.Currency != app.DefaultCurrency || quiz.Title != "Physics" {
		t.Fatalf("unexpected quiz: %+v", quiz)
	}
	if len(quiz.Questions) != 4 {
		t.Fatalf("expected 4 questions, got %d", len(quiz.Questions))
	}

	list, err := svc.ListQuizzes(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 1 || list[0].ID != quiz.ID || len(list[0].Questions) != 0 {
		t.Fatalf("unexpected catalogue: %+v", list)
	}
}

func TestCreateQuizRejectsBadInput(t *testing.T) {
	stores := newStores()
	svc := app.NewQuizService(stores, memory.NewQuizRepository(stores.Quizzes, time.Minute), "INR")

	cases := map[string]app.NewQuiz{
		"no title":       {Price: "10", CSV: strings.NewReader(sampleCSV)},
		"negative price": {Title: "t", Price: "-1", CSV: strings.NewReader(sampleCSV)},
		"bad price":      {Title: "t", Price: "ten", CSV: strings.NewReader(sampleCSV)},
		"no csv":         {Title: "t", Price: "10"},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.CreateQuiz(context.Background(), in); !errors.Is(err, domain.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestDeleteQuizInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	stores := newStores()
	svc := app.NewQuizService(stores, memory.NewQuizRepository(stores.Quizzes, time.Hour), "INR")

	quiz, err := svc.CreateQuiz(ctx, app.NewQuiz{Title: "t", Price: "0", CSV: strings.NewReader(sampleCSV)})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := svc.GetQuiz(ctx, quiz.ID); err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if err := svc.DeleteQuiz(ctx, quiz.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := svc.GetQuiz(ctx, quiz.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := svc.DeleteQuiz(ctx, quiz.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestPublicViewHidesAnswers(t *testing.T) {
	quiz := domain.Quiz{
		ID:    "q",
		Title: "t",
		Questions: []domain.Question{
			{Prompt: "p", Options: map[string]string{"A": "1", "B": "2", "C": "3", "D": "4"}, Answer: "C"},
		},
	}
	view := app.PublicView(quiz, true)
	if len(view.Questions) != 1 || view.Questions[0].Number != 1 || view.Questions[0].Options["C"] != "3" {
		t.Fatalf("unexpected view: %+v", view)
	}
}

func TestFormatMinor(t *testing.T) {
	if got := app.FormatMinor(19950); got != "199.50" {
		t.Fatalf("expected 199.50, got %s", got)
	}
}
