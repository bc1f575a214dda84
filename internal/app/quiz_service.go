package app

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"quiz-storefront/internal/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when a quiz is created without an explicit currency.
const DefaultCurrency = "INR"

var minorPerMajor = decimal.NewFromInt(100)

// NewQuiz is an admin upload: a title, a price in major units and the question CSV.
type NewQuiz struct {
	Title string
	Price string
	CSV   io.Reader
}

// Dashboard is the admin overview of every store.
type Dashboard struct {
	Quizzes     []domain.Quiz       `json:"quizzes"`
	Submissions []domain.Submission `json:"submissions"`
	Coupons     []domain.Coupon     `json:"coupons"`
}

// QuizService owns the quiz catalogue.
type QuizService struct {
	stores   Stores
	repo     QuizRepository
	currency string
	now      func() time.Time
}

// NewQuizService wires the catalogue. repo may cache answer keys; when it also implements
// Invalidator it is told about deletes.
func NewQuizService(stores Stores, repo QuizRepository, currency string) *QuizService {
	if currency == "" {
		currency = DefaultCurrency
	}
	return &QuizService{stores: stores, repo: repo, currency: currency, now: time.Now}
}

// CreateQuiz validates an upload and stores it under a fresh id.
func (s *QuizService) CreateQuiz(ctx context.Context, in NewQuiz) (domain.Quiz, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return domain.Quiz{}, domain.Validationf("title is required")
	}
	price, err := ParsePrice(in.Price)
	if err != nil {
		return domain.Quiz{}, err
	}
	if in.CSV == nil {
		return domain.Quiz{}, domain.Validationf("csv file is required")
	}
	questions, err := ParseQuizCSV(in.CSV)
	if err != nil {
		return domain.Quiz{}, err
	}

	quiz := domain.Quiz{
		ID:         uuid.NewString(),
		Title:      title,
		PriceMinor: price,
		Currency:   s.currency,
		Questions:  questions,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.stores.Quizzes.Put(ctx, quiz); err != nil {
		return domain.Quiz{}, fmt.Errorf("save quiz: %w", err)
	}
	log.Printf("quiz %s created with %d questions", quiz.ID, len(quiz.Questions))
	return quiz, nil
}

// ParsePrice turns a major-unit amount such as "199.50" into minor units. Empty means free.
func ParsePrice(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, domain.Validationf("price %q is not a number", raw)
	}
	if d.IsNegative() {
		return 0, domain.Validationf("price must not be negative")
	}
	return d.Mul(minorPerMajor).Round(0).IntPart(), nil
}

// FormatMinor renders minor units back as a major-unit string.
func FormatMinor(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2)
}

// ListQuizzes returns the public catalogue without questions.
func (s *QuizService) ListQuizzes(ctx context.Context) ([]domain.PublicQuiz, error) {
	quizzes, err := s.stores.Quizzes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	out := make([]domain.PublicQuiz, 0, len(quizzes))
	for _, q := range quizzes {
		out = append(out, PublicView(q, false))
	}
	return out, nil
}

// GetQuiz returns the full quiz including answers.
func (s *QuizService) GetQuiz(ctx context.Context, quizID string) (domain.Quiz, error) {
	return s.repo.GetQuiz(ctx, quizID)
}

// DeleteQuiz removes a quiz and drops it from any answer-key cache. Submissions are kept.
func (s *QuizService) DeleteQuiz(ctx context.Context, quizID string) error {
	if _, err := s.stores.Quizzes.Get(ctx, quizID); err != nil {
		return err
	}
	if err := s.stores.Quizzes.Delete(ctx, quizID); err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	if inv, ok := s.repo.(Invalidator); ok {
		inv.Invalidate(ctx, quizID)
	}
	return nil
}

// SubmissionsFor lists every submission of one quiz in creation order.
func (s *QuizService) SubmissionsFor(ctx context.Context, quizID string) ([]domain.Submission, error) {
	all, err := s.stores.Submissions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	out := []domain.Submission{}
	for _, sub := range all {
		if sub.QuizID == quizID {
			out = append(out, sub)
		}
	}
	return out, nil
}

// Dashboard loads all three stores for the admin view.
func (s *QuizService) Dashboard(ctx context.Context) (Dashboard, error) {
	var (
		d   Dashboard
		err error
	)
	if d.Quizzes, err = s.stores.Quizzes.List(ctx); err != nil {
		return Dashboard{}, fmt.Errorf("list quizzes: %w", err)
	}
	if d.Submissions, err = s.stores.Submissions.List(ctx); err != nil {
		return Dashboard{}, fmt.Errorf("list submissions: %w", err)
	}
	if d.Coupons, err = s.stores.Coupons.List(ctx); err != nil {
		return Dashboard{}, fmt.Errorf("list coupons: %w", err)
	}
	return d, nil
}

// PublicView strips answers; questions are included only when withQuestions is set.
func PublicView(q domain.Quiz, withQuestions bool) domain.PublicQuiz {
	view := domain.PublicQuiz{
		ID:         q.ID,
		Title:      q.Title,
		PriceMinor: q.PriceMinor,
		Currency:   q.Currency,
	}
	if !withQuestions {
		return view
	}
	view.Questions = make([]domain.PublicQuestion, len(q.Questions))
	for i, question := range q.Questions {
		opts := make(map[string]string, len(question.Options))
		for k, v := range question.Options {
			opts[k] = v
		}
		view.Questions[i] = domain.PublicQuestion{Number: i + 1, Prompt: question.Prompt, Options: opts}
	}
	return view
}
