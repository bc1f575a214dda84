package app_test

import (
	"errors"
	"testing"

	"quiz-storefront/internal/app"
	"quiz-storefront/internal/domain"
)

func TestScoreMarkingScheme(t *testing.T) {
	cases := []struct {
		name     string
		key      []string
		selected []string
		want     int
	}{
		{"mixed", []string{"A", "B", "C", "D"}, []string{"A", "B", "D", ""}, 7},
		{"all correct", []string{"A", "B"}, []string{"a", " b "}, 8},
		{"all wrong", []string{"A", "B"}, []string{"B", "A"}, -2},
		{"unanswered", []string{"A", "B"}, []string{"", ""}, 0},
		{"empty quiz", []string{}, []string{}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := app.Score(tc.key, tc.selected)
			if err != nil {
				t.Fatalf("score failed: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestScoreLengthMismatch(t *testing.T) {
	_, err := app.Score([]string{"A", "B"}, []string{"A"})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
