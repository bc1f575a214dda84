package app

import (
	"strings"

	"quiz-storefront/internal/domain"
)

const (
	pointsCorrect = 4
	pointsWrong   = -1
)

// Score applies the +4 / -1 / 0 marking scheme. Empty selections are unanswered.
func Score(key, selected []string) (int, error) {
	if len(key) != len(selected) {
		return 0, domain.Validationf("expected %d answers, got %d", len(key), len(selected))
	}
	score := 0
	for i := range key {
		ans := normalizeLetter(selected[i])
		if ans == "" {
			continue
		}
		if ans == normalizeLetter(key[i]) {
			score += pointsCorrect
		} else {
			score += pointsWrong
		}
	}
	return score, nil
}

// AnswerKey returns the correct letters of a quiz in question order.
func AnswerKey(quiz domain.Quiz) []string {
	key := make([]string, len(quiz.Questions))
	for i, q := range quiz.Questions {
		key[i] = q.Answer
	}
	return key
}

func normalizeLetter(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
