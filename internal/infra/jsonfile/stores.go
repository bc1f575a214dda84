package jsonfile

import (
	"path/filepath"

	"quiz-storefront/internal/domain"
)

const (
	QuizzesFile     = "quizzes.json"
	SubmissionsFile = "submissions.json"
	CouponsFile     = "coupons.json"
)

func NewQuizStore(dataDir string) *Store[domain.Quiz] {
	return NewStore[domain.Quiz](filepath.Join(dataDir, QuizzesFile), domain.ErrQuizNotFound)
}

func NewSubmissionStore(dataDir string) *Store[domain.Submission] {
	return NewStore[domain.Submission](filepath.Join(dataDir, SubmissionsFile), domain.ErrSubmissionNotFound)
}

func NewCouponStore(dataDir string) *Store[domain.Coupon] {
	return NewStore[domain.Coupon](filepath.Join(dataDir, CouponsFile), domain.ErrCouponNotFound)
}
