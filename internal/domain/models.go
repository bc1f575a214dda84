package domain

import "time"

// Document is anything kept in a document store, keyed by a stable id.
type Document interface {
	DocumentID() string
}

// OptionLetters lists the answer labels in display order.
var OptionLetters = []string{"A", "B", "C", "D"}

// Question models an MCQ question with four options and one correct letter.
type Question struct {
	Prompt  string            `json:"prompt"`
	Options map[string]string `json:"options"` // keyed by A-D
	Answer  string            `json:"answer"`
}

// Quiz is an uploaded question set sold at a fixed price.
type Quiz struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	PriceMinor int64      `json:"price_minor"`
	Currency   string     `json:"currency"`
	Questions  []Question `json:"questions"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (q Quiz) DocumentID() string { return q.ID }

// PublicQuestion is a question stripped of its answer.
type PublicQuestion struct {
	Number  int               `json:"number"`
	Prompt  string            `json:"prompt"`
	Options map[string]string `json:"options"`
}

// PublicQuiz is what students see before and while taking a quiz.
type PublicQuiz struct {
	ID         string           `json:"id"`
	Title      string           `json:"title"`
	PriceMinor int64            `json:"price_minor"`
	Currency   string           `json:"currency"`
	Questions  []PublicQuestion `json:"questions,omitempty"`
}

// PaymentStatus tracks whether a submission has been paid for.
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

// Submission is one student's purchase and attempt of a quiz.
type Submission struct {
	ID            string        `json:"id"`
	QuizID        string        `json:"quiz_id"`
	Name          string        `json:"name"`
	Mobile        string        `json:"mobile"`
	Institute     string        `json:"institute,omitempty"`
	Address       string        `json:"address,omitempty"`
	Answers       []string      `json:"answers"`
	Score         *int          `json:"score"`
	PaymentStatus PaymentStatus `json:"payment_status"`
	PaymentID     string        `json:"payment_id,omitempty"`
	OrderID       string        `json:"order_id,omitempty"`
	PriceMinor    int64         `json:"price_minor"`
	PayableMinor  int64         `json:"payable_minor"`
	Referral      string        `json:"referral,omitempty"`
	CouponID      string        `json:"coupon_id,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	CompletedAt   *time.Time    `json:"completed_at,omitempty"`
}

func (s Submission) DocumentID() string { return s.ID }

// Paid reports whether the payment for this submission was confirmed.
func (s Submission) Paid() bool { return s.PaymentStatus == PaymentPaid }

// CouponStatus is the redemption state of a coupon.
type CouponStatus string

const (
	CouponUnused CouponStatus = "unused"
	CouponUsed   CouponStatus = "used"
)

// ReferralDiscountPercent is the fixed discount granted to referrers.
const ReferralDiscountPercent = 50

// Coupon is a discount granted to a referrer when someone they referred pays.
type Coupon struct {
	ID                   string       `json:"id"`
	OwnerSubmissionID    string       `json:"owner_submission_id"`
	ReferredSubmissionID string       `json:"referred_submission_id"`
	DiscountPercent      int          `json:"discount_percent"`
	Status               CouponStatus `json:"status"`
	RedeemedBy           string       `json:"redeemed_by,omitempty"`
	CreatedAt            time.Time    `json:"created_at"`
}

func (c Coupon) DocumentID() string { return c.ID }

// Used reports whether the coupon has been redeemed.
func (c Coupon) Used() bool { return c.Status == CouponUsed }
