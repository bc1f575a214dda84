package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"quiz-storefront/internal/domain"

	"github.com/google/uuid"
)

// CheckoutRequest is the student's purchase form.
type CheckoutRequest struct {
	QuizID    string `json:"-"`
	Name      string `json:"name"`
	Mobile    string `json:"mobile"`
	Institute string `json:"institute"`
	Address   string `json:"address"`
	Referral  string `json:"ref"`
	CouponID  string `json:"coupon"`
}

// CheckoutResult carries the new submission and, when payment is still due, the gateway order.
type CheckoutResult struct {
	Submission domain.Submission `json:"submission"`
	Order      *domain.Order     `json:"order,omitempty"`
	Paid       bool              `json:"paid"`
}

// AnswerResult is returned after a quiz is graded. Submission stays server side.
type AnswerResult struct {
	Score        int               `json:"score"`
	ReferralCode string            `json:"referral_code"`
	Submission   domain.Submission `json:"-"`
}

// CheckoutService runs purchase, payment confirmation and grading.
type CheckoutService struct {
	stores  Stores
	quizzes QuizRepository
	coupons *CouponManager
	gateway Gateway
	now     func() time.Time
}

func NewCheckoutService(stores Stores, quizzes QuizRepository, coupons *CouponManager, gateway Gateway) *CheckoutService {
	return &CheckoutService{
		stores:  stores,
		quizzes: quizzes,
		coupons: coupons,
		gateway: gateway,
		now:     time.Now,
	}
}

// PaymentMode reports which gateway variant is active.
func (s *CheckoutService) PaymentMode() domain.PaymentMode {
	return s.gateway.Mode()
}

// StartCheckout records a pending submission and either confirms it at once (free or demo)
// or opens a gateway order for the payable amount.
func (s *CheckoutService) StartCheckout(ctx context.Context, req CheckoutRequest) (CheckoutResult, error) {
	name := strings.TrimSpace(req.Name)
	mobile := strings.TrimSpace(req.Mobile)
	if name == "" || mobile == "" {
		return CheckoutResult{}, domain.Validationf("name and mobile are required")
	}
	quiz, err := s.quizzes.GetQuiz(ctx, req.QuizID)
	if err != nil {
		return CheckoutResult{}, err
	}

	referral, err := s.referralFor(ctx, strings.TrimSpace(req.Referral), mobile)
	if err != nil {
		return CheckoutResult{}, err
	}

	sub := domain.Submission{
		ID:            uuid.NewString(),
		QuizID:        quiz.ID,
		Name:          name,
		Mobile:        mobile,
		Institute:     strings.TrimSpace(req.Institute),
		Address:       strings.TrimSpace(req.Address),
		Answers:       []string{},
		PaymentStatus: domain.PaymentPending,
		PriceMinor:    quiz.PriceMinor,
		PayableMinor:  quiz.PriceMinor,
		Referral:      referral,
		CreatedAt:     s.now().UTC(),
	}
	if couponID := strings.TrimSpace(req.CouponID); couponID != "" {
		coupon, payable, err := s.coupons.Quote(ctx, couponID, mobile, quiz.PriceMinor)
		if err != nil {
			return CheckoutResult{}, err
		}
		sub.CouponID = coupon.ID
		sub.PayableMinor = payable
	}

	if err := s.stores.Submissions.Put(ctx, sub); err != nil {
		return CheckoutResult{}, fmt.Errorf("save submission: %w", err)
	}

	if sub.PayableMinor == 0 {
		paid, err := s.settle(ctx, sub, "")
		if err != nil {
			return CheckoutResult{}, err
		}
		return CheckoutResult{Submission: paid, Paid: true}, nil
	}

	order, err := s.gateway.CreateOrder(ctx, domain.OrderRequest{
		SubmissionID: sub.ID,
		AmountMinor:  sub.PayableMinor,
		Currency:     quiz.Currency,
	})
	if err != nil {
		return CheckoutResult{}, err
	}
	sub.OrderID = order.ID
	if order.Paid {
		paid, err := s.settle(ctx, sub, order.ID)
		if err != nil {
			return CheckoutResult{}, err
		}
		return CheckoutResult{Submission: paid, Order: &order, Paid: true}, nil
	}
	if err := s.stores.Submissions.Put(ctx, sub); err != nil {
		return CheckoutResult{}, fmt.Errorf("save order id: %w", err)
	}
	return CheckoutResult{Submission: sub, Order: &order}, nil
}

// ConfirmPayment handles the gateway callback. A paid submission only accepts a verified replay
// of the confirmation that paid it, which re-runs the idempotent referral award.
func (s *CheckoutService) ConfirmPayment(ctx context.Context, c domain.PaymentConfirmation) (domain.Submission, error) {
	sub, err := s.stores.Submissions.Get(ctx, c.SubmissionID)
	if err != nil {
		return domain.Submission{}, err
	}
	if sub.Paid() {
		if c.OrderID == "" || c.PaymentID == "" || c.OrderID != sub.OrderID || c.PaymentID != sub.PaymentID {
			return domain.Submission{}, fmt.Errorf("%w: submission %s is already paid", domain.ErrPaymentFailed, sub.ID)
		}
		if err := s.gateway.Verify(ctx, c); err != nil {
			return domain.Submission{}, err
		}
		s.award(ctx, sub)
		return sub, nil
	}
	if sub.OrderID == "" && s.gateway.Mode() != domain.PaymentModeDemo {
		return domain.Submission{}, fmt.Errorf("%w: submission %s has no open order", domain.ErrPaymentFailed, sub.ID)
	}
	if sub.OrderID != "" && c.OrderID != sub.OrderID {
		return domain.Submission{}, fmt.Errorf("%w: order %s does not belong to submission %s", domain.ErrPaymentFailed, c.OrderID, sub.ID)
	}
	if err := s.gateway.Verify(ctx, c); err != nil {
		return domain.Submission{}, err
	}
	sub.OrderID = c.OrderID
	return s.settle(ctx, sub, c.PaymentID)
}

// TakeQuiz opens a paid submission's quiz without answers.
func (s *CheckoutService) TakeQuiz(ctx context.Context, quizID, submissionID string) (domain.PublicQuiz, error) {
	if _, err := s.payable(ctx, quizID, submissionID); err != nil {
		return domain.PublicQuiz{}, err
	}
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return domain.PublicQuiz{}, err
	}
	return PublicView(quiz, true), nil
}

// SubmitAnswers grades the attempt once and stores the answers, score and completion time.
func (s *CheckoutService) SubmitAnswers(ctx context.Context, quizID, submissionID string, answers []string) (AnswerResult, error) {
	sub, err := s.payable(ctx, quizID, submissionID)
	if err != nil {
		return AnswerResult{}, err
	}
	if sub.CompletedAt != nil {
		return AnswerResult{}, domain.Validationf("answers for %s were already submitted", sub.ID)
	}
	quiz, err := s.quizzes.GetQuiz(ctx, quizID)
	if err != nil {
		return AnswerResult{}, err
	}
	score, err := Score(AnswerKey(quiz), answers)
	if err != nil {
		return AnswerResult{}, err
	}

	normalized := make([]string, len(answers))
	for i, a := range answers {
		normalized[i] = normalizeLetter(a)
	}
	completed := s.now().UTC()
	sub.Answers = normalized
	sub.Score = &score
	sub.CompletedAt = &completed
	if err := s.stores.Submissions.Put(ctx, sub); err != nil {
		return AnswerResult{}, fmt.Errorf("save answers: %w", err)
	}
	return AnswerResult{Score: score, ReferralCode: sub.ID, Submission: sub}, nil
}

// CouponsFor lists the coupons a referrer has earned. The referral code is public, so the
// caller must also give the mobile number the referrer bought with.
func (s *CheckoutService) CouponsFor(ctx context.Context, submissionID, mobile string) ([]domain.Coupon, error) {
	owner, err := s.stores.Submissions.Get(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	mobile = strings.TrimSpace(mobile)
	if mobile == "" || mobile != owner.Mobile {
		return nil, fmt.Errorf("%w: mobile does not match referrer", domain.ErrUnauthorized)
	}
	return s.coupons.CouponsFor(ctx, submissionID)
}

// payable loads a submission of quizID that may open the quiz. Demo mode skips the payment gate.
func (s *CheckoutService) payable(ctx context.Context, quizID, submissionID string) (domain.Submission, error) {
	sub, err := s.stores.Submissions.Get(ctx, submissionID)
	if err != nil {
		return domain.Submission{}, err
	}
	if sub.QuizID != quizID {
		return domain.Submission{}, domain.ErrSubmissionNotFound
	}
	if !sub.Paid() && s.gateway.Mode() != domain.PaymentModeDemo {
		return domain.Submission{}, domain.ErrPaymentRequired
	}
	return sub, nil
}

// settle redeems the coupon, marks the submission paid and awards the referrer.
// The coupon is released again when the submission cannot be written.
func (s *CheckoutService) settle(ctx context.Context, sub domain.Submission, paymentID string) (domain.Submission, error) {
	if sub.CouponID != "" {
		if _, err := s.coupons.Redeem(ctx, sub.CouponID, sub.ID); err != nil {
			return domain.Submission{}, err
		}
	}
	sub.PaymentStatus = domain.PaymentPaid
	sub.PaymentID = paymentID
	if err := s.stores.Submissions.Put(ctx, sub); err != nil {
		if sub.CouponID != "" {
			if rerr := s.coupons.Release(ctx, sub.CouponID); rerr != nil {
				log.Printf("release coupon %s after failed payment write: %v", sub.CouponID, rerr)
			}
		}
		return domain.Submission{}, fmt.Errorf("mark submission paid: %w", err)
	}
	s.award(ctx, sub)
	return sub, nil
}

func (s *CheckoutService) award(ctx context.Context, sub domain.Submission) {
	if _, err := s.coupons.AwardReferral(ctx, sub); err != nil {
		log.Printf("award referral for %s: %v", sub.ID, err)
	}
}

// referralFor keeps a referral code only when it names an existing submission by someone else.
func (s *CheckoutService) referralFor(ctx context.Context, code, mobile string) (string, error) {
	if code == "" {
		return "", nil
	}
	referrer, err := s.stores.Submissions.Get(ctx, code)
	if errors.Is(err, domain.ErrNotFound) {
		log.Printf("dropping unknown referral code %q", code)
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load referrer: %w", err)
	}
	if referrer.Mobile == mobile {
		log.Printf("dropping self referral %q", code)
		return "", nil
	}
	return referrer.ID, nil
}
