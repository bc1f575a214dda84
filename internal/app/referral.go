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

// CouponManager grants referral coupons and redeems them at checkout.
type CouponManager struct {
	submissions Store[domain.Submission]
	coupons     Store[domain.Coupon]
	now         func() time.Time
}

func NewCouponManager(stores Stores) *CouponManager {
	return &CouponManager{
		submissions: stores.Submissions,
		coupons:     stores.Coupons,
		now:         time.Now,
	}
}

// AwardReferral grants the referrer of a paid submission one coupon.
// It returns nil when nothing was awarded; repeated calls for the same pair award nothing new.
func (m *CouponManager) AwardReferral(ctx context.Context, referred domain.Submission) (*domain.Coupon, error) {
	if !referred.Paid() || referred.Referral == "" || referred.Referral == referred.ID {
		return nil, nil
	}
	referrer, err := m.submissions.Get(ctx, referred.Referral)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load referrer: %w", err)
	}
	if referrer.Mobile == referred.Mobile {
		return nil, nil
	}

	existing, err := m.coupons.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	for _, c := range existing {
		if c.OwnerSubmissionID == referrer.ID && c.ReferredSubmissionID == referred.ID {
			return nil, nil
		}
	}

	coupon := domain.Coupon{
		ID:                   newCouponID(),
		OwnerSubmissionID:    referrer.ID,
		ReferredSubmissionID: referred.ID,
		DiscountPercent:      domain.ReferralDiscountPercent,
		Status:               domain.CouponUnused,
		CreatedAt:            m.now().UTC(),
	}
	if err := m.coupons.Put(ctx, coupon); err != nil {
		return nil, fmt.Errorf("save coupon: %w", err)
	}
	log.Printf("awarded coupon %s to %s for referring %s", coupon.ID, referrer.ID, referred.ID)
	return &coupon, nil
}

// Quote checks that couponID can be spent by the purchaser and returns the discounted price.
// A coupon belongs to the purchaser when its owner submission was made with the same mobile number.
func (m *CouponManager) Quote(ctx context.Context, couponID, purchaserMobile string, priceMinor int64) (domain.Coupon, int64, error) {
	coupon, err := m.usable(ctx, couponID)
	if err != nil {
		return domain.Coupon{}, 0, err
	}
	owner, err := m.submissions.Get(ctx, coupon.OwnerSubmissionID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Coupon{}, 0, fmt.Errorf("%w: %s has no owner", domain.ErrInvalidCoupon, couponID)
	}
	if err != nil {
		return domain.Coupon{}, 0, fmt.Errorf("load coupon owner: %w", err)
	}
	if owner.Mobile != purchaserMobile {
		return domain.Coupon{}, 0, fmt.Errorf("%w: %s belongs to another student", domain.ErrInvalidCoupon, couponID)
	}
	return coupon, Discounted(priceMinor, coupon.DiscountPercent), nil
}

// Redeem marks the coupon used by submissionID. A second redeem fails with ErrInvalidCoupon.
func (m *CouponManager) Redeem(ctx context.Context, couponID, submissionID string) (domain.Coupon, error) {
	coupon, err := m.usable(ctx, couponID)
	if err != nil {
		return domain.Coupon{}, err
	}
	coupon.Status = domain.CouponUsed
	coupon.RedeemedBy = submissionID
	if err := m.coupons.Put(ctx, coupon); err != nil {
		return domain.Coupon{}, fmt.Errorf("save coupon: %w", err)
	}
	return coupon, nil
}

// Release undoes Redeem when the purchase it was paired with could not be recorded.
func (m *CouponManager) Release(ctx context.Context, couponID string) error {
	coupon, err := m.coupons.Get(ctx, couponID)
	if err != nil {
		return fmt.Errorf("load coupon: %w", err)
	}
	coupon.Status = domain.CouponUnused
	coupon.RedeemedBy = ""
	return m.coupons.Put(ctx, coupon)
}

// CouponsFor lists the coupons earned by a referrer submission.
func (m *CouponManager) CouponsFor(ctx context.Context, ownerSubmissionID string) ([]domain.Coupon, error) {
	all, err := m.coupons.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list coupons: %w", err)
	}
	owned := []domain.Coupon{}
	for _, c := range all {
		if c.OwnerSubmissionID == ownerSubmissionID {
			owned = append(owned, c)
		}
	}
	return owned, nil
}

func (m *CouponManager) usable(ctx context.Context, couponID string) (domain.Coupon, error) {
	coupon, err := m.coupons.Get(ctx, strings.TrimSpace(couponID))
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Coupon{}, fmt.Errorf("%w: %s is unknown", domain.ErrInvalidCoupon, couponID)
	}
	if err != nil {
		return domain.Coupon{}, fmt.Errorf("load coupon: %w", err)
	}
	if coupon.Used() {
		return domain.Coupon{}, fmt.Errorf("%w: %s already used", domain.ErrInvalidCoupon, couponID)
	}
	return coupon, nil
}

// Discounted applies a percentage discount in minor units; the discount rounds down.
func Discounted(priceMinor int64, percent int) int64 {
	if percent <= 0 {
		return priceMinor
	}
	if percent >= 100 {
		return 0
	}
	return priceMinor - priceMinor*int64(percent)/100
}

func newCouponID() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "CPN-" + strings.ToUpper(hex[:8])
}
