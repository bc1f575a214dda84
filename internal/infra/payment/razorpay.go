package payment

import (
	"context"
	"fmt"

	"quiz-storefront/internal/domain"

	razorpay "github.com/razorpay/razorpay-go"
	"github.com/razorpay/razorpay-go/utils"
)

// OrderCreator is the slice of the Razorpay SDK used to open orders.
type OrderCreator interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// Live talks to Razorpay with the configured key pair.
type Live struct {
	keyID     string
	keySecret string
	orders    OrderCreator
}

func NewLive(creds Credentials) *Live {
	client := razorpay.NewClient(creds.KeyID, creds.KeySecret)
	return NewLiveWithOrders(creds, client.Order)
}

// NewLiveWithOrders lets tests substitute the order API.
func NewLiveWithOrders(creds Credentials, orders OrderCreator) *Live {
	return &Live{keyID: creds.KeyID, keySecret: creds.KeySecret, orders: orders}
}

func (l *Live) Mode() domain.PaymentMode { return domain.PaymentModeLive }

// CreateOrder opens a gateway order; the SDK call has no context support, so ctx only guards entry.
func (l *Live) CreateOrder(ctx context.Context, req domain.OrderRequest) (domain.Order, error) {
	if err := ctx.Err(); err != nil {
		return domain.Order{}, fmt.Errorf("%w: %v", domain.ErrPaymentFailed, err)
	}
	body, err := l.orders.Create(map[string]interface{}{
		"amount":          req.AmountMinor,
		"currency":        req.Currency,
		"receipt":         req.SubmissionID,
		"payment_capture": 1,
	}, nil)
	if err != nil {
		return domain.Order{}, fmt.Errorf("%w: create order: %v", domain.ErrPaymentFailed, err)
	}
	id, _ := body["id"].(string)
	if id == "" {
		return domain.Order{}, fmt.Errorf("%w: gateway returned no order id", domain.ErrPaymentFailed)
	}
	return domain.Order{
		ID:          id,
		AmountMinor: req.AmountMinor,
		Currency:    req.Currency,
		KeyID:       l.keyID,
	}, nil
}

// Verify checks the HMAC signature Razorpay attaches to a successful checkout.
func (l *Live) Verify(_ context.Context, c domain.PaymentConfirmation) error {
	if c.OrderID == "" || c.PaymentID == "" || c.Signature == "" {
		return fmt.Errorf("%w: missing payment data", domain.ErrPaymentFailed)
	}
	params := map[string]interface{}{
		"razorpay_order_id":   c.OrderID,
		"razorpay_payment_id": c.PaymentID,
	}
	if !utils.VerifyPaymentSignature(params, c.Signature, l.keySecret) {
		return fmt.Errorf("%w: signature verification failed", domain.ErrPaymentFailed)
	}
	return nil
}
