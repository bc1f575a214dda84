package domain

// PaymentMode names the active payment variant.
type PaymentMode string

const (
	PaymentModeLive PaymentMode = "live"
	PaymentModeDemo PaymentMode = "demo"
)

// OrderRequest asks the gateway to collect AmountMinor for a submission.
type OrderRequest struct {
	SubmissionID string
	AmountMinor  int64
	Currency     string
}

// Order is the gateway's answer. Paid is true when no further confirmation is needed.
type Order struct {
	ID          string `json:"id"`
	AmountMinor int64  `json:"amount_minor"`
	Currency    string `json:"currency"`
	KeyID       string `json:"key_id,omitempty"`
	Paid        bool   `json:"paid"`
}

// PaymentConfirmation is the callback payload posted after the student pays.
type PaymentConfirmation struct {
	SubmissionID string `json:"submission_id"`
	OrderID      string `json:"razorpay_order_id"`
	PaymentID    string `json:"razorpay_payment_id"`
	Signature    string `json:"razorpay_signature"`
}
