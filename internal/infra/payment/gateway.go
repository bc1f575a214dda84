package payment

import (
	"log"

	"quiz-storefront/internal/app"
)

// Credentials are the gateway key pair; both must be set for live mode.
type Credentials struct {
	KeyID     string
	KeySecret string
}

// New picks the payment variant once at startup: demo when either credential is missing.
func New(creds Credentials) app.Gateway {
	if creds.KeyID == "" || creds.KeySecret == "" {
		log.Printf("payment gateway credentials not set, running in demo mode")
		return NewDemo()
	}
	return NewLive(creds)
}

var (
	_ app.Gateway = (*Live)(nil)
	_ app.Gateway = (*Demo)(nil)
)
