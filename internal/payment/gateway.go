// Package payment adapts the external payment provider. The provider is
// opaque: it opens payment intents and reports their status, nothing more.
package payment

import (
	"context"
	"errors"
)

// Intent statuses as reported by the provider.
const (
	IntentStatusRequiresPayment = "requires_payment_method"
	IntentStatusProcessing      = "processing"
	IntentStatusSucceeded       = "succeeded"
	IntentStatusCanceled        = "canceled"
	IntentStatusFailed          = "payment_failed"
)

// ErrGateway wraps every provider-side failure so callers can classify it
// without knowing the transport.
var ErrGateway = errors.New("payment gateway error")

type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
}

type Gateway interface {
	// CreateIntent opens an intent for amountMinor in the given currency
	// (integer minor units, e.g. cents).
	CreateIntent(ctx context.Context, amountMinor int64, currency string) (*Intent, error)

	// RetrieveIntent reports the current status of an intent.
	RetrieveIntent(ctx context.Context, id string) (*Intent, error)
}
