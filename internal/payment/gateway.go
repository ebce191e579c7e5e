// Package payment defines the port to the remote payment gateway.
//
// The gateway owns the payment intent records; this core only references
// them by id and keeps their amount synchronized with the basket total.
package payment

import (
	"context"
	"errors"
	"fmt"
)

// Intent is the gateway's view of a payment authorization, as returned by
// create and update calls. ClientSecret is opaque to this core; it is
// handed back to the caller so the storefront can confirm the payment.
type Intent struct {
	ID           string
	ClientSecret string
	Amount       int64
	Currency     string
}

// Gateway is the port to the remote payment provider.
type Gateway interface {
	// CreateIntent registers a new payment intent for the given amount.
	CreateIntent(ctx context.Context, amount int64, currency string, methodTypes []string) (*Intent, error)

	// UpdateIntent changes the amount of an existing intent, leaving its id
	// and currency unchanged.
	UpdateIntent(ctx context.Context, id string, amount int64) (*Intent, error)
}

// GatewayError carries the machine-readable rejection detail from the
// remote gateway. Transient instances (network failures, 5xx) may be
// retried by the caller with backoff; non-transient ones (invalid amount,
// unknown intent) are terminal.
type GatewayError struct {
	Code      string
	Message   string
	Transient bool
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway: %s: %s", e.Code, e.Message)
}

// IsTransient reports whether err is a gateway error worth retrying.
func IsTransient(err error) bool {
	var ge *GatewayError
	return errors.As(err, &ge) && ge.Transient
}
