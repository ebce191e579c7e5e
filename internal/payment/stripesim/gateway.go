// Package stripesim is an in-memory simulation of the remote payment
// gateway, for local development and manual testing only. It mimics the
// provider's intent lifecycle and error codes closely enough to exercise
// the reconciler against.
package stripesim

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rs/xid"

	"github.com/monsterstore/checkout/internal/payment"
)

var _ payment.Gateway = (*Gateway)(nil)

// Gateway keeps intents in a mutex-guarded map, one entry per intent id.
type Gateway struct {
	mu      sync.Mutex
	intents map[string]*payment.Intent
}

func New() *Gateway {
	return &Gateway{intents: make(map[string]*payment.Intent)}
}

func (g *Gateway) CreateIntent(ctx context.Context, amount int64, currency string, methodTypes []string) (*payment.Intent, error) {
	if amount <= 0 {
		return nil, &payment.GatewayError{Code: "amount_invalid", Message: fmt.Sprintf("amount must be positive, got %d", amount)}
	}
	if currency == "" {
		return nil, &payment.GatewayError{Code: "currency_missing", Message: "currency is required"}
	}
	if len(methodTypes) == 0 {
		return nil, &payment.GatewayError{Code: "payment_method_types_missing", Message: "at least one payment method type is required"}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	id := "pi_" + xid.New().String()
	intent := &payment.Intent{
		ID:           id,
		ClientSecret: fmt.Sprintf("%s_secret_%s", id, xid.New().String()),
		Amount:       amount,
		Currency:     currency,
	}
	g.intents[id] = intent

	slog.InfoContext(ctx, "intent created", "intent_id", id, "amount", amount, "currency", currency)
	cp := *intent
	return &cp, nil
}

func (g *Gateway) UpdateIntent(ctx context.Context, id string, amount int64) (*payment.Intent, error) {
	if amount <= 0 {
		return nil, &payment.GatewayError{Code: "amount_invalid", Message: fmt.Sprintf("amount must be positive, got %d", amount)}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	intent, ok := g.intents[id]
	if !ok {
		// Same code the real provider uses for a stale or expired intent id.
		return nil, &payment.GatewayError{Code: "resource_missing", Message: fmt.Sprintf("no such payment intent %q", id)}
	}
	intent.Amount = amount

	slog.InfoContext(ctx, "intent updated", "intent_id", id, "amount", amount)
	cp := *intent
	return &cp, nil
}

// Intent exposes the stored record for assertions in tests.
func (g *Gateway) Intent(id string) (*payment.Intent, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	intent, ok := g.intents[id]
	if !ok {
		return nil, false
	}
	cp := *intent
	return &cp, true
}

// Count returns how many intents exist in the gateway.
func (g *Gateway) Count() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.intents)
}
