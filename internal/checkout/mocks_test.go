package checkout

import (
	"context"
	"fmt"
	"sync"

	"github.com/monsterstore/checkout/internal/order/domain"
	orderrepo "github.com/monsterstore/checkout/internal/order/repository"
	"github.com/monsterstore/checkout/internal/payment"
)

// mockGateway counts create/update calls and supports failure injection.
type mockGateway struct {
	mu          sync.Mutex
	creates     int
	updates     int
	createErr   error
	updateErr   error
	lastAmounts map[string]int64
}

func newMockGateway() *mockGateway {
	return &mockGateway{lastAmounts: make(map[string]int64)}
}

func (g *mockGateway) CreateIntent(ctx context.Context, amount int64, currency string, methodTypes []string) (*payment.Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.createErr != nil {
		return nil, g.createErr
	}
	g.creates++
	id := fmt.Sprintf("pi_%d", g.creates)
	g.lastAmounts[id] = amount
	return &payment.Intent{
		ID:           id,
		ClientSecret: id + "_secret",
		Amount:       amount,
		Currency:     currency,
	}, nil
}

func (g *mockGateway) UpdateIntent(ctx context.Context, id string, amount int64) (*payment.Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.updateErr != nil {
		return nil, g.updateErr
	}
	if _, ok := g.lastAmounts[id]; !ok {
		return nil, &payment.GatewayError{Code: "resource_missing", Message: "no such intent " + id}
	}
	g.updates++
	g.lastAmounts[id] = amount
	return &payment.Intent{ID: id, ClientSecret: id + "_secret", Amount: amount}, nil
}

func (g *mockGateway) counts() (creates, updates int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.creates, g.updates
}

func (g *mockGateway) amount(id string) int64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastAmounts[id]
}

// failingOrderRepo wraps a real repository and fails Create on demand.
type failingOrderRepo struct {
	orderrepo.Repository
	createErr error
}

func (r *failingOrderRepo) Create(ctx context.Context, o *domain.Order) error {
	if r.createErr != nil {
		return r.createErr
	}
	return r.Repository.Create(ctx, o)
}
