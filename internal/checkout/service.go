// Package checkout implements the basket-to-order payment reconciliation
// core: keeping exactly one remote payment intent in sync with a basket's
// total, and materializing a paid basket into an immutable order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	basketrepo "github.com/monsterstore/checkout/internal/basket/repository"
	orderdomain "github.com/monsterstore/checkout/internal/order/domain"
	orderrepo "github.com/monsterstore/checkout/internal/order/repository"
	"github.com/monsterstore/checkout/internal/payment"
	"github.com/monsterstore/checkout/internal/pkg/lock"
	"github.com/monsterstore/checkout/internal/pricing"
)

// Config carries the deployment-fixed gateway parameters.
type Config struct {
	// Currency is fixed per deployment, e.g. "inr".
	Currency string
	// MethodTypes restricts accepted payment methods, e.g. ["card"].
	MethodTypes []string
	// LockTTL bounds how long a per-basket lock may be held.
	LockTTL time.Duration
}

// Service is the request-scoped checkout core. All state lives in the
// basket and order stores; concurrent work on the same basket is
// serialized by the per-basket lock and backstopped by the stores'
// optimistic version checks.
type Service struct {
	baskets basketrepo.Repository
	orders  orderrepo.Repository
	gateway payment.Gateway
	calc    *pricing.Calculator
	locks   lock.Locker
	cfg     Config
}

func NewService(
	baskets basketrepo.Repository,
	orders orderrepo.Repository,
	gateway payment.Gateway,
	calc *pricing.Calculator,
	locks lock.Locker,
	cfg Config,
) *Service {
	if cfg.LockTTL == 0 {
		cfg.LockTTL = 10 * time.Second
	}
	return &Service{
		baskets: baskets,
		orders:  orders,
		gateway: gateway,
		calc:    calc,
		locks:   locks,
		cfg:     cfg,
	}
}

// ReconcileResult is the authoritative intent reference after a reconcile.
type ReconcileResult struct {
	PaymentIntentID string
	ClientSecret    string
	Amount          int64
}

// Reconcile synchronizes the basket's remote payment intent with its
// current total, creating one if none exists. The create-vs-update
// decision is made solely on presence of the basket's stored intent id,
// never on a remote lookup: the basket is the single source of truth, so
// repeated calls can never create a second intent for the same basket.
//
// Gateway failures surface unchanged and leave the basket untouched.
// Transient ones may be retried by the caller; this core retries nothing.
func (s *Service) Reconcile(ctx context.Context, basketID string) (*ReconcileResult, error) {
	release, err := s.locks.Obtain(ctx, lockKey(basketID), s.cfg.LockTTL)
	if err != nil {
		return nil, fmt.Errorf("lock basket %q: %w", basketID, err)
	}
	defer func() { _ = release(context.WithoutCancel(ctx)) }()

	b, err := s.baskets.Get(ctx, basketID)
	if errors.Is(err, basketrepo.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, storageErr("load basket", err)
	}
	if !b.Active {
		return nil, ErrBasketInactive
	}

	totals, err := s.calc.ComputeTotals(b)
	if err != nil {
		return nil, err
	}

	if b.PaymentIntentID == "" {
		intent, err := s.gateway.CreateIntent(ctx, totals.Total, s.cfg.Currency, s.cfg.MethodTypes)
		if err != nil {
			return nil, err
		}
		if err := b.SetPaymentIntent(intent.ID, intent.ClientSecret); err != nil {
			return nil, err
		}
		if err := s.baskets.Save(ctx, b); err != nil {
			// The remote intent exists but the basket does not reference it.
			// The next reconcile on this basket will create a fresh intent;
			// the orphan expires on the gateway side.
			slog.ErrorContext(ctx, "intent created but basket save failed",
				"basket_id", b.ID, "intent_id", intent.ID, "error", err)
			return nil, storageErr("save basket intent", err)
		}
		slog.InfoContext(ctx, "payment intent created",
			"basket_id", b.ID, "intent_id", intent.ID, "amount", totals.Total)
		return &ReconcileResult{
			PaymentIntentID: intent.ID,
			ClientSecret:    intent.ClientSecret,
			Amount:          intent.Amount,
		}, nil
	}

	intent, err := s.gateway.UpdateIntent(ctx, b.PaymentIntentID, totals.Total)
	if err != nil {
		// Includes the stale-id case: an intent expired on the gateway side
		// while the basket kept its id. No silent recreate.
		return nil, err
	}
	if intent.ClientSecret != "" && intent.ClientSecret != b.ClientSecret {
		if err := b.SetPaymentIntent(intent.ID, intent.ClientSecret); err != nil {
			return nil, err
		}
		if err := s.baskets.Save(ctx, b); err != nil {
			return nil, storageErr("refresh basket secret", err)
		}
	}
	slog.InfoContext(ctx, "payment intent updated",
		"basket_id", b.ID, "intent_id", intent.ID, "amount", totals.Total)
	return &ReconcileResult{
		PaymentIntentID: b.PaymentIntentID,
		ClientSecret:    b.ClientSecret,
		Amount:          totals.Total,
	}, nil
}

// Materialize converts a paid basket into a persisted, immutable order and
// deactivates the basket. The caller asserts the basket's payment intent
// has succeeded; the gateway is the source of truth for that and is not
// consulted here.
//
// Totals are recomputed from the live line items, never taken from a cache,
// so the stored order reflects exactly what is being committed. If order
// persistence fails the basket stays intact for retry; a retry that finds
// an order already created for the same intent resumes at basket cleanup
// instead of creating a duplicate.
func (s *Service) Materialize(ctx context.Context, basketID, buyerID string, addr orderdomain.ShippingAddress) (*orderdomain.Order, error) {
	release, err := s.locks.Obtain(ctx, lockKey(basketID), s.cfg.LockTTL)
	if err != nil {
		return nil, fmt.Errorf("lock basket %q: %w", basketID, err)
	}
	defer func() { _ = release(context.WithoutCancel(ctx)) }()

	b, err := s.baskets.Get(ctx, basketID)
	if errors.Is(err, basketrepo.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, storageErr("load basket", err)
	}
	if !b.Active {
		return nil, ErrBasketInactive
	}
	if b.PaymentIntentID == "" {
		return nil, ErrNoPaymentIntent
	}

	totals, err := s.calc.ComputeTotals(b)
	if err != nil {
		return nil, err
	}

	items := make([]orderdomain.Item, len(b.Items))
	for i, li := range b.Items {
		items[i] = orderdomain.Item{
			ProductID: li.ProductID,
			Name:      li.ProductName,
			ImageURL:  li.ImageURL,
			UnitPrice: li.UnitPrice,
			Quantity:  li.Quantity,
		}
	}

	o, err := orderdomain.New(uuid.NewString(), buyerID, addr, b.PaymentIntentID, items, totals.Subtotal, totals.DeliveryFees)
	if err != nil {
		return nil, err
	}

	switch err := s.orders.Create(ctx, o); {
	case err == nil:
	case errors.Is(err, orderrepo.ErrDuplicateIntent):
		// A previous materialize persisted the order but failed before
		// deactivating the basket. Resume with the stored order.
		existing, getErr := s.orders.GetByPaymentIntent(ctx, b.PaymentIntentID)
		if getErr != nil {
			return nil, storageErr("load existing order", getErr)
		}
		o = existing
	default:
		return nil, storageErr("create order", err)
	}

	b.Deactivate()
	if err := s.baskets.Save(ctx, b); err != nil {
		// The order exists; only the cleanup is pending. Surface the store
		// failure so the caller retries Materialize, which lands in the
		// duplicate-intent branch above and finishes the cleanup.
		return nil, storageErr("deactivate basket", err)
	}

	slog.InfoContext(ctx, "order materialized",
		"order_id", o.ID, "basket_id", b.ID, "intent_id", o.PaymentIntentID, "total", o.GetTotal())
	return o, nil
}

// ApplyPaymentOutcome transitions a Pending order based on the gateway's
// confirmation event. The store-side status compare-and-swap makes a
// duplicated webhook fail with the state error instead of applying twice.
func (s *Service) ApplyPaymentOutcome(ctx context.Context, orderID string, succeeded bool) error {
	o, err := s.orders.Get(ctx, orderID)
	if errors.Is(err, orderrepo.ErrNotFound) {
		return err
	}
	if err != nil {
		return storageErr("load order", err)
	}

	prev := o.Status
	if err := o.ApplyOutcome(succeeded); err != nil {
		return err
	}

	switch err := s.orders.UpdateStatus(ctx, orderID, prev, o.Status); {
	case err == nil:
	case errors.Is(err, orderrepo.ErrStatusConflict):
		return fmt.Errorf("%w: order %q left %s concurrently", orderdomain.ErrInvalidState, orderID, prev)
	default:
		return storageErr("update order status", err)
	}

	slog.InfoContext(ctx, "payment outcome applied",
		"order_id", orderID, "from", prev, "to", o.Status)
	return nil
}

func lockKey(basketID string) string {
	return "checkout:lock:basket:" + basketID
}
