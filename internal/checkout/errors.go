package checkout

import (
	"errors"
	"fmt"

	basketdomain "github.com/monsterstore/checkout/internal/basket/domain"
)

var (
	// ErrNoPaymentIntent is returned by Materialize when the basket never
	// went through reconciliation: there is no intent to charge against.
	ErrNoPaymentIntent = errors.New("basket has no payment intent")

	// ErrBasketInactive is returned when a reconcile or materialize targets
	// a basket already consumed by a previous order. Shared with the basket
	// service, which rejects mutations on consumed baskets with it too.
	ErrBasketInactive = basketdomain.ErrBasketInactive
)

// StorageError wraps a basket or order store failure. These are never
// swallowed: the operation aborts with state unchanged and the caller may
// retry.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// IsStorageError reports whether err is (or wraps) a store failure.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
