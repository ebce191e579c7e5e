package domain

import "errors"

// ErrInvalidState is returned when an order status transition is attempted
// that the transition table does not permit. It indicates a caller or
// integration bug and is always fatal to that call.
var ErrInvalidState = errors.New("invalid order status transition")

// Status is the order lifecycle state.
type Status string

const (
	StatusPending         Status = "Pending"
	StatusPaymentReceived Status = "PaymentReceived"
	StatusPaymentFailed   Status = "PaymentFailed"
)

// transitions is the full table of permitted moves. Both payment outcomes
// are terminal; nothing leaves them.
var transitions = map[Status][]Status{
	StatusPending:         {StatusPaymentReceived, StatusPaymentFailed},
	StatusPaymentReceived: {},
	StatusPaymentFailed:   {},
}

// CanTransitionTo reports whether moving from s to next is permitted.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

func (s Status) String() string {
	return string(s)
}
