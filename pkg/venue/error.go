package venue

import "errors"

var (
	// ErrDuplicateOrder means the client order ID was already submitted.
	ErrDuplicateOrder = errors.New("duplicate order")
	// ErrOrderRejected wraps a risk-rule or book rejection.
	ErrOrderRejected = errors.New("order rejected")
	// ErrVenueClosed means the venue stopped accepting submissions.
	ErrVenueClosed = errors.New("venue closed")

	errOrderIDNotFound = errors.New("orderID not found")
)
