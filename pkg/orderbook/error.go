package orderbook

import "errors"

// ErrInvalidOrder marks orders the book refuses to process: nil orders,
// non-positive quantity, negative or non-finite price. Callers can test for
// it with errors.Is.
var ErrInvalidOrder = errors.New("invalid order")
