package errors

import "errors"

var (
	ErrOrderNotFound    = errors.New("manual order not found")
	ErrInvalidNote      = errors.New("note must not be empty")
	ErrInvalidOrderData = errors.New("manual order has no sourcing lines")
	ErrVersionConflict  = errors.New("manual order was modified concurrently")
	ErrStoreUnavailable = errors.New("order store unavailable")
)
