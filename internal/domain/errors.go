package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")

	// ErrInvalidStep indicates a checkout operation that is not legal from
	// the session's current step.
	ErrInvalidStep = errors.New("invalid checkout step")

	// ErrEmptyCart indicates checkout was started with nothing in the cart.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrSessionClosed indicates an operation on a closed session.
	ErrSessionClosed = errors.New("session closed")
)
