package service

import "errors"

// Domain errors surfaced to handlers. Handlers map them onto HTTP statuses;
// anything not in this list is treated as an internal error.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrForbidden          = errors.New("not allowed")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrEmailDomain        = errors.New("email domain not allowed")

	// Order state errors.
	ErrCutoffExpired     = errors.New("ordering period for this menu is over")
	ErrDuplicateOrder    = errors.New("an active order already exists for this menu")
	ErrInvalidStatus     = errors.New("order status does not allow this operation")
	ErrInvalidTransition = errors.New("invalid status transition")

	// Review state errors.
	ErrNotEligible = errors.New("you must have received this dish to review it")
)
