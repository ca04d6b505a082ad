package service

import "errors"

var (
	// ErrMissingParameters is returned when a gateway notification lacks a
	// required field. No state is mutated.
	ErrMissingParameters = errors.New("missing required notification parameters")

	// ErrHashMismatch is returned when a notification's signature does not
	// verify. The event is discarded without mutation.
	ErrHashMismatch = errors.New("notification hash mismatch")

	// ErrOrderNotFound is returned when a notification references an unknown
	// order id.
	ErrOrderNotFound = errors.New("order not found")

	// ErrRegistrationNotFound is returned when an order references a
	// registration that does not exist.
	ErrRegistrationNotFound = errors.New("registration not found")

	// ErrMinimumAmount is returned when a payment is initiated below the
	// configured floor. Rejected before any store write or gateway contact.
	ErrMinimumAmount = errors.New("amount below configured minimum")

	// ErrGatewayMisconfigured is returned when gateway credentials are absent.
	ErrGatewayMisconfigured = errors.New("payment gateway not configured")

	// ErrRegistrationCancelled is returned when initiating payment for a
	// cancelled registration.
	ErrRegistrationCancelled = errors.New("registration is cancelled")

	// ErrInvalidRegistrationID is returned when a registration ID is empty.
	ErrInvalidRegistrationID = errors.New("invalid registration id")

	// ErrInvalidAmount is returned when an amount is missing or not positive.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidManualAction is returned when an admin decision is neither
	// approve nor reject.
	ErrInvalidManualAction = errors.New("invalid manual action")

	// ErrInvalidOperator is returned when a manual decision carries no
	// operator identity.
	ErrInvalidOperator = errors.New("invalid operator")
)
