package repository

import (
	"context"

	"eventpay/internal/domain"
)

// RegistrationRepository defines the persistence operations for registrations.
type RegistrationRepository interface {
	// GetByID retrieves a registration by ID.
	GetByID(ctx context.Context, id string) (*domain.Registration, error)

	// Update persists the mutable fields of a registration.
	Update(ctx context.Context, registration *domain.Registration) error
}
