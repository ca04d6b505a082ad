package repository

import (
	"context"

	"eventpay/internal/domain"
)

// TicketRepository defines the persistence operations for tickets.
type TicketRepository interface {
	// Create persists a ticket unless one already exists for the same
	// registration. Returns true when the ticket was inserted.
	Create(ctx context.Context, ticket *domain.Ticket) (bool, error)

	// GetByRegistrationID retrieves the ticket for a registration.
	// Returns nil if no ticket has been issued yet.
	GetByRegistrationID(ctx context.Context, registrationID string) (*domain.Ticket, error)
}
