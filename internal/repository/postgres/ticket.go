package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"eventpay/internal/domain"
)

// TicketRepository is a PostgreSQL implementation of repository.TicketRepository.
type TicketRepository struct {
	q Querier
}

// NewTicketRepository creates a new PostgreSQL ticket repository.
func NewTicketRepository(db *sql.DB) *TicketRepository {
	return &TicketRepository{q: db}
}

// Create persists a ticket unless one already exists for the registration.
// The unique index on registration_id plus ON CONFLICT DO NOTHING makes
// issuing idempotent under retried side-effect dispatch.
func (r *TicketRepository) Create(ctx context.Context, ticket *domain.Ticket) (bool, error) {
	query := `
		INSERT INTO tickets (id, registration_id, serial, qr_image, issued_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (registration_id) DO NOTHING
	`

	result, err := r.q.ExecContext(ctx, query,
		ticket.ID,
		ticket.RegistrationID,
		ticket.Serial,
		ticket.QRImage,
		time.Now(),
	)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected == 1, nil
}

// GetByRegistrationID retrieves the ticket for a registration. Returns nil if
// no ticket has been issued yet.
func (r *TicketRepository) GetByRegistrationID(ctx context.Context, registrationID string) (*domain.Ticket, error) {
	query := `
		SELECT id, registration_id, serial, qr_image, issued_at
		FROM tickets WHERE registration_id = $1
	`

	var ticket domain.Ticket
	err := r.q.QueryRowContext(ctx, query, registrationID).Scan(
		&ticket.ID,
		&ticket.RegistrationID,
		&ticket.Serial,
		&ticket.QRImage,
		&ticket.IssuedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &ticket, nil
}
