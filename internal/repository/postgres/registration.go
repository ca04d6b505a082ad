package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"eventpay/internal/domain"
	"eventpay/internal/repository"
)

// RegistrationRepository is a PostgreSQL implementation of
// repository.RegistrationRepository.
type RegistrationRepository struct {
	q Querier
}

// NewRegistrationRepository creates a new PostgreSQL registration repository.
func NewRegistrationRepository(db *sql.DB) *RegistrationRepository {
	return &RegistrationRepository{q: db}
}

// GetByID retrieves a registration by ID.
func (r *RegistrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	query := `
		SELECT id, name, email, phone, city, country, zip_code,
			payment_status, ticket_status, payment_reference, cancelled, created_at, updated_at
		FROM registrations WHERE id = $1
	`

	var reg domain.Registration
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&reg.ID,
		&reg.Name,
		&reg.Email,
		&reg.Phone,
		&reg.City,
		&reg.Country,
		&reg.ZipCode,
		&reg.PaymentStatus,
		&reg.TicketStatus,
		&reg.PaymentReference,
		&reg.Cancelled,
		&reg.CreatedAt,
		&reg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return &reg, nil
}

// Update persists the mutable fields of a registration.
func (r *RegistrationRepository) Update(ctx context.Context, reg *domain.Registration) error {
	query := `
		UPDATE registrations
		SET payment_status = $1, ticket_status = $2, payment_reference = $3,
			cancelled = $4, updated_at = $5
		WHERE id = $6
	`

	result, err := r.q.ExecContext(ctx, query,
		reg.PaymentStatus,
		reg.TicketStatus,
		reg.PaymentReference,
		reg.Cancelled,
		time.Now(),
		reg.ID,
	)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}
