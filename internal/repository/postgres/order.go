package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"eventpay/internal/domain"
	"eventpay/internal/repository"
)

// OrderRepository is a PostgreSQL implementation of repository.OrderRepository.
type OrderRepository struct {
	q Querier
}

// NewOrderRepository creates a new PostgreSQL order repository.
func NewOrderRepository(db *sql.DB) *OrderRepository {
	return &OrderRepository{q: db}
}

// Create persists a new order.
func (r *OrderRepository) Create(ctx context.Context, order *domain.Order) error {
	query := `
		INSERT INTO orders (order_id, registration_id, amount, currency, status,
			gateway_transaction_id, gateway_payment_id, verification_note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $9)
	`

	_, err := r.q.ExecContext(ctx, query,
		order.OrderID,
		order.RegistrationID,
		order.Amount.StringFixed(2),
		order.Currency,
		order.Status,
		order.GatewayTransactionID,
		order.GatewayPaymentID,
		order.VerificationNote,
		time.Now(),
	)

	return err
}

// GetByOrderID retrieves an order by its gateway-facing order id.
func (r *OrderRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.Order, error) {
	query := `
		SELECT order_id, registration_id, amount, currency, status,
			gateway_transaction_id, gateway_payment_id, verification_note, created_at, updated_at
		FROM orders WHERE order_id = $1
	`

	order, err := scanOrder(r.q.QueryRowContext(ctx, query, orderID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return order, nil
}

// GetLatestPendingByRegistrationID retrieves the newest pending order for a
// registration. Returns nil if the registration has no pending order.
func (r *OrderRepository) GetLatestPendingByRegistrationID(ctx context.Context, registrationID string) (*domain.Order, error) {
	query := `
		SELECT order_id, registration_id, amount, currency, status,
			gateway_transaction_id, gateway_payment_id, verification_note, created_at, updated_at
		FROM orders
		WHERE registration_id = $1 AND status = $2
		ORDER BY created_at DESC
		LIMIT 1
	`

	order, err := scanOrder(r.q.QueryRowContext(ctx, query, registrationID, domain.OrderStatusPending))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return order, nil
}

// MarkTerminal transitions a pending order to a terminal status. The WHERE
// clause on the current status makes this a compare-and-swap: of two racing
// notifications only one sees rows-affected = 1, the other finds the order
// already terminal and takes the duplicate branch.
func (r *OrderRepository) MarkTerminal(ctx context.Context, orderID string, status domain.OrderStatus, transactionID, paymentID, note string) (bool, error) {
	query := `
		UPDATE orders
		SET status = $1, gateway_transaction_id = $2, gateway_payment_id = $3,
			verification_note = $4, updated_at = $5
		WHERE order_id = $6 AND status = $7
	`

	result, err := r.q.ExecContext(ctx, query,
		status,
		transactionID,
		paymentID,
		note,
		time.Now(),
		orderID,
		domain.OrderStatusPending,
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

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var amount string

	err := row.Scan(
		&order.OrderID,
		&order.RegistrationID,
		&amount,
		&order.Currency,
		&order.Status,
		&order.GatewayTransactionID,
		&order.GatewayPaymentID,
		&order.VerificationNote,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	order.Amount, err = parseAmount(amount)
	if err != nil {
		return nil, err
	}

	return &order, nil
}
