package repository

import (
	"context"

	"eventpay/internal/domain"
)

// OrderRepository defines the persistence operations for payment orders.
type OrderRepository interface {
	// Create persists a new order.
	Create(ctx context.Context, order *domain.Order) error

	// GetByOrderID retrieves an order by its gateway-facing order id.
	GetByOrderID(ctx context.Context, orderID string) (*domain.Order, error)

	// GetLatestPendingByRegistrationID retrieves the newest pending order for
	// a registration. Returns nil if the registration has no pending order.
	GetLatestPendingByRegistrationID(ctx context.Context, registrationID string) (*domain.Order, error)

	// MarkTerminal transitions a pending order to a terminal status as a
	// single conditional write. Returns true when this call won the
	// transition, false when the order was already terminal. Concurrent
	// notifications for the same order serialize on this write.
	MarkTerminal(ctx context.Context, orderID string, status domain.OrderStatus, transactionID, paymentID, note string) (bool, error)
}
