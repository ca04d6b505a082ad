package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the current status of a payment order.
type OrderStatus string

const (
	OrderStatusPending OrderStatus = "PENDING"
	OrderStatusSuccess OrderStatus = "SUCCESS"
	OrderStatusFailed  OrderStatus = "FAILED"
)

// IsTerminal reports whether the status permits no further transitions.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusSuccess || s == OrderStatusFailed
}

// Order represents a single payment attempt. One registration may accumulate
// several orders (one per attempt); only the latest pending one is active.
type Order struct {
	OrderID              string // gateway-facing id, at most 30 characters
	RegistrationID       string
	Amount               decimal.Decimal
	Currency             string
	Status               OrderStatus
	GatewayTransactionID string
	GatewayPaymentID     string
	VerificationNote     string // audit trail of the last decision and its source channel
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
