package domain

import "time"

// PaymentStatus represents the payment state of a registration.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusSuccess PaymentStatus = "SUCCESS"
	PaymentStatusFailed  PaymentStatus = "FAILED"
)

// TicketStatus represents the ticket state of a registration.
type TicketStatus string

const (
	TicketStatusUnderReview TicketStatus = "UNDER_REVIEW"
	TicketStatusActive      TicketStatus = "ACTIVE"
	TicketStatusExpired     TicketStatus = "EXPIRED"
	TicketStatusUsed        TicketStatus = "USED"
)

// Registration is the business entity being paid for. It is created at form
// submission, before any order exists, and is never deleted by this subsystem.
type Registration struct {
	ID               string
	Name             string
	Email            string
	Phone            string
	City             string
	Country          string
	ZipCode          string
	PaymentStatus    PaymentStatus
	TicketStatus     TicketStatus
	PaymentReference string // order id of the winning payment attempt
	Cancelled        bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
