package service

import (
	"context"
	"log"

	"eventpay/internal/domain"
)

// Dispatcher issues the ticket artifact and sends the confirmation message
// after a fresh successful transition. Both actions are best-effort: a
// failure here is logged and never rolls back the committed payment state.
type Dispatcher struct {
	tickets *TicketService
	mailer  Mailer
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(tickets *TicketService, mailer Mailer) *Dispatcher {
	return &Dispatcher{tickets: tickets, mailer: mailer}
}

// DispatchPaymentConfirmed runs the post-payment side effects. The engine
// calls this exactly once per fresh success; duplicate notifications never
// reach it.
func (d *Dispatcher) DispatchPaymentConfirmed(ctx context.Context, reg *domain.Registration, order *domain.Order) {
	ticket, created, err := d.tickets.Issue(ctx, reg)
	if err != nil {
		log.Printf("ticket issue failed for registration %s (order %s): %v", reg.ID, order.OrderID, err)
	} else if created {
		log.Printf("ticket %s issued for registration %s", ticket.Serial, reg.ID)
	}

	if d.mailer == nil {
		return
	}

	if err := d.mailer.SendPaymentConfirmation(reg, ticket, order); err != nil {
		log.Printf("confirmation mail failed for registration %s (order %s): %v", reg.ID, order.OrderID, err)
	}
}
