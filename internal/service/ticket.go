package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"

	"eventpay/internal/domain"
	"eventpay/internal/repository"
)

// qrImageSize is the edge length in pixels of the generated QR PNG.
const qrImageSize = 256

// TicketService issues scannable ticket artifacts.
type TicketService struct {
	ticketRepo repository.TicketRepository
}

// NewTicketService creates a new TicketService.
func NewTicketService(ticketRepo repository.TicketRepository) *TicketService {
	return &TicketService{ticketRepo: ticketRepo}
}

// Issue creates the ticket for a registration if none exists yet. Returns the
// ticket and whether this call created it. Retried dispatches and duplicate
// notifications land on the existing ticket instead of minting a second one.
func (s *TicketService) Issue(ctx context.Context, reg *domain.Registration) (*domain.Ticket, bool, error) {
	existing, err := s.ticketRepo.GetByRegistrationID(ctx, reg.ID)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	serial := uuid.New().String()
	payload := fmt.Sprintf("EVENTPAY:%s:%s", reg.ID, serial)

	png, err := qrcode.Encode(payload, qrcode.Medium, qrImageSize)
	if err != nil {
		return nil, false, fmt.Errorf("failed to encode ticket QR: %w", err)
	}

	ticket := &domain.Ticket{
		ID:             uuid.New().String(),
		RegistrationID: reg.ID,
		Serial:         serial,
		QRImage:        png,
	}

	created, err := s.ticketRepo.Create(ctx, ticket)
	if err != nil {
		return nil, false, err
	}
	if !created {
		// Lost a race with another issuer; use theirs.
		existing, err := s.ticketRepo.GetByRegistrationID(ctx, reg.ID)
		if err != nil {
			return nil, false, err
		}
		return existing, false, nil
	}

	return ticket, true, nil
}
