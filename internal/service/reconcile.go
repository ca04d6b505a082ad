package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"eventpay/internal/domain"
	"eventpay/internal/gateway"
	"eventpay/internal/redis"
	"eventpay/internal/repository"
)

// ReconcileOutcome enumerates the possible results of processing a
// notification.
type ReconcileOutcome string

const (
	OutcomeSuccess   ReconcileOutcome = "success"
	OutcomeFailed    ReconcileOutcome = "failed"
	OutcomeDuplicate ReconcileOutcome = "duplicate"
)

// ReconcileResult tells the calling channel what happened so it can render or
// redirect appropriately.
type ReconcileResult struct {
	Applied        bool
	Outcome        ReconcileOutcome
	Status         domain.OrderStatus // terminal status, also set for duplicates
	OrderID        string
	RegistrationID string
}

// SideEffectDispatcher issues the ticket artifact and confirmation message
// after a fresh successful transition. Implementations must be best-effort:
// they log failures and never report them back to the engine.
type SideEffectDispatcher interface {
	DispatchPaymentConfirmed(ctx context.Context, reg *domain.Registration, order *domain.Order)
}

// orderLockTTL bounds how long a crashed handler can hold an order lock.
const orderLockTTL = 30 * time.Second

// ReconcileService is the state machine that applies gateway notifications to
// order and registration state. All three notification channels feed it; no
// channel mutates the stores directly.
type ReconcileService struct {
	orderRepo        repository.OrderRepository
	registrationRepo repository.RegistrationRepository
	locks            redis.LockStoreInterface
	cache            redis.StatusCacheInterface
	dispatcher       SideEffectDispatcher
	salt             string
}

// NewReconcileService creates a new ReconcileService.
func NewReconcileService(
	orderRepo repository.OrderRepository,
	registrationRepo repository.RegistrationRepository,
	locks redis.LockStoreInterface,
	cache redis.StatusCacheInterface,
	dispatcher SideEffectDispatcher,
	salt string,
) *ReconcileService {
	return &ReconcileService{
		orderRepo:        orderRepo,
		registrationRepo: registrationRepo,
		locks:            locks,
		cache:            cache,
		dispatcher:       dispatcher,
		salt:             salt,
	}
}

// Reconcile processes a gateway notification from the redirect or webhook
// channel. The same event legitimately arrives on both channels, and webhooks
// are retried; processing an already-terminal order returns a duplicate
// result without mutating anything or re-firing side effects.
func (s *ReconcileService) Reconcile(ctx context.Context, event *domain.GatewayEvent) (*ReconcileResult, error) {
	if event.TransactionID == "" || event.OrderID == "" || event.Amount == "" || event.Currency == "" {
		return nil, ErrMissingParameters
	}

	if event.Source != domain.SourceManual {
		if !gateway.VerifyResponseHash(event.RawFields, s.salt, event.HashReceived) {
			return nil, ErrHashMismatch
		}
	}

	unlock := s.lockOrder(ctx, event.OrderID)
	defer unlock()

	order, err := s.orderRepo.GetByOrderID(ctx, event.OrderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	success := gateway.IsSuccessful(event.ResponseCode, event.ResponseMessage, event.LegacyStatus)

	return s.apply(ctx, order, event, success)
}

// ManualDecision is an authenticated operator's approve/reject action.
type ManualDecision struct {
	RegistrationID string
	OrderID        string // optional; resolved or created when empty
	Action         string // "approve" or "reject"
	Amount         decimal.Decimal
	Currency       string
	Operator       string
	Note           string
}

// ReconcileManual processes an admin decision. Hash verification is skipped
// (the caller is authenticated instead), and an order is created on the fly
// when the registration never reached the gateway.
func (s *ReconcileService) ReconcileManual(ctx context.Context, decision ManualDecision) (*ReconcileResult, error) {
	if decision.RegistrationID == "" {
		return nil, ErrInvalidRegistrationID
	}
	if decision.Operator == "" {
		return nil, ErrInvalidOperator
	}

	var approve bool
	switch strings.ToLower(decision.Action) {
	case "approve":
		approve = true
	case "reject":
		approve = false
	default:
		return nil, ErrInvalidManualAction
	}

	reg, err := s.registrationRepo.GetByID(ctx, decision.RegistrationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}

	order, err := s.resolveManualOrder(ctx, reg, decision)
	if err != nil {
		return nil, err
	}

	unlock := s.lockOrder(ctx, order.OrderID)
	defer unlock()

	event := &domain.GatewayEvent{
		OrderID:         order.OrderID,
		RegistrationID:  reg.ID,
		TransactionID:   "MANUAL-" + uuid.New().String(),
		ResponseMessage: fmt.Sprintf("%s by operator %s", decision.Action, decision.Operator),
		ErrorDesc:       decision.Note,
		Amount:          order.Amount.StringFixed(2),
		Currency:        order.Currency,
		Source:          domain.SourceManual,
	}

	return s.apply(ctx, order, event, approve)
}

// resolveManualOrder finds the order an admin decision applies to: the one
// named in the decision, else the registration's latest pending order, else a
// fresh order (manual payments may never have had a gateway order).
func (s *ReconcileService) resolveManualOrder(ctx context.Context, reg *domain.Registration, decision ManualDecision) (*domain.Order, error) {
	if decision.OrderID != "" {
		order, err := s.orderRepo.GetByOrderID(ctx, decision.OrderID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrOrderNotFound
			}
			return nil, err
		}
		return order, nil
	}

	order, err := s.orderRepo.GetLatestPendingByRegistrationID(ctx, reg.ID)
	if err != nil {
		return nil, err
	}
	if order != nil {
		return order, nil
	}

	// Minting an order requires an explicit amount; orders never carry zero.
	if !decision.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	order = &domain.Order{
		OrderID:        gateway.NewOrderID(reg.ID, time.Now()),
		RegistrationID: reg.ID,
		Amount:         decision.Amount,
		Currency:       decision.Currency,
		Status:         domain.OrderStatusPending,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	return order, nil
}

// apply runs the terminal transition: conditional order update first, then
// the registration, then side effects. The conditional update is the race
// arbiter; a loser observes the already-terminal state and reports duplicate.
// Re-running after a crash is safe from either intermediate state: a terminal
// order with a lagging registration is detected on the duplicate path and the
// registration write (plus side effects) is completed then.
func (s *ReconcileService) apply(ctx context.Context, order *domain.Order, event *domain.GatewayEvent, success bool) (*ReconcileResult, error) {
	result := &ReconcileResult{
		OrderID:        order.OrderID,
		RegistrationID: order.RegistrationID,
	}

	if order.Status.IsTerminal() {
		result.Outcome = OutcomeDuplicate
		result.Status = order.Status
		if err := s.repairRegistration(ctx, order); err != nil {
			return nil, err
		}
		return result, nil
	}

	status := domain.OrderStatusFailed
	if success {
		status = domain.OrderStatusSuccess
	}

	won, err := s.orderRepo.MarkTerminal(ctx, order.OrderID, status, event.TransactionID, event.PaymentID, verificationNote(event, success))
	if err != nil {
		return nil, err
	}
	if !won {
		// Lost the race; report the winner's terminal state. The lookup must
		// not fail silently: an empty status would send a paid user to the
		// failure page.
		result.Outcome = OutcomeDuplicate
		current, err := s.orderRepo.GetByOrderID(ctx, order.OrderID)
		if err != nil {
			return nil, err
		}
		result.Status = current.Status
		if err := s.repairRegistration(ctx, current); err != nil {
			return nil, err
		}
		return result, nil
	}
	result.Status = status
	order.Status = status

	if err := s.finishRegistration(ctx, order, success); err != nil {
		return nil, err
	}

	result.Applied = true
	if success {
		result.Outcome = OutcomeSuccess
	} else {
		result.Outcome = OutcomeFailed
	}

	return result, nil
}

// finishRegistration writes the registration state matching the order's
// terminal status, invalidates the status cache, and dispatches side effects
// on success. Shared between the winning transition and crash recovery.
func (s *ReconcileService) finishRegistration(ctx context.Context, order *domain.Order, success bool) error {
	reg, err := s.registrationRepo.GetByID(ctx, order.RegistrationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRegistrationNotFound
		}
		return err
	}

	if success {
		reg.PaymentStatus = domain.PaymentStatusSuccess
		reg.TicketStatus = domain.TicketStatusActive
		reg.PaymentReference = order.OrderID
	} else {
		// Ticket status is never touched on failure.
		reg.PaymentStatus = domain.PaymentStatusFailed
	}

	if err := s.registrationRepo.Update(ctx, reg); err != nil {
		return err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateStatus(ctx, reg.ID); err != nil {
			log.Printf("failed to invalidate status cache for registration %s: %v", reg.ID, err)
		}
	}

	if success && s.dispatcher != nil {
		s.dispatcher.DispatchPaymentConfirmed(ctx, reg, order)
	}

	return nil
}

// repairRegistration completes an interrupted transition. A crash (or failed
// registration write) between the winning conditional update and the
// registration write leaves a terminal order with a registration that never
// saw the outcome; every replayed notification lands on the duplicate path, so
// the duplicate path checks for the lag and finishes the write there. Ticket
// issuing is idempotent, so a repair cannot double-mint.
func (s *ReconcileService) repairRegistration(ctx context.Context, order *domain.Order) error {
	reg, err := s.registrationRepo.GetByID(ctx, order.RegistrationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRegistrationNotFound
		}
		return err
	}

	switch order.Status {
	case domain.OrderStatusSuccess:
		if reg.PaymentStatus == domain.PaymentStatusSuccess {
			return nil
		}
	case domain.OrderStatusFailed:
		// Only a still-pending registration lags a failed order; a SUCCESS
		// came from another order and must not be downgraded.
		if reg.PaymentStatus != domain.PaymentStatusPending {
			return nil
		}
	default:
		return nil
	}

	return s.finishRegistration(ctx, order, order.Status == domain.OrderStatusSuccess)
}

// lockOrder narrows the redirect/webhook race window. Failing to acquire (or
// a Redis outage) does not block processing: the conditional update in apply
// is what guarantees a single winner.
func (s *ReconcileService) lockOrder(ctx context.Context, orderID string) func() {
	if s.locks == nil {
		return func() {}
	}

	acquired, err := s.locks.AcquireOrderLock(ctx, orderID, orderLockTTL)
	if err != nil {
		log.Printf("order lock unavailable for %s: %v", orderID, err)
		return func() {}
	}
	if !acquired {
		return func() {}
	}

	return func() {
		if err := s.locks.ReleaseOrderLock(ctx, orderID); err != nil {
			log.Printf("failed to release order lock for %s: %v", orderID, err)
		}
	}
}

// verificationNote records the decision and its provenance on the order.
// Unsigned callbacks pass verification by contract, so the note distinguishes
// them from signed ones for audit purposes.
func verificationNote(event *domain.GatewayEvent, success bool) string {
	outcome := "failed"
	if success {
		outcome = "success"
	}

	if event.Source == domain.SourceManual {
		return fmt.Sprintf("%s via %s: %s", outcome, event.Source, event.ResponseMessage)
	}

	trust := "unsigned callback"
	if event.Signed() {
		trust = "signed"
	}

	note := fmt.Sprintf("%s via %s (%s): code=%s message=%q",
		outcome, event.Source, trust, event.ResponseCode, event.ResponseMessage)
	if event.ErrorDesc != "" {
		note += " error=" + event.ErrorDesc
	}
	return note
}
