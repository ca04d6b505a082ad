package service

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"eventpay/internal/domain"
	"eventpay/internal/gateway"
	"eventpay/internal/repository"
)

// PaymentInitiator is the outbound gateway surface used for checkout.
type PaymentInitiator interface {
	CreatePayment(ctx context.Context, req gateway.CheckoutRequest) (*gateway.CheckoutResponse, error)
}

// CheckoutService starts payment attempts: it validates the amount, records a
// pending order, and hands the signed request to the gateway.
type CheckoutService struct {
	registrationRepo repository.RegistrationRepository
	orderRepo        repository.OrderRepository
	initiator        PaymentInitiator
	gatewayCfg       gateway.Config
	minAmount        decimal.Decimal
}

// NewCheckoutService creates a new CheckoutService.
func NewCheckoutService(
	registrationRepo repository.RegistrationRepository,
	orderRepo repository.OrderRepository,
	initiator PaymentInitiator,
	gatewayCfg gateway.Config,
	minAmount decimal.Decimal,
) *CheckoutService {
	return &CheckoutService{
		registrationRepo: registrationRepo,
		orderRepo:        orderRepo,
		initiator:        initiator,
		gatewayCfg:       gatewayCfg,
		minAmount:        minAmount,
	}
}

// StartPaymentRequest contains the parameters for starting a payment attempt.
type StartPaymentRequest struct {
	RegistrationID string
	Amount         decimal.Decimal
	Description    string
}

// CheckoutSession is returned to the caller so the browser can be sent to the
// gateway's hosted payment page.
type CheckoutSession struct {
	OrderID    string
	PaymentURL string
	PaymentID  string
	Amount     decimal.Decimal
	Currency   string
}

// StartPayment begins a new payment attempt for a registration. Amounts below
// the configured minimum are rejected before any store write or gateway
// contact. Every attempt gets a fresh order; earlier pending orders are left
// untouched and simply never win a transition.
func (s *CheckoutService) StartPayment(ctx context.Context, req StartPaymentRequest) (*CheckoutSession, error) {
	if req.RegistrationID == "" {
		return nil, ErrInvalidRegistrationID
	}
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	if req.Amount.LessThan(s.minAmount) {
		return nil, ErrMinimumAmount
	}
	if !s.gatewayCfg.Configured() {
		return nil, ErrGatewayMisconfigured
	}

	reg, err := s.registrationRepo.GetByID(ctx, req.RegistrationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}
	if reg.Cancelled {
		return nil, ErrRegistrationCancelled
	}

	order := &domain.Order{
		OrderID:        gateway.NewOrderID(reg.ID, time.Now()),
		RegistrationID: reg.ID,
		Amount:         req.Amount,
		Currency:       s.gatewayCfg.Currency,
		Status:         domain.OrderStatusPending,
	}
	if err := s.orderRepo.Create(ctx, order); err != nil {
		return nil, err
	}

	resp, err := s.initiator.CreatePayment(ctx, gateway.CheckoutRequest{
		OrderID:     order.OrderID,
		Amount:      order.Amount,
		Currency:    order.Currency,
		Description: req.Description,
		Name:        reg.Name,
		Email:       reg.Email,
		Phone:       reg.Phone,
		City:        reg.City,
		Country:     reg.Country,
		ZipCode:     reg.ZipCode,
	})
	if err != nil {
		// The pending order stays; a retry creates a fresh attempt and the
		// stale one can never transition without a gateway notification.
		return nil, err
	}

	return &CheckoutSession{
		OrderID:    order.OrderID,
		PaymentURL: resp.PaymentURL,
		PaymentID:  resp.PaymentID,
		Amount:     order.Amount,
		Currency:   order.Currency,
	}, nil
}
