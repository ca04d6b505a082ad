package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"eventpay/internal/service"
)

// CheckoutHandler handles payment initiation.
type CheckoutHandler struct {
	checkoutService *service.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(checkoutService *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// StartPaymentRequest is the HTTP request body for starting a payment.
type StartPaymentRequest struct {
	RegistrationID string `json:"registration_id"`
	Amount         string `json:"amount"`
	Description    string `json:"description"`
}

// CheckoutSessionResponse is the HTTP response for a started payment.
type CheckoutSessionResponse struct {
	OrderID    string `json:"order_id"`
	PaymentURL string `json:"payment_url"`
	PaymentID  string `json:"payment_id,omitempty"`
	Amount     string `json:"amount"`
	Currency   string `json:"currency"`
}

// StartPayment handles POST /v1/payments
func (h *CheckoutHandler) StartPayment(c *gin.Context) {
	var req StartPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.RegistrationID == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "registration_id is required"})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid amount"})
		return
	}

	session, err := h.checkoutService.StartPayment(c.Request.Context(), service.StartPaymentRequest{
		RegistrationID: req.RegistrationID,
		Amount:         amount,
		Description:    req.Description,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, CheckoutSessionResponse{
		OrderID:    session.OrderID,
		PaymentURL: session.PaymentURL,
		PaymentID:  session.PaymentID,
		Amount:     session.Amount.StringFixed(2),
		Currency:   session.Currency,
	})
}
