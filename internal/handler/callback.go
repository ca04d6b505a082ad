package handler

import (
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"eventpay/internal/domain"
)

// CallbackHandler handles the gateway's browser redirect after payment.
type CallbackHandler struct {
	reconciler     Reconciler
	successPageURL string
	failurePageURL string
}

// NewCallbackHandler creates a new CallbackHandler.
func NewCallbackHandler(reconciler Reconciler, successPageURL, failurePageURL string) *CallbackHandler {
	return &CallbackHandler{
		reconciler:     reconciler,
		successPageURL: successPageURL,
		failurePageURL: failurePageURL,
	}
}

// Return handles GET and POST /v1/payments/return
//
// The gateway sends the user's browser back here with the notification fields
// as query params or a form/JSON body. The reply is always a 303 redirect so
// the browser re-issues as GET and a refresh cannot resubmit the notification.
func (h *CallbackHandler) Return(c *gin.Context) {
	fields, err := parseNotificationFields(c)
	if err != nil {
		h.redirectFailure(c, "invalid_request", "", "")
		return
	}

	event := buildGatewayEvent(fields, domain.SourceRedirect)

	result, err := h.reconciler.Reconcile(c.Request.Context(), event)
	if err != nil {
		h.redirectFailure(c, errorCode(err), event.OrderID, event.ResponseCode)
		return
	}

	// Duplicates land on whichever page matches the already-committed state:
	// the webhook usually wins the race and the user still sees the outcome.
	if result.Status == domain.OrderStatusSuccess {
		h.redirectSuccess(c, result.RegistrationID, result.OrderID)
		return
	}

	h.redirectFailure(c, "payment_failed", result.OrderID, event.ResponseCode)
}

func (h *CallbackHandler) redirectSuccess(c *gin.Context, registrationID, orderID string) {
	q := url.Values{}
	q.Set("registration_id", registrationID)
	q.Set("order_id", orderID)
	c.Redirect(http.StatusSeeOther, h.successPageURL+"?"+q.Encode())
}

func (h *CallbackHandler) redirectFailure(c *gin.Context, code, orderID, responseCode string) {
	q := url.Values{}
	q.Set("error", code)
	if orderID != "" {
		q.Set("order_id", orderID)
	}
	if responseCode != "" {
		q.Set("response_code", responseCode)
	}
	c.Redirect(http.StatusSeeOther, h.failurePageURL+"?"+q.Encode())
}
