package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"eventpay/internal/domain"
)

// WebhookHandler handles server-to-server payment notifications.
type WebhookHandler struct {
	reconciler Reconciler
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(reconciler Reconciler) *WebhookHandler {
	return &WebhookHandler{reconciler: reconciler}
}

// Notify handles POST /v1/payments/webhook
//
// The gateway retries webhooks until it sees a success-shaped acknowledgement,
// so duplicates must also get {"received": true}. Malformed or unauthenticated
// notifications get a 4xx JSON error instead; the gateway keeps retrying
// those, which is the desired behavior for transient signature problems.
func (h *WebhookHandler) Notify(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid form body"})
		return
	}

	fields := make(map[string]string, len(c.Request.PostForm))
	for name, values := range c.Request.PostForm {
		if len(values) > 0 {
			fields[name] = values[0]
		}
	}

	event := buildGatewayEvent(fields, domain.SourceWebhook)

	result, err := h.reconciler.Reconcile(c.Request.Context(), event)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"received":        true,
		"outcome":         result.Outcome,
		"order_id":        result.OrderID,
		"registration_id": result.RegistrationID,
	})
}
