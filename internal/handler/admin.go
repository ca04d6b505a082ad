package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"eventpay/internal/middleware"
	"eventpay/internal/service"
)

// AdminHandler handles manual payment decisions by authenticated operators.
type AdminHandler struct {
	reconciler Reconciler
	currency   string
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(reconciler Reconciler, currency string) *AdminHandler {
	return &AdminHandler{reconciler: reconciler, currency: currency}
}

// ManualDecisionRequest is the HTTP request body for a manual decision.
type ManualDecisionRequest struct {
	Action  string `json:"action"` // "approve" or "reject"
	OrderID string `json:"order_id,omitempty"`
	Amount  string `json:"amount,omitempty"`
	Note    string `json:"note,omitempty"`
}

// ManualDecisionResponse is the HTTP response for a manual decision.
type ManualDecisionResponse struct {
	Applied        bool   `json:"applied"`
	Outcome        string `json:"outcome"`
	OrderID        string `json:"order_id"`
	RegistrationID string `json:"registration_id"`
}

// Decide handles POST /v1/admin/registrations/:id/decision
//
// The operator identity comes from the auth middleware; hash verification is
// bypassed for this channel because the caller is authenticated instead.
func (h *AdminHandler) Decide(c *gin.Context) {
	var req ManualDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	amount := decimal.Zero
	if req.Amount != "" {
		parsed, err := decimal.NewFromString(req.Amount)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid amount"})
			return
		}
		amount = parsed
	}

	result, err := h.reconciler.ReconcileManual(c.Request.Context(), service.ManualDecision{
		RegistrationID: c.Param("id"),
		OrderID:        req.OrderID,
		Action:         req.Action,
		Amount:         amount,
		Currency:       h.currency,
		Operator:       middleware.OperatorFrom(c),
		Note:           req.Note,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ManualDecisionResponse{
		Applied:        result.Applied,
		Outcome:        string(result.Outcome),
		OrderID:        result.OrderID,
		RegistrationID: result.RegistrationID,
	})
}
