package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"eventpay/internal/redis"
	"eventpay/internal/repository"
)

// RegistrationHandler serves registration status readbacks.
type RegistrationHandler struct {
	registrationRepo repository.RegistrationRepository
	cache            redis.StatusCacheInterface
}

// NewRegistrationHandler creates a new RegistrationHandler.
func NewRegistrationHandler(registrationRepo repository.RegistrationRepository, cache redis.StatusCacheInterface) *RegistrationHandler {
	return &RegistrationHandler{registrationRepo: registrationRepo, cache: cache}
}

// StatusResponse is the HTTP response for a registration status lookup.
type StatusResponse struct {
	RegistrationID   string `json:"registration_id"`
	PaymentStatus    string `json:"payment_status"`
	TicketStatus     string `json:"ticket_status"`
	PaymentReference string `json:"payment_reference,omitempty"`
}

// Status handles GET /v1/registrations/:id/status
//
// The registration form polls this after redirecting to the gateway, so reads
// go through the cache; the reconciliation engine invalidates on transition.
func (h *RegistrationHandler) Status(c *gin.Context) {
	id := c.Param("id")

	if h.cache != nil {
		cached, err := h.cache.GetStatus(c.Request.Context(), id)
		if err != nil {
			log.Printf("status cache read failed for registration %s: %v", id, err)
		} else if cached != nil {
			c.JSON(http.StatusOK, StatusResponse{
				RegistrationID:   cached.RegistrationID,
				PaymentStatus:    cached.PaymentStatus,
				TicketStatus:     cached.TicketStatus,
				PaymentReference: cached.PaymentReference,
			})
			return
		}
	}

	reg, err := h.registrationRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.cache != nil {
		_ = h.cache.SetStatus(c.Request.Context(), &redis.CachedStatus{
			RegistrationID:   reg.ID,
			PaymentStatus:    string(reg.PaymentStatus),
			TicketStatus:     string(reg.TicketStatus),
			PaymentReference: reg.PaymentReference,
		})
	}

	c.JSON(http.StatusOK, StatusResponse{
		RegistrationID:   reg.ID,
		PaymentStatus:    string(reg.PaymentStatus),
		TicketStatus:     string(reg.TicketStatus),
		PaymentReference: reg.PaymentReference,
	})
}
