package domain

// SourceChannel identifies which entry adapter produced a gateway event.
type SourceChannel string

const (
	SourceRedirect SourceChannel = "REDIRECT_RETURN"
	SourceWebhook  SourceChannel = "WEBHOOK"
	SourceManual   SourceChannel = "MANUAL_ADMIN"
)

// GatewayEvent is the canonical representation of a payment notification,
// regardless of whether it arrived via browser redirect, server-to-server
// webhook, or a manual admin decision. Channels normalize into this type and
// hand it to the reconciliation engine; they never touch the stores directly.
type GatewayEvent struct {
	OrderID         string
	RegistrationID  string // resolved from the order when empty
	TransactionID   string
	PaymentID       string
	ResponseCode    string
	ResponseMessage string
	LegacyStatus    string // legacy "status" field, some gateway versions send it
	ErrorDesc       string
	Amount          string // raw string as received, used for hashing
	Currency        string
	HashReceived    string // empty for unsigned callbacks and manual decisions
	RawFields       map[string]string
	Source          SourceChannel
}

// Signed reports whether the gateway actually signed this event. Unsigned
// callbacks pass hash verification trivially, so audit trails must record the
// difference (see VerificationNote on Order).
func (e *GatewayEvent) Signed() bool {
	return e.HashReceived != ""
}
