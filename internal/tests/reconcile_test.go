package tests

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"eventpay/internal/domain"
	"eventpay/internal/gateway"
	"eventpay/internal/service"
)

const reconcileSalt = "reconcile-test-salt"

// newEngine wires a ReconcileService over fresh mocks. The returned mailer
// and ticket repo expose side-effect counts.
func newEngine(orders *MockOrderRepository, regs *MockRegistrationRepository) (*service.ReconcileService, *MockTicketRepository, *MockMailer) {
	tickets := NewMockTicketRepository()
	mailer := NewMockMailer()
	dispatcher := service.NewDispatcher(service.NewTicketService(tickets), mailer)
	engine := service.NewReconcileService(orders, regs, NewMockLockStore(), NewMockStatusCache(), dispatcher, reconcileSalt)
	return engine, tickets, mailer
}

func pendingOrder(orderID, registrationID, amount string) *domain.Order {
	return &domain.Order{
		OrderID:        orderID,
		RegistrationID: registrationID,
		Amount:         decimal.RequireFromString(amount),
		Currency:       "USD",
		Status:         domain.OrderStatusPending,
	}
}

func pendingRegistration(id string) *domain.Registration {
	return &domain.Registration{
		ID:            id,
		Name:          "Ada Lovelace",
		Email:         "ada@example.com",
		PaymentStatus: domain.PaymentStatusPending,
		TicketStatus:  domain.TicketStatusUnderReview,
	}
}

func successEvent(orderID string, source domain.SourceChannel) *domain.GatewayEvent {
	fields := map[string]string{
		"transaction_id": "TX-9001",
		"order_id":       orderID,
		"response_code":  "0",
		"amount":         "1000.00",
		"currency":       "USD",
	}
	return &domain.GatewayEvent{
		OrderID:       orderID,
		TransactionID: "TX-9001",
		ResponseCode:  "0",
		Amount:        "1000.00",
		Currency:      "USD",
		RawFields:     fields,
		Source:        source,
	}
}

func TestReconcile_WebhookSuccessActivatesTicket(t *testing.T) {
	t.Parallel()

	orders := NewMockOrderRepository()
	regs := NewMockRegistrationRepository()
	orders.AddOrder(pendingOrder("REG123_171234", "REG123", "1000.00"))
	regs.AddRegistration(pendingRegistration("REG123"))

	engine, tickets, mailer := newEngine(orders, regs)

	result, err := engine.Reconcile(context.Background(), successEvent("REG123_171234", domain.SourceWebhook))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.Applied {
		t.Error("expected transition to be applied")
	}
	if result.Outcome != service.OutcomeSuccess {
		t.Errorf("expected outcome success, got %s", result.Outcome)
	}
	if result.RegistrationID != "REG123" {
		t.Errorf("expected registration REG123, got %s", result.RegistrationID)
	}

	order := orders.GetOrder("REG123_171234")
	if order.Status != domain.OrderStatusSuccess {
		t.Errorf("expected order SUCCESS, got %s", order.Status)
	}
	if order.GatewayTransactionID != "TX-9001" {
		t.Errorf("expected transaction id recorded, got %q", order.GatewayTransactionID)
	}

	reg := regs.GetRegistration("REG123")
	if reg.PaymentStatus != domain.PaymentStatusSuccess {
		t.Errorf("expected payment status SUCCESS, got %s", reg.PaymentStatus)
	}
	if reg.TicketStatus != domain.TicketStatusActive {
		t.Errorf("expected ticket status ACTIVE, got %s", reg.TicketStatus)
	}
	if reg.PaymentReference != "REG123_171234" {
		t.Errorf("expected payment reference set, got %q", reg.PaymentReference)
	}

	if tickets.CountTickets() != 1 {
		t.Errorf("expected 1 ticket artifact, got %d", tickets.CountTickets())
	}
	if mailer.SendCount() != 1 {
		t.Errorf("expected 1 confirmation mail, got %d", mailer.SendCount())
	}
}

func TestReconcile_DuplicateAfterSuccessIsNoOp(t *testing.T) {
	t.Parallel()

	orders := NewMockOrderRepository()
	regs := NewMockRegistrationRepository()
	orders.AddOrder(pendingOrder("REG123_171234", "REG123", "1000.00"))
	regs.AddRegistration(pendingRegistration("REG123"))

	engine, tickets, mailer := newEngine(orders, regs)

	// Webhook wins first.
	if _, err := engine.Reconcile(context.Background(), successEvent("REG123_171234", domain.SourceWebhook)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The same event arrives again via the redirect.
	result, err := engine.Reconcile(context.Background(), successEvent("REG123_171234", domain.SourceRedirect))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Applied {
		t.Error("expected duplicate to not be applied")
	}
	if result.Outcome != service.OutcomeDuplicate {
		t.Errorf("expected outcome duplicate, got %s", result.Outcome)
	}
	if result.Status != domain.OrderStatusSuccess {
		t.Errorf("expected duplicate to report terminal SUCCESS, got %s", result.Status)
	}

	if tickets.CountTickets() != 1 {
		t.Errorf("expected side effects to fire exactly once, got %d tickets", tickets.CountTickets())
	}
	if mailer.SendCount() != 1 {
		t.Errorf("expected 1 confirmation mail, got %d", mailer.SendCount())
	}
	if regs.UpdateCallCount != 1 {
		t.Errorf("expected registration written exactly once, got %d", regs.UpdateCallCount)
	}
}

func TestReconcile_FailureMarksOrderAndRegistration(t *testing.T) {
	t.Parallel()

	orders := NewMockOrderRepository()
	regs := NewMockRegistrationRepository()
	orders.AddOrder(pendingOrder("REG9_1000", "REG9", "250.00"))
	regs.AddRegistration(pendingRegistration("REG9"))

	engine, tickets, mailer := newEngine(orders, regs)

	event := &domain.GatewayEvent{
		OrderID:         "REG9_1000",
		TransactionID:   "TX-77",
		ResponseCode:    "1",
		ResponseMessage: "Transaction Failed",
		Amount:          "250.00",
		Currency:        "USD",
		RawFields: map[string]string{
			"transaction_id":   "TX-77",
			"order_id":         "REG9_1000",
			"response_code":    "1",
			"response_message": "Transaction Failed",
			"amount":           "250.00",
			"currency":         "USD",
		},
		Source: domain.SourceWebhook,
	}

	result, err := engine.Reconcile(context.Background(), event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Outcome != service.OutcomeFailed {
		t.Errorf("expected outcome failed, got %s", result.Outcome)
	}

	order := orders.GetOrder("REG9_1000")
	if order.Status != domain.OrderStatusFailed {
		t.Errorf("expected order FAILED, got %s", order.Status)
	}
	if !strings.Contains(order.VerificationNote, "Transaction Failed") {
		t.Errorf("expected gateway description in note, got %q", order.VerificationNote)
	}

	reg := regs.GetRegistration("REG9")
	if reg.PaymentStatus != domain.PaymentStatusFailed {
		t.Errorf("expected payment status FAILED, got %s", reg.PaymentStatus)
	}
	// A failed payment must never touch the ticket.
	if reg.TicketStatus != domain.TicketStatusUnderReview {
		t.Errorf("expected ticket status untouched, got %s", reg.TicketStatus)
	}

	if tickets.CountTickets() != 0 || mailer.SendCount() != 0 {
		t.Error("expected no side effects on failure")
	}
}

func TestReconcile_TamperedHashMutatesNothing(t *testing.T) {
	t.Parallel()

	orders := NewMockOrderRepository()
	regs := NewMockRegistrationRepository()
	orders.AddOrder(pendingOrder("REG5_42", "REG5", "100.00"))
	regs.AddRegistration(pendingRegistration("REG5"))

	engine, tickets, _ := newEngine(orders, regs)

	event := successEvent("REG5_42", domain.SourceWebhook)
	event.HashReceived = strings.Repeat("AB", 64)
	event.RawFields[gateway.HashFieldName] = event.HashReceived

	_, err := engine.Reconcile(context.Background(), event)
	if !errors.Is(err, service.ErrHashMismatch) {
		t.Fatalf("expected ErrHashMismatch, got %v", err)
	}

	if orders.MarkTerminalCallCount != 0 {
		t.Error("expected no order mutation on hash mismatch")
	}
	if regs.UpdateCallCount != 0 {
		t.Error("expected no registration mutation on hash mismatch")
	}
	if got := orders.GetOrder("REG5_42").Status; got != domain.OrderStatusPending {
		t.Errorf("expected order still PENDING, got %s", got)
	}
	if tickets.CountTickets() != 0 {
		t.Error("expected no ticket on hash mismatch")
	}
}

func TestReconcile_SignedEventVerifies(t *testing.T) {
	t.Parallel()

	orders := NewMockOrderRepository()
	regs := NewMockRegistrationRepository()
	orders.AddOrder(pendingOrder("REG6_77", "REG6", "100.00"))
	regs.AddRegistration(pendingRegistration("REG6"))

	engine, _, _ := newEngine(orders, regs)

	event := successEvent("REG6_77", domain.SourceWebhook)
	// Sign the way the gateway does: non-empty values, field names sorted.
	event.HashReceived = gateway.ComputeRequestHash([]string{
		event.Amount, event.Currency, event.OrderID, event.ResponseCode, event.TransactionID,
	}, reconcileSalt)
	event.RawFields[gateway.HashFieldName] = event.HashReceived

	result, err := engine.Reconcile(context.Background(), event)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != service.OutcomeSuccess {
		t.Errorf("expected outcome success, got %s", result.Outcome)
	}

	note := orders.GetOrder("REG6_77").VerificationNote
	if !strings.Contains(note, "signed") || strings.Contains(note, "unsigned") {
		t.Errorf("expected signed provenance in note, got %q", note)
	}
}

func TestReconcile_UnsignedCallbackRecordedAsLowerTrust(t *testing.T) {
	t.Parallel()

	orders := NewMockOrderRepository()
	regs := NewMockRegistrationRepository()
	orders.AddOrder(pendingOrder("REG7_88", "REG7", "100.00"))
	regs.AddRegistration(pendingRegistration("REG7"))

	engine, _, _ := newEngine(orders, regs)

	// No hash at all: verification passes trivially, provenance is noted.
	result, err := engine.Reconcile(context.Background(), successEvent("REG7_88", domain.SourceWebhook))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Outcome != service.OutcomeSuccess {
		t.Errorf("expected outcome success, got %s", result.Outcome)
	}

	note := orders.GetOrder("REG7_88").VerificationNote
	if !strings.Contains(note, "unsigned") {
		t.Errorf("expected unsigned provenance in note, got %q", note)
	}
}

func TestReconcile_MissingParametersRejected(t *testing.T) {
	t.Parallel()

	orders := NewMockOrderRepository()
	regs := NewMockRegistrationRepository()
	engine, _, _ := newEngine(orders, regs)

	event := successEvent("REG1_1", domain.SourceWebhook)
	event.TransactionID = ""

	_, err := engine.Reconcile(context.Background(), event)
	if !errors.Is(err, service.ErrMissingParameters) {
		t.Fatalf("expected ErrMissingParameters, got %v", err)
	}
	if orders.MarkTerminalCallCount != 0 {
		t.Error("expected no mutation on missing parameters")
	}
}

func TestReconcile_UnknownOrderRejected(t *testing.T) {
	t.Parallel()

	engine, _, _ := newEngine(NewMockOrderRepository(), NewMockRegistrationRepository())

	_, err := engine.Reconcile(context.Background(), successEvent("NOPE_1", domain.SourceWebhook))
	if !errors.Is(err, service.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestReconcile_LostRaceReportsDuplicate(t *testing.T) {
	t.Parallel()

	orders := NewMockOrderRepository()
	regs := NewMockRegistrationRepository()
	orders.AddOrder(pendingOrder("REG8_99", "REG8", "100.00"))
	regs.AddRegistration(pendingRegistration("REG8"))

	// Another notification flips the order terminal between the read and
	// the conditional write.
	orders.LoseRaceAs = domain.OrderStatusSuccess

	engine, tickets, _ := newEngine(orders, regs)

	result, err := engine.Reconcile(context.Background(), successEvent("REG8_99", domain.SourceWebhook))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Applied {
		t.Error("expected loser to not apply")
	}
	if result.Outcome != service.OutcomeDuplicate {
		t.Errorf("expected outcome duplicate, got %s", result.Outcome)
	}
	if result.Status != domain.OrderStatusSuccess {
		t.Errorf("expected winner's terminal state reported, got %s", result.Status)
	}

	// The order is terminal but the registration never saw the outcome; the
	// loser finishes the registration write instead of leaving it pending.
	reg := regs.GetRegistration("REG8")
	if reg.PaymentStatus != domain.PaymentStatusSuccess {
		t.Errorf("expected lagging registration completed, got %s", reg.PaymentStatus)
	}
	if tickets.CountTickets() != 1 {
		t.Errorf("expected repair to issue the ticket once, got %d", tickets.CountTickets())
	}
}

func TestReconcile_LostRaceLookupFailureSurfaces(t *testing.T) {
	t.Parallel()

	orders := NewMockOrderRepository()
	regs := NewMockRegistrationRepository()
	orders.AddOrder(pendingOrder("REG81_99", "REG81", "100.00"))
	regs.AddRegistration(pendingRegistration("REG81"))

	// The conditional update loses and the follow-up lookup fails. The caller
	// must see an error, not a duplicate with an empty terminal status (the
	// redirect channel would render the failure page for a paid user).
	orders.LoseRaceAs = domain.OrderStatusSuccess
	orders.GetError = errors.New("connection reset")
	orders.GetErrorAfter = 1

	engine, _, _ := newEngine(orders, regs)

	result, err := engine.Reconcile(context.Background(), successEvent("REG81_99", domain.SourceWebhook))
	if err == nil {
		t.Fatalf("expected lookup failure to surface, got result %+v", result)
	}
}

func TestReconcile_ReplayRepairsInterruptedTransition(t *testing.T) {
	t.Parallel()

	orders := NewMockOrderRepository()
	regs := NewMockRegistrationRepository()
	orders.AddOrder(pendingOrder("REG80_11", "REG80", "1000.00"))
	regs.AddRegistration(pendingRegistration("REG80"))

	engine, tickets, mailer := newEngine(orders, regs)

	// The registration write dies right after the order goes terminal,
	// leaving the transition half-applied.
	regs.UpdateError = errors.New("db down")
	if _, err := engine.Reconcile(context.Background(), successEvent("REG80_11", domain.SourceWebhook)); err == nil {
		t.Fatal("expected first run to fail on the registration write")
	}
	if got := orders.GetOrder("REG80_11").Status; got != domain.OrderStatusSuccess {
		t.Fatalf("expected order already terminal, got %s", got)
	}
	if got := regs.GetRegistration("REG80").PaymentStatus; got != domain.PaymentStatusPending {
		t.Fatalf("expected registration still pending, got %s", got)
	}

	// The gateway retries the webhook; the replay must finish the job.
	regs.UpdateError = nil
	result, err := engine.Reconcile(context.Background(), successEvent("REG80_11", domain.SourceWebhook))
	if err != nil {
		t.Fatalf("unexpected error on replay: %v", err)
	}
	if result.Outcome != service.OutcomeDuplicate {
		t.Errorf("expected outcome duplicate on replay, got %s", result.Outcome)
	}
	if result.Status != domain.OrderStatusSuccess {
		t.Errorf("expected terminal SUCCESS reported, got %s", result.Status)
	}

	reg := regs.GetRegistration("REG80")
	if reg.PaymentStatus != domain.PaymentStatusSuccess {
		t.Errorf("expected replay to complete the registration, got %s", reg.PaymentStatus)
	}
	if reg.TicketStatus != domain.TicketStatusActive {
		t.Errorf("expected ticket ACTIVE after repair, got %s", reg.TicketStatus)
	}
	if reg.PaymentReference != "REG80_11" {
		t.Errorf("expected payment reference set, got %q", reg.PaymentReference)
	}
	if tickets.CountTickets() != 1 {
		t.Errorf("expected repair to issue the ticket, got %d", tickets.CountTickets())
	}
	if mailer.SendCount() != 1 {
		t.Errorf("expected repair to send the confirmation, got %d", mailer.SendCount())
	}

	// A further replay finds nothing to repair.
	if _, err := engine.Reconcile(context.Background(), successEvent("REG80_11", domain.SourceWebhook)); err != nil {
		t.Fatalf("unexpected error on second replay: %v", err)
	}
	if tickets.CountTickets() != 1 || mailer.SendCount() != 1 {
		t.Error("expected side effects to fire exactly once across replays")
	}
}

func TestReconcile_FailureReplayRepairsRegistration(t *testing.T) {
	t.Parallel()

	orders := NewMockOrderRepository()
	regs := NewMockRegistrationRepository()
	orders.AddOrder(pendingOrder("REG82_12", "REG82", "250.00"))
	regs.AddRegistration(pendingRegistration("REG82"))

	engine, tickets, _ := newEngine(orders, regs)

	failure := &domain.GatewayEvent{
		OrderID:         "REG82_12",
		TransactionID:   "TX-13",
		ResponseCode:    "1",
		ResponseMessage: "Transaction Failed",
		Amount:          "250.00",
		Currency:        "USD",
		RawFields: map[string]string{
			"transaction_id":   "TX-13",
			"order_id":         "REG82_12",
			"response_code":    "1",
			"response_message": "Transaction Failed",
			"amount":           "250.00",
			"currency":         "USD",
		},
		Source: domain.SourceWebhook,
	}

	regs.UpdateError = errors.New("db down")
	if _, err := engine.Reconcile(context.Background(), failure); err == nil {
		t.Fatal("expected first run to fail on the registration write")
	}

	regs.UpdateError = nil
	result, err := engine.Reconcile(context.Background(), failure)
	if err != nil {
		t.Fatalf("unexpected error on replay: %v", err)
	}
	if result.Outcome != service.OutcomeDuplicate {
		t.Errorf("expected outcome duplicate on replay, got %s", result.Outcome)
	}

	reg := regs.GetRegistration("REG82")
	if reg.PaymentStatus != domain.PaymentStatusFailed {
		t.Errorf("expected replay to complete the failed registration, got %s", reg.PaymentStatus)
	}
	if reg.TicketStatus != domain.TicketStatusUnderReview {
		t.Errorf("expected ticket status untouched, got %s", reg.TicketStatus)
	}
	if tickets.CountTickets() != 0 {
		t.Error("expected no ticket for a failed payment")
	}
}

func TestReconcileManual_RejectWithoutOrderCreatesFailedOrder(t *testing.T) {
	t.Parallel()

	orders := NewMockOrderRepository()
	regs := NewMockRegistrationRepository()
	regs.AddRegistration(pendingRegistration("REG44"))

	engine, tickets, _ := newEngine(orders, regs)

	result, err := engine.ReconcileManual(context.Background(), service.ManualDecision{
		RegistrationID: "REG44",
		Action:         "reject",
		Amount:         decimal.RequireFromString("500.00"),
		Currency:       "USD",
		Operator:       "ops@example.com",
		Note:           "bank transfer never arrived",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Outcome != service.OutcomeFailed {
		t.Errorf("expected outcome failed, got %s", result.Outcome)
	}

	created := orders.OrdersByRegistration("REG44")
	if len(created) != 1 {
		t.Fatalf("expected an order created on the fly, got %d", len(created))
	}
	if created[0].Status != domain.OrderStatusFailed {
		t.Errorf("expected created order FAILED, got %s", created[0].Status)
	}
	if !strings.Contains(created[0].VerificationNote, "ops@example.com") {
		t.Errorf("expected operator in note, got %q", created[0].VerificationNote)
	}

	reg := regs.GetRegistration("REG44")
	if reg.PaymentStatus != domain.PaymentStatusFailed {
		t.Errorf("expected payment status FAILED, got %s", reg.PaymentStatus)
	}
	if reg.TicketStatus != domain.TicketStatusUnderReview {
		t.Errorf("expected ticket status untouched, got %s", reg.TicketStatus)
	}
	if tickets.CountTickets() != 0 {
		t.Error("expected no ticket on manual reject")
	}
}

func TestReconcileManual_ApproveActivatesTicket(t *testing.T) {
	t.Parallel()

	orders := NewMockOrderRepository()
	regs := NewMockRegistrationRepository()
	orders.AddOrder(pendingOrder("REG55_123", "REG55", "750.00"))
	regs.AddRegistration(pendingRegistration("REG55"))

	engine, tickets, mailer := newEngine(orders, regs)

	result, err := engine.ReconcileManual(context.Background(), service.ManualDecision{
		RegistrationID: "REG55",
		Action:         "approve",
		Operator:       "ops@example.com",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Outcome != service.OutcomeSuccess {
		t.Errorf("expected outcome success, got %s", result.Outcome)
	}
	if result.OrderID != "REG55_123" {
		t.Errorf("expected pending order resolved, got %s", result.OrderID)
	}

	reg := regs.GetRegistration("REG55")
	if reg.TicketStatus != domain.TicketStatusActive {
		t.Errorf("expected ticket ACTIVE, got %s", reg.TicketStatus)
	}
	if tickets.CountTickets() != 1 || mailer.SendCount() != 1 {
		t.Error("expected side effects dispatched once on manual approve")
	}
}

func TestReconcileManual_MintedOrderRequiresAmount(t *testing.T) {
	t.Parallel()

	orders := NewMockOrderRepository()
	regs := NewMockRegistrationRepository()
	regs.AddRegistration(pendingRegistration("REG45"))

	engine, _, _ := newEngine(orders, regs)

	// No prior order and no amount: there is nothing valid to mint.
	_, err := engine.ReconcileManual(context.Background(), service.ManualDecision{
		RegistrationID: "REG45",
		Action:         "approve",
		Operator:       "ops@example.com",
	})
	if !errors.Is(err, service.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
	if orders.CreateCallCount != 0 {
		t.Error("expected no zero-amount order created")
	}
	if got := regs.GetRegistration("REG45").PaymentStatus; got != domain.PaymentStatusPending {
		t.Errorf("expected registration untouched, got %s", got)
	}
}

func TestReconcileManual_InvalidActionRejected(t *testing.T) {
	t.Parallel()

	regs := NewMockRegistrationRepository()
	regs.AddRegistration(pendingRegistration("REG66"))
	engine, _, _ := newEngine(NewMockOrderRepository(), regs)

	_, err := engine.ReconcileManual(context.Background(), service.ManualDecision{
		RegistrationID: "REG66",
		Action:         "escalate",
		Operator:       "ops@example.com",
	})
	if !errors.Is(err, service.ErrInvalidManualAction) {
		t.Fatalf("expected ErrInvalidManualAction, got %v", err)
	}
}

func TestReconcile_SideEffectFailureDoesNotRevertPayment(t *testing.T) {
	t.Parallel()

	orders := NewMockOrderRepository()
	regs := NewMockRegistrationRepository()
	orders.AddOrder(pendingOrder("REG77_5", "REG77", "100.00"))
	regs.AddRegistration(pendingRegistration("REG77"))

	tickets := NewMockTicketRepository()
	tickets.CreateError = errors.New("ticket store down")
	mailer := NewMockMailer()
	mailer.SendError = errors.New("smtp down")
	dispatcher := service.NewDispatcher(service.NewTicketService(tickets), mailer)
	engine := service.NewReconcileService(orders, regs, NewMockLockStore(), NewMockStatusCache(), dispatcher, reconcileSalt)

	result, err := engine.Reconcile(context.Background(), successEvent("REG77_5", domain.SourceWebhook))
	if err != nil {
		t.Fatalf("expected side-effect failures to stay out of the engine, got %v", err)
	}

	if result.Outcome != service.OutcomeSuccess {
		t.Errorf("expected outcome success, got %s", result.Outcome)
	}
	if got := orders.GetOrder("REG77_5").Status; got != domain.OrderStatusSuccess {
		t.Errorf("expected committed order SUCCESS despite side-effect failure, got %s", got)
	}
	if got := regs.GetRegistration("REG77").PaymentStatus; got != domain.PaymentStatusSuccess {
		t.Errorf("expected registration SUCCESS despite side-effect failure, got %s", got)
	}
}
