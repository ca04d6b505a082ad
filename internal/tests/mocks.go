package tests

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"eventpay/internal/domain"
	"eventpay/internal/gateway"
	internalredis "eventpay/internal/redis"
	"eventpay/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK ORDER REPOSITORY
// ──────────────────────────────────────────────

// MockOrderRepository is a mock implementation of OrderRepository.
type MockOrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*domain.Order

	// Counters for verification
	CreateCallCount       int32
	MarkTerminalCallCount int32

	// Error injection
	CreateError       error
	GetError          error
	MarkTerminalError error

	// When positive, GetByOrderID succeeds this many times before GetError
	// kicks in. Zero makes GetError apply from the first call.
	GetErrorAfter int32

	getByOrderIDCalls int32

	// When set, MarkTerminal behaves as if another notification won the race
	// just before: the stored order flips to this status and the call
	// reports a lost compare-and-swap.
	LoseRaceAs domain.OrderStatus
}

// NewMockOrderRepository creates a new mock order repository.
func NewMockOrderRepository() *MockOrderRepository {
	return &MockOrderRepository{
		orders: make(map[string]*domain.Order),
	}
}

// AddOrder adds an order to the mock repository.
func (m *MockOrderRepository) AddOrder(order *domain.Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.OrderID] = order
}

func (m *MockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *order
	copied.CreatedAt = time.Now()
	m.orders[order.OrderID] = &copied
	return nil
}

func (m *MockOrderRepository) GetByOrderID(ctx context.Context, orderID string) (*domain.Order, error) {
	calls := atomic.AddInt32(&m.getByOrderIDCalls, 1)
	if m.GetError != nil && calls > m.GetErrorAfter {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	order, ok := m.orders[orderID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *order
	return &copied, nil
}

func (m *MockOrderRepository) GetLatestPendingByRegistrationID(ctx context.Context, registrationID string) (*domain.Order, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var latest *domain.Order
	for _, o := range m.orders {
		if o.RegistrationID != registrationID || o.Status != domain.OrderStatusPending {
			continue
		}
		if latest == nil || o.CreatedAt.After(latest.CreatedAt) {
			latest = o
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (m *MockOrderRepository) MarkTerminal(ctx context.Context, orderID string, status domain.OrderStatus, transactionID, paymentID, note string) (bool, error) {
	atomic.AddInt32(&m.MarkTerminalCallCount, 1)
	if m.MarkTerminalError != nil {
		return false, m.MarkTerminalError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	order, ok := m.orders[orderID]
	if !ok {
		return false, nil
	}
	if m.LoseRaceAs != "" && order.Status == domain.OrderStatusPending {
		order.Status = m.LoseRaceAs
		return false, nil
	}
	if order.Status != domain.OrderStatusPending {
		return false, nil
	}
	order.Status = status
	order.GatewayTransactionID = transactionID
	order.GatewayPaymentID = paymentID
	order.VerificationNote = note
	order.UpdatedAt = time.Now()
	return true, nil
}

// GetOrder returns an order for test assertions.
func (m *MockOrderRepository) GetOrder(orderID string) *domain.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.orders[orderID]
}

// CountOrders returns the number of stored orders.
func (m *MockOrderRepository) CountOrders() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.orders)
}

// OrdersByRegistration returns all orders for a registration.
func (m *MockOrderRepository) OrdersByRegistration(registrationID string) []*domain.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var result []*domain.Order
	for _, o := range m.orders {
		if o.RegistrationID == registrationID {
			copied := *o
			result = append(result, &copied)
		}
	}
	return result
}

// ──────────────────────────────────────────────
// MOCK REGISTRATION REPOSITORY
// ──────────────────────────────────────────────

// MockRegistrationRepository is a mock implementation of RegistrationRepository.
type MockRegistrationRepository struct {
	mu            sync.RWMutex
	registrations map[string]*domain.Registration

	UpdateCallCount int32

	GetError    error
	UpdateError error
}

// NewMockRegistrationRepository creates a new mock registration repository.
func NewMockRegistrationRepository() *MockRegistrationRepository {
	return &MockRegistrationRepository{
		registrations: make(map[string]*domain.Registration),
	}
}

// AddRegistration adds a registration to the mock repository.
func (m *MockRegistrationRepository) AddRegistration(reg *domain.Registration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registrations[reg.ID] = reg
}

func (m *MockRegistrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	reg, ok := m.registrations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *reg
	return &copied, nil
}

func (m *MockRegistrationRepository) Update(ctx context.Context, reg *domain.Registration) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.registrations[reg.ID]
	if !ok {
		return repository.ErrNotFound
	}
	stored.PaymentStatus = reg.PaymentStatus
	stored.TicketStatus = reg.TicketStatus
	stored.PaymentReference = reg.PaymentReference
	stored.Cancelled = reg.Cancelled
	return nil
}

// GetRegistration returns a registration for test assertions.
func (m *MockRegistrationRepository) GetRegistration(id string) *domain.Registration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.registrations[id]
}

// ──────────────────────────────────────────────
// MOCK TICKET REPOSITORY
// ──────────────────────────────────────────────

// MockTicketRepository is a mock implementation of TicketRepository.
type MockTicketRepository struct {
	mu      sync.RWMutex
	tickets map[string]*domain.Ticket // keyed by registration id

	CreateCallCount int32

	CreateError error
	GetError    error
}

// NewMockTicketRepository creates a new mock ticket repository.
func NewMockTicketRepository() *MockTicketRepository {
	return &MockTicketRepository{
		tickets: make(map[string]*domain.Ticket),
	}
}

func (m *MockTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) (bool, error) {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return false, m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.tickets[ticket.RegistrationID]; exists {
		return false, nil
	}
	copied := *ticket
	copied.IssuedAt = time.Now()
	m.tickets[ticket.RegistrationID] = &copied
	return true, nil
}

func (m *MockTicketRepository) GetByRegistrationID(ctx context.Context, registrationID string) (*domain.Ticket, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	ticket, ok := m.tickets[registrationID]
	if !ok {
		return nil, nil
	}
	copied := *ticket
	return &copied, nil
}

// CountTickets returns the number of issued tickets.
func (m *MockTicketRepository) CountTickets() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tickets)
}

// ──────────────────────────────────────────────
// MOCK LOCK STORE
// ──────────────────────────────────────────────

// MockLockStore is an in-memory implementation of LockStoreInterface.
type MockLockStore struct {
	mu    sync.Mutex
	locks map[string]bool

	AcquireCallCount int32
	ReleaseCallCount int32

	AcquireError error
}

// NewMockLockStore creates a new mock lock store.
func NewMockLockStore() *MockLockStore {
	return &MockLockStore{locks: make(map[string]bool)}
}

func (m *MockLockStore) AcquireOrderLock(ctx context.Context, orderID string, ttl time.Duration) (bool, error) {
	atomic.AddInt32(&m.AcquireCallCount, 1)
	if m.AcquireError != nil {
		return false, m.AcquireError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.locks[orderID] {
		return false, nil
	}
	m.locks[orderID] = true
	return true, nil
}

func (m *MockLockStore) ReleaseOrderLock(ctx context.Context, orderID string) error {
	atomic.AddInt32(&m.ReleaseCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.locks, orderID)
	return nil
}

// ──────────────────────────────────────────────
// MOCK STATUS CACHE
// ──────────────────────────────────────────────

// MockStatusCache is an in-memory implementation of StatusCacheInterface.
type MockStatusCache struct {
	mu      sync.RWMutex
	entries map[string]*internalredis.CachedStatus

	InvalidateCallCount int32
}

// NewMockStatusCache creates a new mock status cache.
func NewMockStatusCache() *MockStatusCache {
	return &MockStatusCache{entries: make(map[string]*internalredis.CachedStatus)}
}

func (m *MockStatusCache) GetStatus(ctx context.Context, registrationID string) (*internalredis.CachedStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	status, ok := m.entries[registrationID]
	if !ok {
		return nil, nil
	}
	copied := *status
	return &copied, nil
}

func (m *MockStatusCache) SetStatus(ctx context.Context, status *internalredis.CachedStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *status
	m.entries[status.RegistrationID] = &copied
	return nil
}

func (m *MockStatusCache) InvalidateStatus(ctx context.Context, registrationID string) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, registrationID)
	return nil
}

// ──────────────────────────────────────────────
// MOCK MAILER
// ──────────────────────────────────────────────

// MockMailer records confirmation sends.
type MockMailer struct {
	mu    sync.Mutex
	Sends []string // registration ids

	SendError error
}

// NewMockMailer creates a new mock mailer.
func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

func (m *MockMailer) SendPaymentConfirmation(reg *domain.Registration, ticket *domain.Ticket, order *domain.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sends = append(m.Sends, reg.ID)
	return m.SendError
}

// SendCount returns how many confirmations were sent.
func (m *MockMailer) SendCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sends)
}

// ──────────────────────────────────────────────
// MOCK PAYMENT INITIATOR
// ──────────────────────────────────────────────

// MockPaymentInitiator is a mock gateway checkout client.
type MockPaymentInitiator struct {
	mu       sync.Mutex
	Requests []gateway.CheckoutRequest

	CreateError error
	PaymentURL  string
}

// NewMockPaymentInitiator creates a new mock payment initiator.
func NewMockPaymentInitiator() *MockPaymentInitiator {
	return &MockPaymentInitiator{PaymentURL: "https://gateway.test/pay/abc"}
}

func (m *MockPaymentInitiator) CreatePayment(ctx context.Context, req gateway.CheckoutRequest) (*gateway.CheckoutResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.CreateError != nil {
		return nil, m.CreateError
	}
	m.Requests = append(m.Requests, req)
	return &gateway.CheckoutResponse{PaymentURL: m.PaymentURL, PaymentID: "PAY-1"}, nil
}

// CallCount returns the number of gateway calls.
func (m *MockPaymentInitiator) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Requests)
}
