package services

import (
	"fmt"
	"sync"
)

// MockRazorpayService is an in-memory gateway implementation for testing.
// Signatures are computed with the real HMAC scheme against Secret, so
// verification tests exercise the same code path as production.
type MockRazorpayService struct {
	Secret     string
	Key        string
	FailCreate bool

	mu      sync.Mutex
	counter int
	orders  map[string]*RazorpayOrder
}

// NewMockRazorpayService creates a new mock gateway
func NewMockRazorpayService(key, secret string) *MockRazorpayService {
	return &MockRazorpayService{
		Key:    key,
		Secret: secret,
		orders: make(map[string]*RazorpayOrder),
	}
}

// SetAsMockForTesting sets this mock as the global gateway instance
func (m *MockRazorpayService) SetAsMockForTesting() {
	SetRazorpayService(m)
}

// CreateOrder simulates registering a payment intent with the gateway
func (m *MockRazorpayService) CreateOrder(amount int64, currency, receipt string, notes map[string]string) (*RazorpayOrder, error) {
	if m.FailCreate {
		return nil, fmt.Errorf("gateway returned status 502: upstream unavailable")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.counter++
	order := &RazorpayOrder{
		ID:       fmt.Sprintf("order_mock%05d", m.counter),
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
		Status:   "created",
	}
	m.orders[order.ID] = order
	return order, nil
}

// VerifySignature checks the signature with the mock's secret
func (m *MockRazorpayService) VerifySignature(orderID, paymentID, signature string) bool {
	return ComputeSignature(m.Secret, orderID, paymentID) == signature
}

// KeyID returns the mock public key identifier
func (m *MockRazorpayService) KeyID() string {
	return m.Key
}

// Sign produces a valid callback signature for testing assertions
func (m *MockRazorpayService) Sign(orderID, paymentID string) string {
	return ComputeSignature(m.Secret, orderID, paymentID)
}

// CreatedOrders returns the orders registered so far (for testing assertions)
func (m *MockRazorpayService) CreatedOrders() []*RazorpayOrder {
	m.mu.Lock()
	defer m.mu.Unlock()

	orders := make([]*RazorpayOrder, 0, len(m.orders))
	for _, o := range m.orders {
		orders = append(orders, o)
	}
	return orders
}
