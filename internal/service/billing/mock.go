package billing

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MockService implements Service in memory for unit tests. Webhook payloads
// are accepted when signature equals Secret and are decoded from a flat
// JSON object with the Event field names.
type MockService struct {
	mu        sync.Mutex
	customers map[string]string // customer ID -> user ID
	nextID    int

	Secret string
	Err    error
}

// NewMockService creates a new mock billing service.
func NewMockService(secret string) *MockService {
	return &MockService{customers: make(map[string]string), Secret: secret}
}

func (m *MockService) EnsureCustomer(_ context.Context, userID, _ string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.Err != nil {
		return "", m.Err
	}
	m.nextID++
	id := fmt.Sprintf("cus_mock_%d", m.nextID)
	m.customers[id] = userID
	return id, nil
}

func (m *MockService) ParseWebhook(payload []byte, signature string) (Event, error) {
	if signature != m.Secret {
		return Event{}, ErrInvalidSignature
	}
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return Event{}, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	return ev, nil
}

// CustomerUser returns the user a mock customer was created for.
func (m *MockService) CustomerUser(customerID string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	userID, ok := m.customers[customerID]
	return userID, ok
}

// Compile-time interface check
var _ Service = (*MockService)(nil)
