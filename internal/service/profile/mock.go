package profile

import (
	"context"
	"strconv"
	"sync"
	"time"
)

// MockProfileService implements Service in memory for unit tests.
type MockProfileService struct {
	mu       sync.RWMutex
	profiles map[string]*Profile // keyed by document ID
	nextID   int
	now      func() time.Time
}

// NewMockProfileService creates a new mock service.
func NewMockProfileService() *MockProfileService {
	return &MockProfileService{
		profiles: make(map[string]*Profile),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// findLocked returns the profile matching pred with the lowest document ID.
func (m *MockProfileService) findLocked(pred func(*Profile) bool) *Profile {
	var found *Profile
	for _, p := range m.profiles {
		if pred(p) && (found == nil || p.ID < found.ID) {
			found = p
		}
	}
	return found
}

func (m *MockProfileService) Create(_ context.Context, params CreateParams) (*Profile, error) {
	params, err := normalizeCreate(params)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.findLocked(func(p *Profile) bool { return p.UserID == params.UserID }) != nil {
		return nil, ErrAlreadyExists
	}

	m.nextID++
	now := m.now()
	p := &Profile{
		ID:                   "doc-" + strconv.Itoa(m.nextID),
		UserID:               params.UserID,
		Name:                 params.Name,
		Email:                params.Email,
		PhoneNumber:          params.PhoneNumber,
		Marketing:            params.Marketing,
		Membership:           params.Membership,
		StripeCustomerID:     params.StripeCustomerID,
		StripeSubscriptionID: params.StripeSubscriptionID,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	m.profiles[p.ID] = p
	out := *p
	return &out, nil
}

func (m *MockProfileService) GetByUserID(_ context.Context, userID string) (*Profile, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	p := m.findLocked(func(p *Profile) bool { return p.UserID == userID })
	if p == nil {
		return nil, ErrNotFound
	}
	out := *p
	return &out, nil
}

func (m *MockProfileService) UpdateByUserID(_ context.Context, userID string, params UpdateParams) (*Profile, error) {
	return m.updateWhere(userID, func(p *Profile) bool { return p.UserID == userID }, params)
}

func (m *MockProfileService) UpdateByStripeCustomerID(
	_ context.Context,
	stripeCustomerID string,
	params UpdateParams,
	conds ...Precondition,
) (*Profile, error) {
	return m.updateWhere(
		stripeCustomerID,
		func(p *Profile) bool { return p.StripeCustomerID == stripeCustomerID },
		params,
		conds...,
	)
}

func (m *MockProfileService) updateWhere(
	key string,
	pred func(*Profile) bool,
	params UpdateParams,
	conds ...Precondition,
) (*Profile, error) {
	if key == "" {
		return nil, ErrInvalidInput
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.findLocked(pred)
	if p == nil {
		return nil, ErrNotFound
	}
	if !satisfies(*p, conds) {
		return nil, ErrPrecondition
	}
	applyUpdate(p, normalizeUpdate(params))
	p.UpdatedAt = m.now()
	out := *p
	return &out, nil
}

func (m *MockProfileService) DeleteByUserID(_ context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, ErrInvalidInput
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	p := m.findLocked(func(p *Profile) bool { return p.UserID == userID })
	if p == nil {
		return false, nil
	}
	delete(m.profiles, p.ID)
	return true, nil
}

// SetClock replaces the time source (useful for asserting timestamps).
func (m *MockProfileService) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// Clear removes all profiles (useful for test cleanup).
func (m *MockProfileService) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles = make(map[string]*Profile)
}

// Compile-time interface check
var _ Service = (*MockProfileService)(nil)
