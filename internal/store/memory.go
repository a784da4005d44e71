package store

import (
	"context"
	"sync"

	"career-counselling/internal/models"
)

// Memory keeps everything in process. It is the default backend and the
// front cache of Layered.
type Memory struct {
	mu        sync.RWMutex
	users     map[string]*models.User
	responses map[string]*models.TestResponse
}

func NewMemory() *Memory {
	return &Memory{
		users:     make(map[string]*models.User),
		responses: make(map[string]*models.TestResponse),
	}
}

func (m *Memory) CreateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[user.ID]; exists {
		return ErrAlreadyExists
	}
	m.users[user.ID] = cloneUser(user)
	return nil
}

func (m *Memory) GetUser(_ context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneUser(u), nil
}

func (m *Memory) UpdateUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = cloneUser(user)
	return nil
}

func (m *Memory) SaveResponse(_ context.Context, resp *models.TestResponse) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[resp.UserID] = cloneResponse(resp)
	return nil
}

func (m *Memory) GetResponse(_ context.Context, userID string) (*models.TestResponse, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.responses[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneResponse(r), nil
}

func (m *Memory) Ping(context.Context) error { return nil }

func (m *Memory) Mode() string { return ModeMemory }
