package desktop

import (
	"context"
	"sync"
)

// Manager serializes layout changes and keeps the shared z-order stack in
// step with whatever has been persisted.
type Manager struct {
	mu    sync.Mutex
	store *Store
	stack *Stack
}

func NewManager(store *Store) *Manager {
	return &Manager{store: store, stack: NewStack()}
}

// Get loads a session's layout.
func (m *Manager) Get(ctx context.Context, sessionID string) (*Layout, error) {
	l, err := m.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	m.stack.Observe(l.MaxZ())
	return l, nil
}

// Update loads the layout, applies fn and saves the result. Nothing is saved
// when fn fails.
func (m *Manager) Update(ctx context.Context, sessionID string, fn func(*Layout, *Stack) error) (*Layout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	l, err := m.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := fn(l, m.stack); err != nil {
		return nil, err
	}
	if err := m.store.Save(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}
