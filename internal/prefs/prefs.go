package prefs

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/glintwash/glintwash-client/pkg/session"
	"github.com/glintwash/glintwash-client/pkg/types"
)

// Manager holds the small user preferences the web front end keeps next to
// the session: theme, selected branch, selected vehicle model. Values are
// mirrored to the session store on every change.
type Manager struct {
	store session.Store

	mu           sync.RWMutex
	theme        string
	branch       *types.Branch
	vehicleModel string
}

func NewManager(store session.Store) (*Manager, error) {
	if store == nil {
		return nil, fmt.Errorf("session store is required")
	}
	return &Manager{store: store, theme: "light"}, nil
}

// Hydrate restores preferences from the store; missing or corrupt entries
// fall back to defaults.
func (m *Manager) Hydrate(ctx context.Context) error {
	if theme, err := m.store.Get(ctx, session.KeyTheme); err == nil && theme != "" {
		m.mu.Lock()
		m.theme = theme
		m.mu.Unlock()
	}

	var branch types.Branch
	if err := session.LoadJSON(ctx, m.store, session.KeySelectedBranch, &branch); err == nil {
		m.mu.Lock()
		m.branch = &branch
		m.mu.Unlock()
	} else if !errors.Is(err, session.ErrNotFound) {
		return err
	}

	if model, err := m.store.Get(ctx, session.KeySelectedVehicleModel); err == nil {
		m.mu.Lock()
		m.vehicleModel = model
		m.mu.Unlock()
	}
	return nil
}

func (m *Manager) Theme() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.theme
}

func (m *Manager) SetTheme(ctx context.Context, theme string) error {
	m.mu.Lock()
	m.theme = theme
	m.mu.Unlock()
	return m.store.Set(ctx, session.KeyTheme, theme)
}

// SelectedBranch returns the branch chosen for pickup, nil when unset.
func (m *Manager) SelectedBranch() *types.Branch {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.branch == nil {
		return nil
	}
	branch := *m.branch
	return &branch
}

func (m *Manager) SetSelectedBranch(ctx context.Context, branch types.Branch) error {
	m.mu.Lock()
	m.branch = &branch
	m.mu.Unlock()
	return session.SaveJSON(ctx, m.store, session.KeySelectedBranch, branch)
}

func (m *Manager) SelectedVehicleModel() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.vehicleModel
}

func (m *Manager) SetSelectedVehicleModel(ctx context.Context, model string) error {
	m.mu.Lock()
	m.vehicleModel = model
	m.mu.Unlock()
	return m.store.Set(ctx, session.KeySelectedVehicleModel, model)
}
