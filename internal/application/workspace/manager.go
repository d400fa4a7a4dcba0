package workspace

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Manager hands out one workspace per identity. A session's workspace lives
// until Release (logout) or shutdown.
type Manager struct {
	gateway  Gateway
	logger   *logrus.Logger
	debounce time.Duration

	mu         sync.Mutex
	workspaces map[string]*Workspace
}

func NewManager(gw Gateway, logger *logrus.Logger, debounce time.Duration) *Manager {
	return &Manager{
		gateway:    gw,
		logger:     logger,
		debounce:   debounce,
		workspaces: make(map[string]*Workspace),
	}
}

// Workspace returns the workspace for ownerID, creating it on first use.
func (m *Manager) Workspace(ownerID string) *Workspace {
	m.mu.Lock()
	defer m.mu.Unlock()
	if ws, ok := m.workspaces[ownerID]; ok {
		return ws
	}
	ws := New(ownerID, m.gateway, m.logger, m.debounce)
	m.workspaces[ownerID] = ws
	return ws
}

// Release flushes and closes the identity's workspace. Pending edits are
// persisted best-effort; the caller stops depending on the result.
func (m *Manager) Release(ctx context.Context, ownerID string) {
	m.mu.Lock()
	ws, ok := m.workspaces[ownerID]
	delete(m.workspaces, ownerID)
	m.mu.Unlock()
	if !ok {
		return
	}
	if err := ws.Flush(ctx); err != nil && m.logger != nil {
		m.logger.WithError(err).WithField("owner_id", ownerID).Warn("flush on release failed")
	}
	ws.Close()
}

// Shutdown flushes and closes every workspace.
func (m *Manager) Shutdown(ctx context.Context) {
	m.mu.Lock()
	all := make([]*Workspace, 0, len(m.workspaces))
	for _, ws := range m.workspaces {
		all = append(all, ws)
	}
	m.workspaces = make(map[string]*Workspace)
	m.mu.Unlock()

	for _, ws := range all {
		if err := ws.Flush(ctx); err != nil && m.logger != nil {
			m.logger.WithError(err).WithField("owner_id", ws.OwnerID()).Warn("flush on shutdown failed")
		}
		ws.Close()
	}
}
