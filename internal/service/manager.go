// File: internal/service/manager.go
package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Svel26/VIO/internal/config"
)

// Manager hosts independent agent sessions. Sessions share no state, so the
// manager imposes no global serialization; each session's engine enforces the
// one-active-cycle rule internally.
type Manager struct {
	cfg     *config.Config
	factory ComponentFactory
	logger  *zap.Logger

	mu       sync.Mutex
	sessions map[string]*Components
}

// NewManager creates a session manager.
func NewManager(cfg *config.Config, factory ComponentFactory, logger *zap.Logger) *Manager {
	return &Manager{
		cfg:      cfg,
		factory:  factory,
		logger:   logger.Named("service"),
		sessions: make(map[string]*Components),
	}
}

// StartSession builds a new component stack and registers it. The returned id
// identifies the session for Get and Close.
func (m *Manager) StartSession() (string, *Components, error) {
	comps, err := m.factory.Create(m.cfg, m.logger)
	if err != nil {
		return "", nil, fmt.Errorf("start session: %w", err)
	}
	id := comps.Engine.SessionID()

	m.mu.Lock()
	m.sessions[id] = comps
	m.mu.Unlock()

	m.logger.Info("Session started.", zap.String("session_id", id))
	return id, comps, nil
}

// Get returns a registered session's components.
func (m *Manager) Get(id string) (*Components, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	comps, ok := m.sessions[id]
	return comps, ok
}

// Close removes a session. The session's history dies with it.
func (m *Manager) Close(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
	m.logger.Info("Session closed.", zap.String("session_id", id))
}

// RunAll starts one agent run per registered session and waits for all of
// them. Errors are collected rather than cancelling sibling sessions: one
// agent hitting a contract error must not take down unrelated sessions.
func (m *Manager) RunAll(ctx context.Context) []error {
	m.mu.Lock()
	comps := make([]*Components, 0, len(m.sessions))
	for _, c := range m.sessions {
		comps = append(comps, c)
	}
	m.mu.Unlock()

	var wg sync.WaitGroup
	errCh := make(chan error, len(comps))
	for _, c := range comps {
		if c.Decider == nil {
			errCh <- fmt.Errorf("session %s: no oracle configured, set VIO_ORACLE_API_KEY", c.Engine.SessionID())
			continue
		}
		wg.Add(1)
		go func(c *Components) {
			defer wg.Done()
			if err := c.Engine.Run(ctx, c.Decider, c.Sink); err != nil {
				errCh <- fmt.Errorf("session %s: %w", c.Engine.SessionID(), err)
			}
		}(c)
	}
	wg.Wait()
	close(errCh)

	var errs []error
	for err := range errCh {
		errs = append(errs, err)
	}
	return errs
}
