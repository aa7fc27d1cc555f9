package pollers

import (
	"context"
	"sort"
	"sync"

	"github.com/rmitchellscott/ditherbox/internal/logging"
)

// Manager manages multiple pollers
type Manager struct {
	pollers map[string]Poller
	mu      sync.RWMutex
	running bool
}

// NewManager creates a new poller manager
func NewManager() *Manager {
	return &Manager{
		pollers: make(map[string]Poller),
	}
}

// Register adds a poller to the manager
func (m *Manager) Register(poller Poller) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pollers[poller.Name()] = poller
}

// Start starts all registered pollers
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}
	m.running = true

	logging.InfoWithComponent(logging.ComponentPollers, "Starting pollers", "count", len(m.pollers))
	for name, poller := range m.pollers {
		if err := poller.Start(ctx); err != nil {
			logging.ErrorWithComponent(logging.ComponentPollers, "Failed to start poller", "poller", name, "error", err)
		}
	}
	return nil
}

// Stop stops all pollers and waits for their loops to exit
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return nil
	}

	var wg sync.WaitGroup
	for name, poller := range m.pollers {
		if !poller.IsRunning() {
			continue
		}
		wg.Add(1)
		go func(name string, p Poller) {
			defer wg.Done()
			if err := p.Stop(); err != nil {
				logging.ErrorWithComponent(logging.ComponentPollers, "Error stopping poller", "poller", name, "error", err)
			}
		}(name, poller)
	}
	wg.Wait()
	m.running = false

	logging.InfoWithComponent(logging.ComponentPollers, "All pollers stopped")
	return nil
}

// GetPoller returns a poller by name
func (m *Manager) GetPoller(name string) (Poller, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	poller, exists := m.pollers[name]
	return poller, exists
}

// ListPollers returns all registered poller names in sorted order
func (m *Manager) ListPollers() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.pollers))
	for name := range m.pollers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsRunning returns true if the manager is running
func (m *Manager) IsRunning() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.running
}
