package pollers

import (
	"context"
	"sync"
	"time"

	"github.com/rmitchellscott/ditherbox/internal/logging"
)

// BasePoller runs pollFunc once on start and then every interval.
type BasePoller struct {
	config   PollerConfig
	running  bool
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	mu       sync.RWMutex
	pollFunc func(ctx context.Context) error
}

// NewBasePoller creates a new base poller instance
func NewBasePoller(config PollerConfig, pollFunc func(ctx context.Context) error) *BasePoller {
	return &BasePoller{
		config:   config,
		pollFunc: pollFunc,
	}
}

// Name returns the name of the poller
func (p *BasePoller) Name() string {
	return p.config.Name
}

// Start begins the polling loop
func (p *BasePoller) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return nil
	}
	if !p.config.Enabled {
		logging.InfoWithComponent(logging.ComponentPollers, "Poller disabled, skipping start", "poller", p.config.Name)
		return nil
	}

	logging.DebugWithComponent(logging.ComponentPollers, "Starting poller",
		"poller", p.config.Name, "interval", p.config.Interval)

	loopCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.running = true

	p.wg.Add(1)
	go p.pollLoop(loopCtx)
	return nil
}

// Stop gracefully stops the poller
func (p *BasePoller) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return nil
	}

	p.cancel()
	p.wg.Wait()
	p.running = false

	logging.DebugWithComponent(logging.ComponentPollers, "Poller stopped", "poller", p.config.Name)
	return nil
}

// IsRunning returns true if the poller is currently running
func (p *BasePoller) IsRunning() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.running
}

// GetInterval returns the polling interval
func (p *BasePoller) GetInterval() time.Duration {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.config.Interval
}

func (p *BasePoller) pollLoop(ctx context.Context) {
	defer p.wg.Done()

	p.execute(ctx)

	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.execute(ctx)
		}
	}
}

func (p *BasePoller) execute(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	runCtx := ctx
	if p.config.Timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, p.config.Timeout)
		defer cancel()
	}

	if err := p.pollFunc(runCtx); err != nil {
		logging.ErrorWithComponent(logging.ComponentPollers, "Poll failed",
			"poller", p.config.Name, "error", err)
	}
}
