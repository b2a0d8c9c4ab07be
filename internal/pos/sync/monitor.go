package sync

import (
	"context"
	stdsync "sync"
	"time"

	"github.com/merchpoint/pos/internal/logging"
)

// Pinger probes remote reachability. Any error means offline.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Monitor watches connectivity on a ticker and reports transitions to its
// handler. It only emits on change, never on every probe.
type Monitor struct {
	pinger   Pinger
	interval time.Duration
	log      logging.Logger

	mu       stdsync.Mutex
	online   bool
	onChange func(ctx context.Context, online bool)
}

// NewMonitor returns a monitor probing with the given interval. The monitor
// starts offline; the first successful probe emits a went-online transition.
func NewMonitor(pinger Pinger, interval time.Duration, log logging.Logger) *Monitor {
	return &Monitor{pinger: pinger, interval: interval, log: log}
}

// OnChange registers the transition handler. Must be called before Run.
func (m *Monitor) OnChange(fn func(ctx context.Context, online bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = fn
}

// Online reports the last observed connectivity.
func (m *Monitor) Online() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Run probes immediately, then on every tick, until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	m.probe(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.probe(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (m *Monitor) probe(ctx context.Context) {
	err := m.pinger.Ping(ctx)
	online := err == nil

	m.mu.Lock()
	changed := m.online != online
	m.online = online
	fn := m.onChange
	m.mu.Unlock()

	if !changed {
		return
	}

	if online {
		m.log.Info(ctx, "went online")
	} else {
		m.log.Warn(ctx, "went offline", "error", err)
	}
	if fn != nil {
		fn(ctx, online)
	}
}
