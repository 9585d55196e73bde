package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Probe checks a single dependency. A nil error means healthy.
type Probe func(ctx context.Context) error

// Status is a point-in-time snapshot of dependency health.
type Status struct {
	Services  map[string]bool `json:"services"`
	LastCheck time.Time       `json:"last_check"`
}

// Monitor runs registered dependency probes on a cron schedule and serves the
// latest snapshot to the health endpoint.
type Monitor struct {
	interval time.Duration
	logger   *zap.Logger
	cron     *cron.Cron

	mu     sync.RWMutex
	probes map[string]Probe
	status Status
}

// New creates a monitor probing every interval.
func New(interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Monitor{
		interval: interval,
		logger:   logger,
		cron:     cron.New(cron.WithSeconds()),
		probes:   make(map[string]Probe),
		status:   Status{Services: make(map[string]bool)},
	}

	schedule := fmt.Sprintf("@every %ds", int(interval.Seconds()))
	_, _ = m.cron.AddFunc(schedule, m.check)

	return m
}

// Register adds a named dependency probe. Registration before Start is not
// required; probes may be added while running.
func (m *Monitor) Register(name string, probe Probe) {
	if probe == nil {
		return
	}
	m.mu.Lock()
	m.probes[name] = probe
	m.mu.Unlock()
}

// Start performs an initial check and launches the scheduler.
func (m *Monitor) Start() {
	m.check()
	m.cron.Start()
}

// Stop halts the scheduler.
func (m *Monitor) Stop() {
	stopCtx := m.cron.Stop()
	<-stopCtx.Done()
}

// Healthy reports whether every registered dependency passed its last probe.
func (m *Monitor) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, ok := range m.status.Services {
		if !ok {
			return false
		}
	}
	return true
}

// GetStatus returns a copy of the latest snapshot.
func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	services := make(map[string]bool, len(m.status.Services))
	for name, ok := range m.status.Services {
		services[name] = ok
	}
	return Status{Services: services, LastCheck: m.status.LastCheck}
}

func (m *Monitor) check() {
	m.mu.RLock()
	probes := make(map[string]Probe, len(m.probes))
	for name, probe := range m.probes {
		probes[name] = probe
	}
	m.mu.RUnlock()

	results := make(map[string]bool, len(probes))
	for name, probe := range probes {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := probe(ctx)
		cancel()
		results[name] = err == nil
		if err != nil {
			m.logger.Warn("dependency probe failed", zap.String("service", name), zap.Error(err))
		}
	}

	m.mu.Lock()
	m.status = Status{Services: results, LastCheck: time.Now().UTC()}
	m.mu.Unlock()
}
