// Package monitor periodically probes the database and keeps the last result
// for the health endpoint.
package monitor

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/product-catalog/internal/config"
	"github.com/robfig/cron/v3"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// Status is the outcome of the most recent probe.
type Status struct {
	OK        bool       `json:"ok"`
	CheckedAt *time.Time `json:"checked_at,omitempty"`
	Error     string     `json:"error,omitempty"`
}

// HealthMonitor runs Check on a cron schedule.
type HealthMonitor struct {
	cron     *cron.Cron
	db       Pinger
	schedule string
	timeout  time.Duration
	log      *slog.Logger

	mu      sync.RWMutex
	running bool
	entryID cron.EntryID
	status  Status
	cancel  context.CancelFunc
}

func NewHealthMonitor(db Pinger, cfg config.HealthConfig, log *slog.Logger) *HealthMonitor {
	return &HealthMonitor{
		cron:     cron.New(cron.WithSeconds()),
		db:       db,
		schedule: cfg.Schedule,
		timeout:  cfg.CheckTimeout,
		log:      log,
	}
}

// Start runs one check immediately and then schedules the rest.
func (m *HealthMonitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		return nil
	}

	checkCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	entryID, err := m.cron.AddFunc(m.schedule, func() {
		m.Check(checkCtx)
	})
	if err != nil {
		cancel()
		return fmt.Errorf("invalid health check schedule '%s': %w", m.schedule, err)
	}
	m.entryID = entryID

	m.cron.Start()
	m.running = true

	go m.Check(checkCtx)

	m.log.Info("health monitor started", "schedule", m.schedule)
	return nil
}

// Stop stops the monitor and waits for a running check to finish.
func (m *HealthMonitor) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	m.cancel()
	m.cron.Remove(m.entryID)
	m.running = false
	m.mu.Unlock()

	// a running check takes mu to record its result, so wait unlocked
	<-m.cron.Stop().Done()
	m.log.Info("health monitor stopped")
}

// Check pings the database once and records the result.
func (m *HealthMonitor) Check(ctx context.Context) Status {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	now := time.Now().UTC()
	status := Status{OK: true, CheckedAt: &now}
	if err := m.db.Ping(ctx); err != nil {
		status.OK = false
		status.Error = err.Error()
		m.log.Warn("database health check failed", "error", err)
	}

	m.mu.Lock()
	m.status = status
	m.mu.Unlock()

	return status
}

// Status returns the last recorded probe result.
func (m *HealthMonitor) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *HealthMonitor) IsRunning() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.running
}

// NextCheck returns when the next scheduled probe runs, or nil when stopped.
func (m *HealthMonitor) NextCheck() *time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if !m.running {
		return nil
	}
	entry := m.cron.Entry(m.entryID)
	if entry.Next.IsZero() {
		return nil
	}
	return &entry.Next
}
