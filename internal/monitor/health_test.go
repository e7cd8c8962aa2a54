package monitor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/product-catalog/internal/config"
	"github.com/product-catalog/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePinger struct {
	calls atomic.Int32
	err   error
}

func (f *fakePinger) Ping(ctx context.Context) error {
	f.calls.Add(1)
	return f.err
}

func TestCheck_RecordsOutcome(t *testing.T) {
	p := &fakePinger{}
	m := NewHealthMonitor(p, config.HealthConfig{Schedule: "@every 1h", CheckTimeout: time.Second}, logging.Discard())

	assert.False(t, m.Status().OK)
	assert.Nil(t, m.Status().CheckedAt)

	status := m.Check(context.Background())
	assert.True(t, status.OK)
	require.NotNil(t, status.CheckedAt)
	assert.Equal(t, status, m.Status())

	p.err = errors.New("connection refused")
	status = m.Check(context.Background())
	assert.False(t, status.OK)
	assert.Equal(t, "connection refused", status.Error)
}

func TestStartStop(t *testing.T) {
	p := &fakePinger{}
	m := NewHealthMonitor(p, config.HealthConfig{Schedule: "@every 1h"}, logging.Discard())

	require.NoError(t, m.Start(context.Background()))
	require.NoError(t, m.Start(context.Background()))
	assert.True(t, m.IsRunning())
	assert.NotNil(t, m.NextCheck())

	assert.Eventually(t, func() bool { return p.calls.Load() >= 1 }, time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return m.Status().OK }, time.Second, 10*time.Millisecond)

	m.Stop()
	m.Stop()
	assert.False(t, m.IsRunning())
	assert.Nil(t, m.NextCheck())
}

func TestStart_InvalidSchedule(t *testing.T) {
	m := NewHealthMonitor(&fakePinger{}, config.HealthConfig{Schedule: "not a schedule"}, logging.Discard())

	err := m.Start(context.Background())
	require.Error(t, err)
	assert.False(t, m.IsRunning())
}
