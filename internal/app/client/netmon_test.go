package client

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProber struct {
	mu  sync.Mutex
	err error
}

func (p *fakeProber) HealthCheck(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.err
}

func (p *fakeProber) setErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

func TestNetworkMonitor_StartsOnline(t *testing.T) {
	m := NewNetworkMonitor(&fakeProber{}, time.Minute, testLogger())
	assert.True(t, m.IsOnline())
}

func TestNetworkMonitor_NotifiesOnTransitionOnly(t *testing.T) {
	m := NewNetworkMonitor(&fakeProber{}, time.Minute, testLogger())

	var mu sync.Mutex
	var calls []bool
	m.Subscribe(func(online bool) {
		mu.Lock()
		calls = append(calls, online)
		mu.Unlock()
	})

	m.SetOnline(true) // уже онлайн, перехода нет
	m.SetOnline(false)
	m.SetOnline(false) // повтор, перехода нет
	m.SetOnline(true)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []bool{false, true}, calls)
	assert.True(t, m.IsOnline())
}

func TestNetworkMonitor_ProbeFlipsState(t *testing.T) {
	prober := &fakeProber{}
	m := NewNetworkMonitor(prober, 10*time.Millisecond, testLogger())

	offline := make(chan struct{})
	online := make(chan struct{})
	var onceOff, onceOn sync.Once
	m.Subscribe(func(isOnline bool) {
		if isOnline {
			onceOn.Do(func() { close(online) })
		} else {
			onceOff.Do(func() { close(offline) })
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx)
	defer m.Stop()

	prober.setErr(errors.New("connection refused"))
	select {
	case <-offline:
	case <-time.After(2 * time.Second):
		t.Fatal("monitor never went offline")
	}
	assert.False(t, m.IsOnline())

	prober.setErr(nil)
	select {
	case <-online:
	case <-time.After(2 * time.Second):
		t.Fatal("monitor never came back online")
	}
	assert.True(t, m.IsOnline())
}

func TestNetworkMonitor_StopTerminatesLoop(t *testing.T) {
	m := NewNetworkMonitor(&fakeProber{}, 10*time.Millisecond, testLogger())

	m.Start(context.Background())

	done := make(chan struct{})
	go func() {
		m.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}

	require.True(t, m.IsOnline())
}
