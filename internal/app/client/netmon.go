package client

import (
	"context"
	"sync"
	"time"

	"golang.org/x/exp/slog"
)

// Prober проверяет доступность сервера
type Prober interface {
	HealthCheck(ctx context.Context) error
}

// NetworkMonitor периодически опрашивает сервер и отслеживает
// переходы офлайн/онлайн. При восстановлении связи уведомляет
// подписчиков, что запускает обработку отложенной очереди.
type NetworkMonitor struct {
	prober   Prober
	log      *slog.Logger
	interval time.Duration

	mu     sync.RWMutex
	online bool
	subs   []func(online bool)

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func NewNetworkMonitor(prober Prober, interval time.Duration, log *slog.Logger) *NetworkMonitor {
	return &NetworkMonitor{
		prober:   prober,
		log:      log.With("component", "netmon"),
		interval: interval,
		online:   true,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// IsOnline возвращает последнее известное состояние сети
func (m *NetworkMonitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.online
}

// Subscribe регистрирует обработчик смены состояния сети.
// Вызывается только на переходах, не на каждой проверке.
func (m *NetworkMonitor) Subscribe(fn func(online bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// SetOnline выставляет состояние вручную и уведомляет подписчиков
// при переходе. Используется при явном переключении режима.
func (m *NetworkMonitor) SetOnline(online bool) {
	m.mu.Lock()
	changed := m.online != online
	m.online = online
	subs := make([]func(bool), len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	if !changed {
		return
	}

	if online {
		m.log.Info("Связь с сервером восстановлена")
	} else {
		m.log.Warn("Связь с сервером потеряна")
	}

	for _, fn := range subs {
		fn(online)
	}
}

// Start запускает фоновый цикл проверки доступности сервера
func (m *NetworkMonitor) Start(ctx context.Context) {
	go func() {
		defer close(m.done)

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-m.stop:
				return
			case <-ticker.C:
				m.probe(ctx)
			}
		}
	}()
}

// Stop останавливает фоновый цикл
func (m *NetworkMonitor) Stop() {
	m.stopOnce.Do(func() {
		close(m.stop)
	})
	<-m.done
}

func (m *NetworkMonitor) probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, m.interval)
	defer cancel()

	err := m.prober.HealthCheck(probeCtx)
	if err != nil {
		m.log.Debug("Проверка доступности сервера не прошла", "error", err)
	}
	m.SetOnline(err == nil)
}
