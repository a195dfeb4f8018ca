package registry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/quartz"

	"github.com/mcoot/flip7/internal/model"
)

// ExpireFunc is called once for every session the reaper discards
type ExpireFunc func(code model.LobbyCode)

// Reaper periodically sweeps idle sessions out of a Registry
type Reaper struct {
	registry *Registry
	clock    quartz.Clock
	interval time.Duration
	logger   *slog.Logger

	mu        sync.Mutex
	listeners []ExpireFunc
	afterTick []func()
}

// NewReaper creates a Reaper that sweeps every interval
func NewReaper(registry *Registry, clk quartz.Clock, interval time.Duration, logger *slog.Logger) *Reaper {
	return &Reaper{
		registry: registry,
		clock:    clk,
		interval: interval,
		logger:   logger,
	}
}

// OnExpire registers a listener for expired sessions
func (r *Reaper) OnExpire(fn ExpireFunc) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}

// OnSweep registers a function to run after every sweep, expired or not
func (r *Reaper) OnSweep(fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.afterTick = append(r.afterTick, fn)
}

// Run sweeps on every tick until ctx is cancelled
func (r *Reaper) Run(ctx context.Context) error {
	ticker := r.clock.NewTicker(r.interval, "reaper")
	defer ticker.Stop()

	r.logger.Info("session reaper started", slog.Duration("interval", r.interval))
	for {
		select {
		case <-ctx.Done():
			r.logger.Info("session reaper stopped")
			return nil
		case <-ticker.C:
			r.Reap()
		}
	}
}

// Reap runs a single sweep and notifies listeners.
// Listeners run after the sessions are gone, outside any session lock.
func (r *Reaper) Reap() []model.LobbyCode {
	expired := r.registry.Sweep()

	r.mu.Lock()
	listeners := append([]ExpireFunc(nil), r.listeners...)
	afterTick := append([]func(){}, r.afterTick...)
	r.mu.Unlock()
	defer func() {
		for _, fn := range afterTick {
			fn()
		}
	}()

	if len(expired) == 0 {
		return nil
	}

	for _, code := range expired {
		r.logger.Info("session expired", slog.String("lobby_code", string(code)))
		for _, fn := range listeners {
			fn(code)
		}
	}
	return expired
}
