// Package cache holds reports shared across targets. Mail servers are often
// reached through several domains, so a report for "host:port" is computed
// once and reused. The first report written for a key wins and is never
// replaced: later scans of the same host may have tripped rate limiting or
// blocking on the target and are less reliable.
package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jphoke/tlsinspect/pkg/config"
	"github.com/jphoke/tlsinspect/pkg/report"
)

// ErrNotFound is returned by Get when no report is stored for a key.
var ErrNotFound = errors.New("report not cached")

type Cache interface {
	Get(ctx context.Context, key string) (*report.Report, error)
	// PutIfAbsent stores rep under key unless a report is already there.
	// It reports whether rep was stored.
	PutIfAbsent(ctx context.Context, key string, rep *report.Report) (bool, error)
	Close() error
}

// New returns the backend selected by cfg.Cache.Backend.
func New(ctx context.Context, cfg *config.Config) (Cache, error) {
	switch cfg.Cache.Backend {
	case "", "memory":
		return NewMemory(), nil
	case "redis":
		return NewRedis(ctx, cfg.Redis, cfg.Cache.TTL)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

// Memory is an in-process Cache.
type Memory struct {
	mu      sync.RWMutex
	reports map[string]*report.Report
}

func NewMemory() *Memory {
	return &Memory{reports: make(map[string]*report.Report)}
}

func (m *Memory) Get(_ context.Context, key string) (*report.Report, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	rep, ok := m.reports[key]
	if !ok {
		return nil, ErrNotFound
	}
	return rep, nil
}

func (m *Memory) PutIfAbsent(_ context.Context, key string, rep *report.Report) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.reports[key]; ok {
		return false, nil
	}
	m.reports[key] = rep
	return true, nil
}

// Len returns the number of cached reports.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.reports)
}

func (m *Memory) Close() error { return nil }
