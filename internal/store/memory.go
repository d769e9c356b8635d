package store

import (
	"context"
	"sync"

	"dmmap/internal/geom"
)

type Memory struct {
	mu  sync.RWMutex
	pts []geom.Point
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Put(_ context.Context, pts []geom.Point) error {
	cp := make([]geom.Point, len(pts))
	copy(cp, pts)
	m.mu.Lock()
	m.pts = cp
	m.mu.Unlock()
	return nil
}

func (m *Memory) Get(_ context.Context) ([]geom.Point, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]geom.Point, len(m.pts))
	copy(out, m.pts)
	return out, nil
}

func (m *Memory) Close() error { return nil }
