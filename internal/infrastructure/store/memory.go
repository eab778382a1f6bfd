// Package store holds the local implementations of ports.CredentialStore.
package store

import (
	"context"
	"sync"

	"github.com/cdportal/admin-console/internal/core/ports"
)

// Memory is a process-local credential store. Nothing survives a restart.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

var _ ports.CredentialStore = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	m.data[key] = value
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	for _, k := range keys {
		delete(m.data, k)
	}
	m.mu.Unlock()
	return nil
}
