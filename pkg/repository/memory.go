package repository

import (
	"context"
	"sync"
)

// MemoryRepository keeps values in process. It is also a Signal, so several
// stores opened on one MemoryRepository behave like tabs of one origin.
type MemoryRepository struct {
	mu       sync.RWMutex
	values   map[string]string
	failing  error
	readErr  error
	nextID   int
	handlers map[int]func(Change)
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		values:   make(map[string]string),
		handlers: make(map[int]func(Change)),
	}
}

func (m *MemoryRepository) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.readErr != nil {
		return "", m.readErr
	}
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryRepository) Set(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing != nil {
		return m.failing
	}
	m.values[key] = value
	return nil
}

func (m *MemoryRepository) Del(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing != nil {
		return m.failing
	}
	delete(m.values, key)
	return nil
}

// FailWrites makes every following Set and Del return err, simulating a
// full or unavailable storage area. A nil err restores normal writes.
func (m *MemoryRepository) FailWrites(err error) {
	m.mu.Lock()
	m.failing = err
	m.mu.Unlock()
}

// FailReads makes every following Get return err, simulating a backend that
// is unreachable. A nil err restores normal reads.
func (m *MemoryRepository) FailReads(err error) {
	m.mu.Lock()
	m.readErr = err
	m.mu.Unlock()
}

func (m *MemoryRepository) Publish(ctx context.Context, change Change) error {
	m.mu.RLock()
	handlers := make([]func(Change), 0, len(m.handlers))
	for _, h := range m.handlers {
		handlers = append(handlers, h)
	}
	m.mu.RUnlock()

	for _, h := range handlers {
		h(change)
	}
	return nil
}

func (m *MemoryRepository) Subscribe(ctx context.Context, handler func(Change)) (func(), error) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.handlers[id] = handler
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.handlers, id)
		m.mu.Unlock()
	}, nil
}

func (m *MemoryRepository) Close() error {
	return nil
}
