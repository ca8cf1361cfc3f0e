package store

import "sync"

// Memory is an in-memory history.
type Memory struct {
	mu       sync.RWMutex
	entries  []Entry
	capacity int
}

// NewMemory creates an in-memory history holding at most capacity entries.
// A non-positive capacity selects DefaultCapacity.
func NewMemory(capacity int) *Memory {
	capacity = normalizeCapacity(capacity)
	return &Memory{
		entries:  make([]Entry, 0, capacity),
		capacity: capacity,
	}
}

// Capacity returns the maximum number of entries kept.
func (m *Memory) Capacity() int {
	return m.capacity
}

// Append adds e, dropping the oldest entry when full.
func (m *Memory) Append(e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.entries) == m.capacity {
		copy(m.entries, m.entries[1:])
		m.entries = m.entries[:len(m.entries)-1]
	}
	m.entries = append(m.entries, e)
	return nil
}

// Entries returns a copy of the log, oldest first.
func (m *Memory) Entries() ([]Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out, nil
}

// Clear removes every entry.
func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = m.entries[:0]
	return nil
}

// Close is a no-op for the memory history.
func (m *Memory) Close() error {
	return nil
}
