// Package store provides the bounded calculation history log.
package store

// DefaultCapacity is the number of entries a history keeps.
const DefaultCapacity = 20

// Entry is one completed calculation. Entries are never modified once
// appended.
type Entry struct {
	Expression string
	Result     float64
}

// History is an append-only log that evicts its oldest entries once it
// holds more than its capacity.
type History interface {
	// Append adds e at the tail, evicting from the head past capacity.
	Append(e Entry) error
	// Entries returns the log oldest first.
	Entries() ([]Entry, error)
	// Clear removes every entry.
	Clear() error
	// Close releases resources.
	Close() error
}

func normalizeCapacity(capacity int) int {
	if capacity <= 0 {
		return DefaultCapacity
	}
	return capacity
}
