package buffer

import (
	"sync"
	"sync/atomic"

	"tattle/src/internal/core"
)

// DefaultCapacity bounds the number of records held between flushes. Chosen
// generously to absorb bursts while keeping memory bounded.
const DefaultCapacity = 16 * 1024

// Buffer is a capacity-bounded FIFO of log records, shared between the log
// interceptor (producer) and the flush scheduler (consumer). All access
// serializes through one mutex held for the shortest possible span.
type Buffer struct {
	mu       sync.Mutex
	records  []core.Record
	capacity int

	// Statistics
	totalAppended atomic.Uint64
	totalDropped  atomic.Uint64
}

// New creates a buffer with the given capacity, or DefaultCapacity if
// capacity is not positive.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Buffer{capacity: capacity}
}

// Append adds a record unless the buffer is full. Overflow drops the new
// arrival, never an already accepted record. Returns false on drop.
func (b *Buffer) Append(rec core.Record) bool {
	b.mu.Lock()
	if len(b.records) >= b.capacity {
		b.mu.Unlock()
		b.totalDropped.Add(1)
		return false
	}
	b.records = append(b.records, rec)
	b.mu.Unlock()

	b.totalAppended.Add(1)
	return true
}

// Len returns the current number of buffered records.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.records)
}

// Drain atomically removes and returns all buffered records in append order.
// No record is both returned and retained, and none is counted twice.
func (b *Buffer) Drain() []core.Record {
	b.mu.Lock()
	records := b.records
	b.records = nil
	b.mu.Unlock()
	return records
}

// Stats returns the lifetime append and drop counts.
func (b *Buffer) Stats() (appended, dropped uint64) {
	return b.totalAppended.Load(), b.totalDropped.Load()
}
