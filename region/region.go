package region

import "fmt"

// Region is a contiguous byte range with a movable break.
type Region interface {
	// Sbrk moves the break forward by incr bytes and returns the offset of the
	// old break, which is where the new bytes begin. On failure the break is
	// unchanged and the error wraps ErrExhausted.
	Sbrk(incr int) (int, error)

	// Bytes returns the bytes from offset 0 up to the current break.
	Bytes() []byte

	// Len returns the current break.
	Len() int
}

// Syncer flushes a byte range of a region to its backing store.
type Syncer interface {
	Sync(off, length int) error
}

// Memory is a slice-backed region. Growth appends to the slice, so the
// backing array may move; re-read Bytes after every Sbrk.
type Memory struct {
	data  []byte
	limit int
}

// defaultInitialCap is the starting capacity of a Memory region.
const defaultInitialCap = 64 * 1024

// NewMemory creates an empty Memory region that refuses to grow past limit bytes.
func NewMemory(limit int) *Memory {
	return &Memory{
		data:  make([]byte, 0, min(limit, defaultInitialCap)),
		limit: limit,
	}
}

// Sbrk implements Region.
func (m *Memory) Sbrk(incr int) (int, error) {
	if incr < 0 {
		return -1, ErrBadIncrement
	}
	old := len(m.data)
	if incr > m.limit-old {
		return -1, fmt.Errorf("%w: break=%d incr=%d limit=%d", ErrExhausted, old, incr, m.limit)
	}
	m.data = append(m.data, make([]byte, incr)...)
	return old, nil
}

// Bytes implements Region.
func (m *Memory) Bytes() []byte { return m.data }

// Len implements Region.
func (m *Memory) Len() int { return len(m.data) }

// Limit returns the maximum break.
func (m *Memory) Limit() int { return m.limit }

// Sync is a no-op; Memory has no backing store.
func (m *Memory) Sync(off, length int) error { return nil }

// Compile-time interface checks
var (
	_ Region = (*Memory)(nil)
	_ Syncer = (*Memory)(nil)
)
