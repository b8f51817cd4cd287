package region

import (
	"fmt"
	"os"
)

// Mapped is a region carved out of a single up-front reservation. The break
// moves inside the reservation, so Bytes never changes its backing array and
// slices into it stay valid for the life of the region.
type Mapped struct {
	data   []byte // whole reservation
	brk    int
	f      *os.File // nil for anonymous reservations
	path   string
	closed bool
}

// Sbrk implements Region.
func (m *Mapped) Sbrk(incr int) (int, error) {
	if m.closed {
		return -1, ErrClosed
	}
	if incr < 0 {
		return -1, ErrBadIncrement
	}
	old := m.brk
	if incr > len(m.data)-old {
		return -1, fmt.Errorf("%w: break=%d incr=%d capacity=%d", ErrExhausted, old, incr, len(m.data))
	}
	m.brk += incr
	return old, nil
}

// Bytes implements Region.
func (m *Mapped) Bytes() []byte {
	if m.closed {
		return nil
	}
	return m.data[:m.brk]
}

// Len implements Region.
func (m *Mapped) Len() int { return m.brk }

// Cap returns the size of the reservation.
func (m *Mapped) Cap() int { return len(m.data) }

// Path returns the backing file path, or "" for anonymous reservations.
func (m *Mapped) Path() string { return m.path }

func checkCapacity(capacity int) error {
	if capacity <= 0 {
		return fmt.Errorf("region: invalid capacity %d", capacity)
	}
	return nil
}

// Compile-time interface checks
var (
	_ Region = (*Mapped)(nil)
	_ Syncer = (*Mapped)(nil)
)
