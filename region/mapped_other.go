//go:build !unix

package region

import (
	"errors"
	"os"
)

// Reserve allocates capacity bytes from the Go heap when mmap is not available.
func Reserve(capacity int) (*Mapped, error) {
	if err := checkCapacity(capacity); err != nil {
		return nil, err
	}
	return &Mapped{data: make([]byte, capacity)}, nil
}

// MapFile keeps the heap in memory and writes it to path on Sync and Close.
func MapFile(path string, capacity int) (*Mapped, error) {
	if err := checkCapacity(capacity); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, err
	}
	return &Mapped{data: make([]byte, capacity), f: f, path: path}, nil
}

// Sync writes [off, off+length) to the backing file.
func (m *Mapped) Sync(off, length int) error {
	if m.closed {
		return ErrClosed
	}
	if m.f == nil || length <= 0 {
		return nil
	}
	end := min(off+length, m.brk)
	if off < 0 || off >= end {
		return nil
	}
	_, err := m.f.WriteAt(m.data[off:end], int64(off))
	return err
}

// Close writes the heap up to the break and closes the file.
func (m *Mapped) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true
	if m.f == nil {
		m.data = nil
		return nil
	}
	_, werr := m.f.WriteAt(m.data[:m.brk], 0)
	m.data = nil
	return errors.Join(werr, m.f.Truncate(int64(m.brk)), m.f.Close())
}
