//go:build unix

package region

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Reserve maps capacity bytes of anonymous private memory and returns an
// empty region over it. Pages are committed lazily by the kernel as the break
// reaches them.
func Reserve(capacity int) (*Mapped, error) {
	if err := checkCapacity(capacity); err != nil {
		return nil, err
	}
	data, err := unix.Mmap(-1, 0, capacity, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	if err != nil {
		return nil, fmt.Errorf("region: reserve %d bytes: %w", capacity, err)
	}
	return &Mapped{data: data}, nil
}

// MapFile creates (or truncates) the file at path, sizes it to capacity and
// maps it shared. Writes through Bytes reach the file; Sync flushes ranges and
// Close truncates the file to the break.
func MapFile(path string, capacity int) (*Mapped, error) {
	if err := checkCapacity(capacity); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return nil, err
	}
	if err := f.Truncate(int64(capacity)); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("region: size %s: %w", path, err)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, capacity, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("region: map %s: %w", path, err)
	}
	return &Mapped{data: data, f: f, path: path}, nil
}

// Sync flushes [off, off+length) to the backing file with msync(2). The start
// is rounded down to a page boundary. Anonymous regions have nothing to flush.
func (m *Mapped) Sync(off, length int) error {
	if m.closed {
		return ErrClosed
	}
	if m.f == nil || length <= 0 {
		return nil
	}
	pageSize := unix.Getpagesize()
	start := off &^ (pageSize - 1)
	end := min(off+length, m.brk)
	if start < 0 || start >= end {
		return nil
	}
	return unix.Msync(m.data[start:end], unix.MS_SYNC)
}

// Close unmaps the reservation. File-backed regions are flushed and the file
// is truncated to the break.
func (m *Mapped) Close() error {
	if m.closed {
		return nil
	}
	m.closed = true

	var errs []error
	if m.f != nil && m.brk > 0 {
		errs = append(errs, unix.Msync(m.data[:m.brk], unix.MS_SYNC))
	}
	errs = append(errs, unix.Munmap(m.data))
	m.data = nil
	if m.f != nil {
		errs = append(errs, m.f.Truncate(int64(m.brk)), m.f.Close())
	}
	return errors.Join(errs...)
}
