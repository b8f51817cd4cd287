// Package mmfile maps heap image files read-only for inspection.
package mmfile

import "sync"

// Image is a read-only view of a heap image file.
type Image struct {
	data    []byte
	release func() error
	once    sync.Once
	err     error
}

// Bytes returns the image contents. The slice is invalid after Close.
func (im *Image) Bytes() []byte { return im.data }

// Len returns the image size in bytes.
func (im *Image) Len() int { return len(im.data) }

// Close releases the mapping. Calling Close more than once is safe.
func (im *Image) Close() error {
	im.once.Do(func() {
		if im.release != nil {
			im.err = im.release()
		}
		im.data = nil
	})
	return im.err
}
