package dirty

// DirtyTracker is the minimal interface for reporting modified byte ranges.
// The allocator depends only on this; flushing is the owner's concern.
type DirtyTracker interface {
	// Add marks [off, off+length) as dirty.
	Add(off, length int)
}

// Syncer flushes a byte range to durable storage. region.Mapped and
// region.Memory implement it.
type Syncer interface {
	Sync(off, length int) error
}
