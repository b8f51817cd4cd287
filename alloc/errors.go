package alloc

import "errors"

var (
	// ErrInitFail indicates that the initial heap could not be laid out.
	ErrInitFail = errors.New("alloc: heap initialization failed")

	// ErrAlreadyInitialized indicates a second Init call.
	ErrAlreadyInitialized = errors.New("alloc: heap already initialized")

	// ErrNotInitialized indicates use of an allocator before a successful Init.
	ErrNotInitialized = errors.New("alloc: heap not initialized")

	// ErrNoSpace indicates that no free block was large enough and growth failed.
	ErrNoSpace = errors.New("alloc: no free block large enough")

	// ErrGrowFail indicates that extending the heap failed.
	ErrGrowFail = errors.New("alloc: grow failed")

	// ErrBadRef indicates a misaligned or out-of-heap block pointer.
	ErrBadRef = errors.New("alloc: bad block pointer")

	// ErrBadConfig indicates an invalid Config.
	ErrBadConfig = errors.New("alloc: invalid config")
)
