// Package trace reads allocation trace files and replays them against an
// alloc.Allocator while checking every result.
//
// # File Format
//
// A trace starts with four integers (suggested heap size, number of block
// ids, number of operations, weight) followed by one operation per line:
//
//	a <id> <size>   allocate size bytes and bind the block to id
//	r <id> <size>   reallocate the block bound to id
//	f <id>          free the block bound to id
//
// Blank lines and lines starting with # are ignored.
//
//	# two blocks, one grown
//	20000
//	2
//	5
//	1
//	a 0 512
//	a 1 128
//	r 0 640
//	f 1
//	f 0
//
// # Replay Checks
//
// Replay fills each payload with a pattern derived from the block id and
// verifies it before every realloc and free. Every returned block must be
// 8-byte aligned and must not overlap another live block. A violated check
// stops the replay with an error wrapping ErrMisaligned, ErrOverlap or
// ErrCorrupted. Allocation failures from the allocator are recorded in the
// Result and the replay continues.
package trace
