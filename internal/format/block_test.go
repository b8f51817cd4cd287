package format

import (
	"errors"
	"testing"
)

func TestPackRoundTrip(t *testing.T) {
	w := Pack(24, true)
	if SizeOf(w) != 24 || !IsAllocated(w) {
		t.Fatalf("Pack(24,true) decoded to size=%d alloc=%v", SizeOf(w), IsAllocated(w))
	}
	w = Pack(4096, false)
	if SizeOf(w) != 4096 || IsAllocated(w) {
		t.Fatalf("Pack(4096,false) decoded to size=%d alloc=%v", SizeOf(w), IsAllocated(w))
	}
	if Pack(0, true) != 1 {
		t.Fatalf("epilogue word = %d, want 1", Pack(0, true))
	}
}

func TestAdjustSize(t *testing.T) {
	cases := []struct {
		in   uint32
		want uint32
	}{
		{1, 16},
		{7, 16},
		{8, 16},
		{9, 24},
		{16, 24},
		{17, 32},
		{50, 64},
		{100, 112},
		{200, 208},
		{4088, 4096},
	}
	for _, tc := range cases {
		got, ok := AdjustSize(tc.in)
		if !ok || got != tc.want {
			t.Errorf("AdjustSize(%d) = %d,%v want %d,true", tc.in, got, ok, tc.want)
		}
	}
	if _, ok := AdjustSize(^uint32(0)); ok {
		t.Fatalf("AdjustSize(MaxUint32) should overflow")
	}
	if _, ok := AdjustSize(MaxHeapSize); ok {
		t.Fatalf("AdjustSize(MaxHeapSize) should overflow")
	}
}

func TestWordsToBytes(t *testing.T) {
	if got := WordsToBytes(1); got != 8 {
		t.Fatalf("WordsToBytes(1) = %d, want 8", got)
	}
	if got := WordsToBytes(ChunkSize / WordSize); got != ChunkSize {
		t.Fatalf("WordsToBytes(chunk) = %d, want %d", got, ChunkSize)
	}
	if got := WordsToBytes(1025); got != 4104 {
		t.Fatalf("WordsToBytes(1025) = %d, want 4104", got)
	}
}

func TestNeighborArithmetic(t *testing.T) {
	b := make([]byte, 64)
	// two blocks: [8..24) allocated 16 bytes, [24..56) free 32 bytes
	PutBlock(b, 8, 16, true)
	PutBlock(b, 24, 32, false)
	PutEpilogue(b, HeaderOff(56))

	if FooterOff(b, 8) != 16 {
		t.Fatalf("FooterOff(8) = %d, want 16", FooterOff(b, 8))
	}
	if NextBlock(b, 8) != 24 {
		t.Fatalf("NextBlock(8) = %d, want 24", NextBlock(b, 8))
	}
	if PrevBlock(b, 24) != 8 {
		t.Fatalf("PrevBlock(24) = %d, want 8", PrevBlock(b, 24))
	}
	if !PrevAllocated(b, 24) {
		t.Fatalf("PrevAllocated(24) should be true")
	}
	if BlockAllocated(b, 24) {
		t.Fatalf("block at 24 should be free")
	}
	if BlockSize(b, 56) != 0 || !BlockAllocated(b, 56) {
		t.Fatalf("epilogue not decoded")
	}
}

func TestDecodeBlock(t *testing.T) {
	b := make([]byte, 64)
	PutBlock(b, 8, 24, true)
	PutEpilogue(b, HeaderOff(32))

	blk, next, err := DecodeBlock(b, 8)
	if err != nil {
		t.Fatalf("DecodeBlock: %v", err)
	}
	if blk.Size != 24 || !blk.Allocated || !blk.Consistent() {
		t.Fatalf("unexpected block: %+v", blk)
	}
	if blk.PayloadSize() != 16 {
		t.Fatalf("PayloadSize = %d, want 16", blk.PayloadSize())
	}
	if next != 32 {
		t.Fatalf("next = %d, want 32", next)
	}

	epi, after, err := DecodeBlock(b, 32)
	if err != nil || epi.Size != 0 || after != 32 {
		t.Fatalf("epilogue decode: %+v next=%d err=%v", epi, after, err)
	}
}

func TestDecodeBlockErrors(t *testing.T) {
	b := make([]byte, 32)
	PutU32(b, HeaderOff(8), Pack(12, false))
	if _, _, err := DecodeBlock(b, 8); !errors.Is(err, ErrMisaligned) {
		t.Fatalf("expected ErrMisaligned, got %v", err)
	}

	PutU32(b, HeaderOff(8), Pack(64, false))
	if _, _, err := DecodeBlock(b, 8); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated, got %v", err)
	}

	if _, _, err := DecodeBlock(b, 40); !errors.Is(err, ErrTruncated) {
		t.Fatalf("expected ErrTruncated past end, got %v", err)
	}

	PutBlock(b, 8, 16, false)
	PutU32(b, 16, Pack(16, true))
	blk, _, err := DecodeBlock(b, 8)
	if err != nil {
		t.Fatalf("DecodeBlock: %v", err)
	}
	if blk.Consistent() {
		t.Fatalf("footer rewritten as allocated should be inconsistent")
	}
}

func TestDecodeBlockStrayTagBits(t *testing.T) {
	tests := []struct {
		name     string
		hdr, ftr uint32
	}{
		{"header bit 2", Pack(32, true) | 0x4, Pack(32, true)},
		{"header bit 1", Pack(32, false) | 0x2, Pack(32, false)},
		{"footer bits", Pack(32, true), Pack(32, true) | 0x6},
		{"epilogue", Pack(0, true) | 0x4, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := make([]byte, 48)
			PutU32(b, HeaderOff(8), tt.hdr)
			PutU32(b, 8+32-DoubleWordSize, tt.ftr)
			if _, _, err := DecodeBlock(b, 8); !errors.Is(err, ErrMisaligned) {
				t.Fatalf("tags 0x%X/0x%X: expected ErrMisaligned, got %v", tt.hdr, tt.ftr, err)
			}
		})
	}
}
