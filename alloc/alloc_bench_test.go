package alloc

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/joshuapare/heapkit/region"
)

func newBenchAllocator(b *testing.B, cfg *Config) *ImplicitAllocator {
	b.Helper()
	a, err := New(region.NewMemory(1<<30), nil, cfg)
	if err != nil {
		b.Fatal(err)
	}
	if err := a.Init(); err != nil {
		b.Fatal(err)
	}
	return a
}

func BenchmarkAllocFree_Small(b *testing.B) {
	a := newBenchAllocator(b, nil)
	b.ReportAllocs()
	for b.Loop() {
		p, err := a.Alloc(32)
		if err != nil {
			b.Fatal(err)
		}
		if err := a.Free(p); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkAlloc_LongScan measures first fit behind many live blocks.
func BenchmarkAlloc_LongScan(b *testing.B) {
	for _, live := range []int{100, 1000} {
		b.Run(fmt.Sprintf("live=%d", live), func(b *testing.B) {
			a := newBenchAllocator(b, nil)
			for range live {
				if _, err := a.Alloc(24); err != nil {
					b.Fatal(err)
				}
			}
			for b.Loop() {
				p, err := a.Alloc(64)
				if err != nil {
					b.Fatal(err)
				}
				_ = a.Free(p)
			}
		})
	}
}

func BenchmarkRealloc_Grow(b *testing.B) {
	a := newBenchAllocator(b, nil)
	for b.Loop() {
		p, err := a.Alloc(16)
		if err != nil {
			b.Fatal(err)
		}
		for size := uint32(32); size <= 4096; size *= 2 {
			if p, err = a.Realloc(p, size); err != nil {
				b.Fatal(err)
			}
		}
		_ = a.Free(p)
	}
}

func BenchmarkRandomWorkload(b *testing.B) {
	for _, cfg := range []*Config{&DefaultConfig, &ConfigStrictSplit} {
		b.Run(cfg.Name, func(b *testing.B) {
			a := newBenchAllocator(b, cfg)
			rng := rand.New(rand.NewSource(1))
			live := make([]Ptr, 0, 1024)
			for b.Loop() {
				if len(live) < 512 || rng.Intn(2) == 0 {
					p, err := a.Alloc(uint32(1 + rng.Intn(1024)))
					if err != nil {
						b.Fatal(err)
					}
					live = append(live, p)
					continue
				}
				i := rng.Intn(len(live))
				_ = a.Free(live[i])
				live[i] = live[len(live)-1]
				live = live[:len(live)-1]
			}
		})
	}
}
