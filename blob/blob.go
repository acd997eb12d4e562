package blob

import (
	"bytes"

	"github.com/zeebo/xxh3"
)

// T is an append-only store for variable length data referenced by fixed
// size instruction records. Offsets are absolute within the blob, increase
// monotonically, and are never reused or invalidated. Identical payloads
// with identical alignment are stored once.
//
// The zero value is an empty blob.
type T struct {
	_ [0]func() // no equality

	buf   []byte
	cache map[uint64][]uint32
}

func (t *T) Len() uint32 { return uint32(len(t.buf)) }

// Bytes returns the accumulated blob. The returned slice is owned by the
// blob and remains valid across later appends only up to its length.
func (t *T) Bytes() []byte { return t.buf }

// Append stores p and returns its offset.
func (t *T) Append(p []byte) uint32 { return t.AppendAligned(p, 1) }

// AppendAligned stores p at a multiple of align and returns its offset.
// align must be a power of two.
func (t *T) AppendAligned(p []byte, align uint32) uint32 {
	h := xxh3.Hash(p)
	for _, off := range t.cache[h] {
		if off%align == 0 && uint64(off)+uint64(len(p)) <= uint64(len(t.buf)) &&
			bytes.Equal(t.buf[off:off+uint32(len(p))], p) {
			return off
		}
	}

	pad := -uint32(len(t.buf)) & (align - 1)
	for i := uint32(0); i < pad; i++ {
		t.buf = append(t.buf, 0)
	}

	off := uint32(len(t.buf))
	t.buf = append(t.buf, p...)

	if t.cache == nil {
		t.cache = make(map[uint64][]uint32)
	}
	t.cache[h] = append(t.cache[h], off)

	return off
}
