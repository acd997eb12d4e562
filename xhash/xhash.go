package xhash

import (
	"encoding/binary"

	"github.com/zeebo/xxh3"
)

var le = binary.LittleEndian

// T is a running structural hash. Mixing is order sensitive: the same values
// folded in a different order produce a different sum.
type T uint64

func New(seed uint64) T { return T(seed) }

func (h T) Uint64(x uint64) T {
	var b [16]byte
	le.PutUint64(b[0:8], uint64(h))
	le.PutUint64(b[8:16], x)
	return T(xxh3.Hash(b[:]))
}

func (h T) Uint32(x uint32) T { return h.Uint64(uint64(x)) }
func (h T) Uint8(x uint8) T   { return h.Uint64(uint64(x)) }
func (h T) Int32(x int32) T   { return h.Uint64(uint64(uint32(x))) }

func (h T) Bytes(p []byte) T { return h.Uint64(xxh3.Hash(p)) }

func (h T) Sum() uint64 { return uint64(h) }
