package wire

import (
	"encoding/binary"

	"github.com/zeebo/errs/v2"
)

var le = binary.LittleEndian

// W writes a fixed size record into a preallocated destination. Every write
// after an error is a no-op, and Done reports the first error. A record that
// comes up short or long of its destination is an error: the destination
// length is the declared encoded length of the record.
type W struct {
	dst []byte
	pos int
	err error
}

func (w *W) Init(dst []byte) {
	*w = W{dst: dst}
}

func (w *W) Done() error {
	if w.err == nil && w.pos != len(w.dst) {
		w.err = errs.Errorf("record length mismatch: wrote %d of %d bytes", w.pos, len(w.dst))
	}
	return w.err
}

func (w *W) Uint8(x uint8) {
	if w.err == nil {
		if w.pos+1 <= len(w.dst) {
			w.dst[w.pos] = x
			w.pos++
		} else {
			w.bad(1)
		}
	}
}

func (w *W) Uint32(x uint32) {
	if w.err == nil {
		if w.pos+4 <= len(w.dst) {
			le.PutUint32(w.dst[w.pos:], x)
			w.pos += 4
		} else {
			w.bad(4)
		}
	}
}

func (w *W) Uint64(x uint64) {
	if w.err == nil {
		if w.pos+8 <= len(w.dst) {
			le.PutUint64(w.dst[w.pos:], x)
			w.pos += 8
		} else {
			w.bad(8)
		}
	}
}

func (w *W) Int32(x int32) { w.Uint32(uint32(x)) }

func (w *W) Bytes(p []byte) {
	if w.err == nil {
		if w.pos+len(p) <= len(w.dst) {
			copy(w.dst[w.pos:], p)
			w.pos += len(p)
		} else {
			w.bad(len(p))
		}
	}
}

func (w *W) bad(n int) {
	w.err = errs.Errorf("record overflow: needed %d bytes with %d remaining", n, len(w.dst)-w.pos)
	w.pos = len(w.dst)
}

// R reads a fixed size record back out of a buffer. Mostly useful for
// tests and debugging tools that decode written programs.
type R struct {
	buf []byte
	pos int
	err error
}

func (r *R) Init(buf []byte) {
	*r = R{buf: buf}
}

func (r *R) Done() error { return r.err }

func (r *R) Remaining() int { return len(r.buf) - r.pos }

func (r *R) Uint8() (x uint8) {
	if r.err == nil {
		if r.pos+1 <= len(r.buf) {
			x = r.buf[r.pos]
			r.pos++
		} else {
			r.bad(1)
		}
	}
	return
}

func (r *R) Uint32() (x uint32) {
	if r.err == nil {
		if r.pos+4 <= len(r.buf) {
			x = le.Uint32(r.buf[r.pos:])
			r.pos += 4
		} else {
			r.bad(4)
		}
	}
	return
}

func (r *R) Uint64() (x uint64) {
	if r.err == nil {
		if r.pos+8 <= len(r.buf) {
			x = le.Uint64(r.buf[r.pos:])
			r.pos += 8
		} else {
			r.bad(8)
		}
	}
	return
}

func (r *R) Int32() int32 { return int32(r.Uint32()) }

func (r *R) Bytes(n int) (x []byte) {
	if r.err == nil {
		if r.pos+n <= len(r.buf) {
			x = r.buf[r.pos : r.pos+n]
			r.pos += n
		} else {
			r.bad(n)
		}
	}
	return
}

func (r *R) bad(n int) {
	r.err = errs.Errorf("short record: needed %d bytes with %d remaining", n, len(r.buf)-r.pos)
	r.pos = len(r.buf)
}
