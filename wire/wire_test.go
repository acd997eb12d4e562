package wire

import (
	"testing"

	"github.com/zeebo/assert"
)

func TestWire(t *testing.T) {
	t.Run("RoundTrip", func(t *testing.T) {
		buf := make([]byte, 1+4+8+4+3)

		var w W
		w.Init(buf)
		w.Uint8(7)
		w.Uint32(1 << 30)
		w.Uint64(1 << 60)
		w.Int32(-5)
		w.Bytes([]byte{1, 2, 3})
		assert.NoError(t, w.Done())

		var r R
		r.Init(buf)
		assert.Equal(t, r.Uint8(), uint8(7))
		assert.Equal(t, r.Uint32(), uint32(1<<30))
		assert.Equal(t, r.Uint64(), uint64(1<<60))
		assert.Equal(t, r.Int32(), int32(-5))
		assert.DeepEqual(t, r.Bytes(3), []byte{1, 2, 3})
		assert.Equal(t, r.Remaining(), 0)
		assert.NoError(t, r.Done())
	})

	t.Run("Overflow", func(t *testing.T) {
		var w W
		w.Init(make([]byte, 3))
		w.Uint32(1)
		assert.Error(t, w.Done())
	})

	t.Run("Short", func(t *testing.T) {
		var w W
		w.Init(make([]byte, 8))
		w.Uint32(1)
		assert.Error(t, w.Done())
	})

	t.Run("ShortRead", func(t *testing.T) {
		var r R
		r.Init([]byte{1, 2})
		r.Uint32()
		assert.Error(t, r.Done())
	})
}
