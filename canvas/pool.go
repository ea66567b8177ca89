package canvas

import "sync"

// Snapshots are at most MaxSize*MaxSize bytes so every pooled buffer is
// allocated at that capacity and resliced to fit.
var bufferPool = sync.Pool{
	New: func() interface{} {
		b := make([]uint8, MaxSize*MaxSize)
		return &b
	},
}

func getBuffer(n int) []uint8 {
	b := *bufferPool.Get().(*[]uint8)
	return b[:n]
}

func putBuffer(b []uint8) {
	if cap(b) != MaxSize*MaxSize {
		return
	}
	b = b[:cap(b)]
	bufferPool.Put(&b)
}

// Snapshot returns a copy of the pixel buffer. The copy should be handed
// back with Release once it is no longer needed.
func (c *Canvas) Snapshot() []uint8 {
	b := getBuffer(len(c.Pix))
	copy(b, c.Pix)
	return b
}

// Restore overwrites the pixel buffer with a snapshot previously taken from
// a canvas of the same dimensions.
func (c *Canvas) Restore(snapshot []uint8) {
	copy(c.Pix, snapshot)
}

// Release returns a snapshot to the pool. It must not be used afterwards.
func Release(snapshot []uint8) {
	putBuffer(snapshot)
}
