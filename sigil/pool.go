package sigil

import "sync"

// ============================================================
// Buffer Reuse
// ============================================================
//
// Encode draws its output buffer from a shared pool and copies the finished
// document out before returning, so no pooled storage escapes a call. The
// pool is an optimization only: dropping it changes allocation cost, never
// output.

// Buffers larger than this are not returned to the pool, so one huge
// document does not pin its buffer forever.
const maxPooledBuffer = 1 << 20

var writerPool = sync.Pool{
	New: func() any { return NewWriter(512) },
}

func acquireWriter() *Writer {
	w := writerPool.Get().(*Writer)
	w.Reset()
	return w
}

func releaseWriter(w *Writer) {
	if cap(w.buf) > maxPooledBuffer {
		return
	}
	writerPool.Put(w)
}
