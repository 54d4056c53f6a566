// Package bufpool provides sync.Pool-backed scratch buffers for payload
// construction. A body search rebuilds a multi-megabyte payload on every
// probe; reusing the backing array across probes keeps the search from
// thrashing the allocator.
package bufpool

import (
	"bytes"
	"sync"
)

// maxPooledSize is the largest buffer capacity returned to the pool. A body
// search tops out at the escalation ceiling, so anything bigger than this is
// a one-off and not worth holding onto.
const maxPooledSize = 16 << 20 // 16MB

var bufferPool = sync.Pool{
	New: func() any {
		return new(bytes.Buffer)
	},
}

// Get retrieves an empty bytes.Buffer from the pool.
// Callers should call Put() when done to return the buffer to the pool.
func Get() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// GetSized retrieves a buffer with at least the given capacity.
// Use this when the payload size is known up front to avoid regrowth.
func GetSized(size int) *bytes.Buffer {
	buf := Get()
	if buf.Cap() < size {
		buf.Grow(size)
	}
	return buf
}

// Put returns a buffer to the pool. Nil buffers are safely ignored, and
// buffers above maxPooledSize are dropped instead of pooled.
func Put(buf *bytes.Buffer) {
	if buf == nil {
		return
	}
	if buf.Cap() > maxPooledSize {
		return
	}
	buf.Reset()
	bufferPool.Put(buf)
}
