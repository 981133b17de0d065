package record

import "sync"

// Pool recycles Frame buffers across the producer/handler boundary. A
// producer calling Get avoids a fresh allocation on the common path; the
// handler calls Put once a frame's lines have all been written, the Go
// equivalent of reusing a malloc'd scratch buffer instead of freeing and
// reallocating it every record.
type Pool struct {
	pool sync.Pool
}

// NewPool returns an empty frame pool.
func NewPool() *Pool {
	return &Pool{}
}

// Get returns a Frame with at least capacity bytes of backing array,
// truncated to zero length. Callers grow it back with EncodeInto.
func (p *Pool) Get(capacity int) *Frame {
	v := p.pool.Get()
	if v == nil {
		return &Frame{Data: make([]byte, 0, capacity)}
	}

	frame, _ := v.(*Frame)
	if cap(frame.Data) < capacity {
		frame.Data = make([]byte, 0, capacity)
	} else {
		frame.Data = frame.Data[:0]
	}

	return frame
}

// Put returns frame to the pool for reuse. Callers must not touch frame
// again afterward.
func (p *Pool) Put(frame *Frame) {
	if frame == nil {
		return
	}

	p.pool.Put(frame)
}
