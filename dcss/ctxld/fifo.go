package ctxld

import (
	"math/bits"

	"github.com/imx8mq/dcss/debug"
	"github.com/imx8mq/dcss/dma"
)

// fifo is a power-of-two ring of units in coherent memory. in and out are
// free-running unit counts, so free space is capacity-(in-out). The
// producer side is serialized by Context.mtx; the worker is the single
// consumer.
type fifo struct {
	buf      *dma.Buffer
	capacity uint32
	in, out  uint32
}

func newFIFO(units int) (*fifo, error) {
	debug.Assert(units > 0, "ctxld: empty fifo")
	n := 1 << bits.Len32(uint32(units-1)) // round up to power of two

	buf, err := dma.Alloc(n * UnitSize)
	if err != nil {
		return nil, err
	}
	return &fifo{buf: buf, capacity: uint32(n)}, nil
}

func (f *fifo) free() uint32 { return f.capacity - (f.in - f.out) }

// toEnd is the contiguous unit count from the write position to the end of
// the ring. A commit never wraps, so this bounds a single enqueue.
func (f *fifo) toEnd() uint32 { return f.capacity - f.in%f.capacity }

// enqueue copies the unit runs as one contiguous blob and returns its unit
// offset in the ring. The caller has verified the space and holds the
// producer lock.
func (f *fifo) enqueue(runs ...[]Unit) (off uint32) {
	off = f.in % f.capacity
	p := f.buf.Bytes()
	for _, run := range runs {
		for _, u := range run {
			putUnit(p[(f.in%f.capacity)*UnitSize:], u)
			f.in++
		}
	}
	debug.Assert(f.in-f.out <= f.capacity, "ctxld: fifo overrun")
	debug.Assert(f.in%f.capacity >= off || f.in%f.capacity == 0,
		"ctxld: commit wrapped the ring")
	return off
}

// consume retires n units; the region is promised to be out of use by the
// engine. An empty ring rewinds to offset zero so the whole capacity is
// again reachable as one contiguous region.
func (f *fifo) consume(n uint32) {
	f.out += n
	debug.Assert(f.in-f.out <= f.capacity, "ctxld: fifo underrun")
	if f.in == f.out {
		f.in, f.out = 0, 0
	}
}
