// Package dma models memory shared between the CPU and a bus master.
//
// The CPU accesses RAM through a cache, so a stored value can divert from
// what a device sees until it is cleaned to the point of coherency. A Buffer
// therefore keeps two views: the CPU view returned by Bytes and the
// device-visible view read by Observe. Writeback publishes CPU writes to the
// device view, Invalidate discards the CPU view in favor of the device's.
//
// On hardware both views are the same pages and Writeback/Invalidate become
// cache maintenance instructions. Keeping the views separate here makes a
// missing cache clean an observable bug instead of a latent one.
package dma

import (
	"errors"
	"sync"

	"github.com/imx8mq/dcss/debug"
)

// Addr is a device-visible (bus) address.
type Addr uint32

// Alignment is the cache line granule. All allocations are padded to it so
// maintenance ops never touch unrelated data.
const Alignment = 64

const heapBase Addr = 0x4000_0000 // start of DRAM on the SoC

var (
	mtx     sync.Mutex
	brk     = heapBase
	limit   = heapBase + 64<<20
	buffers []*Buffer // sorted by addr, brk only grows
)

var ErrOutOfMemory = errors.New("dma: out of memory")

// Buffer is a coherent allocation with a stable bus address.
type Buffer struct {
	addr Addr
	cpu  []byte
	dev  []byte
}

// Alloc reserves size bytes of device-visible memory, rounded up to the
// alignment granule. Fails with ErrOutOfMemory when the heap is exhausted.
func Alloc(size int) (*Buffer, error) {
	debug.Assert(size > 0, "dma: zero-sized allocation")
	size = (size + Alignment - 1) &^ (Alignment - 1)

	mtx.Lock()
	defer mtx.Unlock()

	if Addr(size) > limit-brk {
		return nil, ErrOutOfMemory
	}
	b := &Buffer{
		addr: brk,
		cpu:  make([]byte, size),
		dev:  make([]byte, size),
	}
	brk += Addr(size)
	buffers = append(buffers, b)
	return b, nil
}

// Release detaches the buffer from the bus. Further Observe calls into its
// range fail. The address range is not reused.
func (b *Buffer) Release() {
	mtx.Lock()
	defer mtx.Unlock()
	for i, o := range buffers {
		if o == b {
			buffers = append(buffers[:i], buffers[i+1:]...)
			return
		}
	}
}

func (b *Buffer) Addr() Addr { return b.addr }
func (b *Buffer) Size() int  { return len(b.cpu) }

// Bytes returns the CPU view. Writes to it are not device-visible until
// published with Writeback.
func (b *Buffer) Bytes() []byte { return b.cpu }

// Writeback publishes n CPU-written bytes at off to the device view. Call
// this before requesting a bus master to read from the range.
func (b *Buffer) Writeback(off, n int) {
	mtx.Lock()
	defer mtx.Unlock()
	copy(b.dev[off:off+n], b.cpu[off:off+n])
}

// WritebackAll publishes the whole buffer.
func (b *Buffer) WritebackAll() { b.Writeback(0, len(b.cpu)) }

// Invalidate re-reads n bytes at off from the device view. Call this before
// reading a range that a bus master has written.
func (b *Buffer) Invalidate(off, n int) {
	mtx.Lock()
	defer mtx.Unlock()
	copy(b.cpu[off:off+n], b.dev[off:off+n])
}

// Observe is the device side of the contract: it reads len(p) published
// bytes at addr. A read outside any live allocation fails, which a bus
// master reports as a bus error.
func Observe(addr Addr, p []byte) error {
	mtx.Lock()
	defer mtx.Unlock()
	for _, b := range buffers {
		if addr >= b.addr && addr-b.addr < Addr(len(b.dev)) {
			off := int(addr - b.addr)
			if off+len(p) > len(b.dev) {
				break
			}
			copy(p, b.dev[off:])
			return nil
		}
	}
	return errors.New("dma: bus read outside live allocation")
}
