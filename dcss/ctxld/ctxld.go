// Package ctxld drives the DCSS context loader, the DMA engine that applies
// staged register writes at a controlled instant.
//
// Nothing in the display pipeline is programmed by direct register writes.
// A block driver appends (address, value) units to its channel's staging
// buffers, the channel commits them as one contiguous blob into a shared
// command fifo, and a serialized worker points the engine at the blob. The
// engine reads it from DRAM, writes the registers at the frame boundary and
// signals completion by interrupt. The value of the detour is atomicity:
// a commit is applied in full and in order, or not at all.
package ctxld

import (
	"encoding/binary"
	"log"
	"sync"
	"time"

	"github.com/imx8mq/dcss/dcss"
	"github.com/imx8mq/dcss/dma"
	"github.com/imx8mq/dcss/mmio"
)

// Unit is the engine's wire datum: one register write. The DRAM layout is
// two 32-bit words in CPU byte order, address first.
type Unit struct {
	Addr uint32
	Val  uint32
}

// UnitSize is the size of an encoded Unit in the fifo.
const UnitSize = 8

func putUnit(p []byte, u Unit) {
	binary.NativeEndian.PutUint32(p[0:], u.Addr)
	binary.NativeEndian.PutUint32(p[4:], u.Val)
}

// DecodeUnit reads one wire-format unit, the inverse of what the fifo
// stores. Used by device models reading the blob from DRAM.
func DecodeUnit(p []byte) Unit {
	return Unit{
		Addr: binary.NativeEndian.Uint32(p[0:]),
		Val:  binary.NativeEndian.Uint32(p[4:]),
	}
}

// Register offsets relative to dcss.CtxldBase.
const (
	RegCtrlStatus    = 0x00
	RegCtrlStatusSet = 0x04 // write-1-to-set alias
	RegCtrlStatusClr = 0x08 // write-1-to-clear alias
	RegDBBaseAddr    = 0x10
	RegDBCount       = 0x14
	RegSBBaseAddr    = 0x18
	RegSBCount       = 0x1c // low-prio count in bits 0-15, high-prio in 16-31
)

// StatusFlag is the CTRL_STATUS register layout. Bit 0 arms the engine,
// bits 16-22 report status. The corresponding interrupt enables live at
// bits 2-8 and are set through the SET alias.
type StatusFlag uint32

const (
	Enable StatusFlag = 1 << 0

	RdErr            StatusFlag = 1 << (iota + 15) // engine detected a malformed unit
	DBComp                                         // double-buffered region latched
	SBHPComp                                       // high-prio single-buffered region written
	SBLPComp                                       // low-prio single-buffered region written
	DBPendSBRec                                    // DB pending while SB received
	SBPendDispActive                               // SB pending during active display
	AHBErr                                         // engine could not read from DRAM

	statusMask = RdErr | DBComp | SBHPComp | SBLPComp | DBPendSBRec | SBPendDispActive | AHBErr
)

// irqEnableBits maps status bits 16-22 to their enable bits 2-8.
func irqEnableBits(st StatusFlag) uint32 { return uint32(st) >> 14 }

type registers struct {
	ctrlStatus    mmio.R32[StatusFlag]
	ctrlStatusSet mmio.U32
	ctrlStatusClr mmio.U32
	dbBaseAddr    mmio.U32
	dbCount       mmio.U32
	sbBaseAddr    mmio.U32
	sbCount       mmio.U32
}

func newRegisters(bus mmio.Bus) registers {
	const base = dcss.CtxldBase
	return registers{
		ctrlStatus:    mmio.RegFlags[StatusFlag](bus, base+RegCtrlStatus),
		ctrlStatusSet: mmio.Reg(bus, base+RegCtrlStatusSet),
		ctrlStatusClr: mmio.Reg(bus, base+RegCtrlStatusClr),
		dbBaseAddr:    mmio.Reg(bus, base+RegDBBaseAddr),
		dbCount:       mmio.Reg(bus, base+RegDBCount),
		sbBaseAddr:    mmio.Reg(bus, base+RegSBBaseAddr),
		sbCount:       mmio.Reg(bus, base+RegSBCount),
	}
}

// commit is one work item: a contiguous region of the fifo holding first
// the SB units (high-prio prefix), then the DB units of a single channel.
type commit struct {
	off     uint32 // unit offset of the region in the ring
	sbLen   int
	sbHPLen int
	dbLen   int
}

// Context owns the command fifo, the per-channel staging buffers and the
// worker that feeds the engine. Producers contend on mtx; the worker is the
// only consumer.
type Context struct {
	regs registers

	mtx      sync.Mutex
	fifo     *fifo
	pending  []*commit
	inflight int
	closed   bool
	newWork  *sync.Cond // pending grew or closing
	drained  *sync.Cond // a commit retired

	comp    chan StatusFlag // signaled by the isr, capacity 1
	timeout time.Duration
	done    chan struct{}

	channels [dcss.NumChannels]*Channel
}

// DefaultFifoUnits sizes the command fifo so that a full three-channel
// reconfiguration fits without draining.
const DefaultFifoUnits = 4096

// New allocates the fifo in coherent memory, claims the context loader
// interrupt line and starts the commit worker.
func New(bus mmio.Bus, fifoUnits int) (*Context, error) {
	f, err := newFIFO(fifoUnits)
	if err != nil {
		return nil, err
	}

	c := &Context{
		regs:    newRegisters(bus),
		fifo:    f,
		comp:    make(chan StatusFlag, 1),
		timeout: time.Second,
		done:    make(chan struct{}),
	}
	c.newWork = sync.NewCond(&c.mtx)
	c.drained = sync.NewCond(&c.mtx)

	for ch := dcss.Main; ch < dcss.NumChannels; ch++ {
		c.channels[ch] = newChannel(c, ch)
	}

	dcss.SetHandler(dcss.IntrCtxld, c.isr)
	dcss.EnableInterrupts(dcss.IntrCtxld)

	go c.worker()
	return c, nil
}

// Channel returns the staging buffers of ch.
func (c *Context) Channel(ch dcss.Channel) *Channel { return c.channels[ch] }

// FifoRegion returns the bus address range that backs the command fifo.
func (c *Context) FifoRegion() (dma.Addr, int) {
	return c.fifo.buf.Addr(), int(c.fifo.capacity) * UnitSize
}

// SetTimeout overrides the completion timeout, one second by default.
func (c *Context) SetTimeout(d time.Duration) {
	c.mtx.Lock()
	c.timeout = d
	c.mtx.Unlock()
}

// Flush blocks until every queued commit has retired.
func (c *Context) Flush() {
	c.mtx.Lock()
	c.flush()
	c.mtx.Unlock()
}

// flush drains the work queue. Caller holds mtx; the wait drops it, so the
// producer never sleeps holding the fifo lock.
func (c *Context) flush() {
	for len(c.pending) > 0 || c.inflight > 0 {
		c.drained.Wait()
	}
}

// Close drains pending work, stops the worker and releases the interrupt
// line and the fifo memory. The line is released only once the queue is
// empty.
func (c *Context) Close() {
	c.mtx.Lock()
	c.flush()
	c.closed = true
	c.newWork.Signal()
	c.mtx.Unlock()
	<-c.done

	dcss.DisableInterrupts(dcss.IntrCtxld)
	dcss.SetHandler(dcss.IntrCtxld, nil)
	c.fifo.buf.Release()
}

// worker runs commits strictly in queue order, one at a time.
func (c *Context) worker() {
	defer close(c.done)
	for {
		c.mtx.Lock()
		for len(c.pending) == 0 && !c.closed {
			c.newWork.Wait()
		}
		if len(c.pending) == 0 {
			c.mtx.Unlock()
			return
		}
		rec := c.pending[0]
		c.pending = c.pending[1:]
		c.inflight++
		timeout := c.timeout
		c.mtx.Unlock()

		c.apply(rec, timeout)

		c.mtx.Lock()
		c.fifo.consume(uint32(rec.sbLen + rec.dbLen))
		c.inflight--
		c.drained.Broadcast()
		c.mtx.Unlock()
	}
}

// apply programs the engine with one commit and waits for completion.
func (c *Context) apply(rec *commit, timeout time.Duration) {
	base := uint32(c.fifo.buf.Addr()) + rec.off*UnitSize

	if rec.sbLen > 0 {
		c.regs.sbBaseAddr.Store(base)
		c.regs.sbCount.Store(uint32(rec.sbHPLen)<<16 | uint32(rec.sbLen-rec.sbHPLen))
	}
	if rec.dbLen > 0 {
		c.regs.dbBaseAddr.Store(base + uint32(rec.sbLen)*UnitSize)
		c.regs.dbCount.Store(uint32(rec.dbLen))
	}

	// Drop a stale completion of an earlier timed-out commit.
	select {
	case <-c.comp:
	default:
	}

	c.regs.ctrlStatusSet.Store(irqEnableBits(DBComp | SBHPComp | SBLPComp | AHBErr))
	c.regs.ctrlStatusSet.Store(uint32(Enable))

	select {
	case <-c.comp:
	case <-time.After(timeout):
		// The engine is known to stop on DRAM faults. Consider the
		// commit done; the display stays inconsistent until the next
		// one.
		log.Printf("ctxld: timeout waiting for completion")
	}
}

// isr runs in interrupt context: read status, clear the w1c bits, signal
// the worker.
func (c *Context) isr() {
	st := c.regs.ctrlStatus.LoadBits(statusMask)
	if st == 0 {
		return
	}
	c.regs.ctrlStatusClr.Store(uint32(st))
	if st&AHBErr != 0 {
		log.Printf("ctxld: engine read error, status %#x", uint32(st))
	}
	select {
	case c.comp <- st:
	default:
	}
}
