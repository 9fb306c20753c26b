package ctxld

import (
	"errors"
	"fmt"

	"github.com/imx8mq/dcss/dcss"
)

// Staging capacities in units. SB must hold a full channel pipeline rebuild
// plus the global configuration.
const (
	sbHPCapacity = 64
	sbCapacity   = 1024
	dbCapacity   = 1024
)

// ErrOverflow reports a full staging buffer.
var ErrOverflow = errors.New("ctxld: staging buffer full")

// Channel accumulates register writes for one pixel channel until they are
// committed as one atomic batch. Fills are not locked: a channel is
// programmed from a single context at a time.
type Channel struct {
	ctx *Context
	ch  dcss.Channel

	// sb holds writes that take effect as soon as the engine issues
	// them, with the high-priority run kept separately so it lands at
	// the lower ring addresses. db holds writes to shadow registers
	// that latch at the next frame boundary.
	sbHP []Unit
	sbLP []Unit
	db   []Unit
}

func newChannel(ctx *Context, ch dcss.Channel) *Channel {
	return &Channel{
		ctx:  ctx,
		ch:   ch,
		sbHP: make([]Unit, 0, sbHPCapacity),
		sbLP: make([]Unit, 0, sbCapacity),
		db:   make([]Unit, 0, dbCapacity),
	}
}

// FillSB stages one single-buffered register write.
func (s *Channel) FillSB(addr, val uint32) error {
	if len(s.sbLP) == cap(s.sbLP) {
		return ErrOverflow
	}
	s.sbLP = append(s.sbLP, Unit{addr, val})
	return nil
}

// FillSBHP stages one high-priority single-buffered write. The engine
// issues the high-priority run before the rest of the commit's SB units.
func (s *Channel) FillSBHP(addr, val uint32) error {
	if len(s.sbHP) == cap(s.sbHP) {
		return ErrOverflow
	}
	s.sbHP = append(s.sbHP, Unit{addr, val})
	return nil
}

// FillDB stages one double-buffered register write.
func (s *Channel) FillDB(addr, val uint32) error {
	if len(s.db) == cap(s.db) {
		return ErrOverflow
	}
	s.db = append(s.db, Unit{addr, val})
	return nil
}

// Reset discards all staged writes. Configuration paths call it when they
// fail partway so no partial state can reach the hardware.
func (s *Channel) Reset() {
	s.sbHP = s.sbHP[:0]
	s.sbLP = s.sbLP[:0]
	s.db = s.db[:0]
}

// Pending returns the staged SB and DB unit counts.
func (s *Channel) Pending() (sb, db int) {
	return len(s.sbHP) + len(s.sbLP), len(s.db)
}

// Commit copies the staged units into the command fifo as one contiguous
// blob, publishes the fifo memory to the engine and queues a work item for
// the worker. On return the staging is empty and the commit will be applied
// in queue order. A commit that cannot ever fit the fifo fails; a commit
// that merely finds the ring crowded waits for the worker to drain it.
func (s *Channel) Commit() error {
	total := uint32(len(s.sbHP) + len(s.sbLP) + len(s.db))
	if total == 0 {
		return nil
	}
	c := s.ctx

	c.mtx.Lock()
	if total > c.fifo.capacity {
		c.mtx.Unlock()
		return fmt.Errorf("ctxld: commit of %d units exceeds fifo capacity %d",
			total, c.fifo.capacity)
	}
	// The engine reads a commit as one contiguous region, so it must fit
	// the tail of the ring without wrapping. Draining leaves the ring
	// empty and rewound to offset zero.
	for total > min(c.fifo.free(), c.fifo.toEnd()) {
		c.flush()
	}

	off := c.fifo.enqueue(s.sbHP, s.sbLP, s.db)
	c.fifo.buf.WritebackAll() // publish before the worker can arm the engine

	c.pending = append(c.pending, &commit{
		off:     off,
		sbLen:   len(s.sbHP) + len(s.sbLP),
		sbHPLen: len(s.sbHP),
		dbLen:   len(s.db),
	})
	c.newWork.Signal()
	c.mtx.Unlock()

	s.Reset()
	return nil
}
