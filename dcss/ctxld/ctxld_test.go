package ctxld_test

import (
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/imx8mq/dcss/dcss"
	"github.com/imx8mq/dcss/dcss/ctxld"
	"github.com/imx8mq/dcss/sim"
)

// scratch is an unused corner of the register region the tests write to.
const scratch = dcss.HDRCh1Base + 0x1000

func newContext(t *testing.T, fifoUnits int) (*sim.Device, *ctxld.Context) {
	t.Helper()
	dev := sim.New()
	ctx, err := ctxld.New(dev, fifoUnits)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(ctx.Close)
	return dev, ctx
}

func TestCommitOrder(t *testing.T) {
	dev, ctx := newContext(t, ctxld.DefaultFifoUnits)
	st := ctx.Channel(dcss.Main)

	const commits, units = 5, 4
	for i := 0; i < commits; i++ {
		for j := 0; j < units; j++ {
			n := uint32(i*units + j)
			if err := st.FillSB(scratch+4*n, n); err != nil {
				t.Fatal(err)
			}
		}
		if err := st.Commit(); err != nil {
			t.Fatal(err)
		}
	}
	ctx.Flush()

	trace := dev.Trace()
	if len(trace) != commits*units {
		t.Fatalf("applied %d writes, want %d", len(trace), commits*units)
	}
	for i, w := range trace {
		if w.Addr != scratch+4*uint32(i) || w.Val != uint32(i) {
			t.Errorf("write %d: got (%#x, %d), want (%#x, %d)",
				i, w.Addr, w.Val, scratch+4*uint32(i), i)
		}
	}
}

func TestCommitRegions(t *testing.T) {
	dev, ctx := newContext(t, ctxld.DefaultFifoUnits)
	st := ctx.Channel(dcss.Secondary)

	st.FillSBHP(scratch+0x00, 1)
	st.FillSBHP(scratch+0x04, 2)
	st.FillSB(scratch+0x08, 3)
	st.FillDB(scratch+0x0c, 4)
	st.FillDB(scratch+0x10, 5)
	if err := st.Commit(); err != nil {
		t.Fatal(err)
	}
	ctx.Flush()

	cs := dev.Commits()
	if len(cs) != 1 {
		t.Fatalf("got %d commits, want 1", len(cs))
	}
	c := cs[0]
	if c.SBLen != 3 || c.SBHPLen != 2 || c.DBLen != 2 {
		t.Errorf("got sb=%d hp=%d db=%d, want sb=3 hp=2 db=2",
			c.SBLen, c.SBHPLen, c.DBLen)
	}
	// The DB region directly follows the SB region in the fifo.
	if c.DBBase != c.SBBase+3*ctxld.UnitSize {
		t.Errorf("db base %#x not contiguous after sb base %#x", c.DBBase, c.SBBase)
	}
	// The high-prio run lands first.
	trace := dev.Trace()
	if len(trace) != 5 || trace[0].Val != 1 || trace[1].Val != 2 {
		t.Errorf("high-prio units not applied first: %v", trace)
	}
}

// An empty commit must not reach the engine.
func TestEmptyCommit(t *testing.T) {
	dev, ctx := newContext(t, ctxld.DefaultFifoUnits)

	if err := ctx.Channel(dcss.Main).Commit(); err != nil {
		t.Fatal(err)
	}
	ctx.Flush()
	if n := len(dev.Commits()); n != 0 {
		t.Errorf("engine ran %d times on an empty commit", n)
	}
}

// Overfilling a tiny fifo must block until the worker drains it and never
// hand the engine a region that wraps the ring.
func TestBackpressure(t *testing.T) {
	dev, ctx := newContext(t, 16)
	st := ctx.Channel(dcss.Main)
	fifoBase, fifoSize := ctx.FifoRegion()

	const commits, units = 8, 3
	for i := 0; i < commits; i++ {
		for j := 0; j < units; j++ {
			n := uint32(i*units + j)
			st.FillSB(scratch+4*n, n)
		}
		if err := st.Commit(); err != nil {
			t.Fatal(err)
		}
	}
	ctx.Flush()

	cs := dev.Commits()
	if len(cs) != commits {
		t.Fatalf("got %d commits, want %d", len(cs), commits)
	}
	for i, c := range cs {
		if c.SBBase < fifoBase ||
			int(c.SBBase-fifoBase)+c.SBLen*ctxld.UnitSize > fifoSize {
			t.Errorf("commit %d region [%#x +%d[ wraps the ring", i, c.SBBase, c.SBLen)
		}
	}
	trace := dev.Trace()
	if len(trace) != commits*units {
		t.Fatalf("applied %d writes, want %d", len(trace), commits*units)
	}
	for i, w := range trace {
		if w.Val != uint32(i) {
			t.Fatalf("write %d applied out of order: got %d", i, w.Val)
		}
	}
}

func TestOversizedCommit(t *testing.T) {
	_, ctx := newContext(t, 16)
	st := ctx.Channel(dcss.Main)

	for i := uint32(0); i < 17; i++ {
		st.FillSB(scratch+4*i, i)
	}
	if err := st.Commit(); err == nil {
		t.Fatal("commit larger than the fifo succeeded")
	}
	st.Reset()
	if sb, db := st.Pending(); sb != 0 || db != 0 {
		t.Errorf("staging not empty after reset: sb=%d db=%d", sb, db)
	}
}

// A hung engine must not wedge the queue: the commit retires by timeout and
// later commits still apply once the engine recovers.
func TestCompletionTimeout(t *testing.T) {
	dev, ctx := newContext(t, ctxld.DefaultFifoUnits)
	ctx.SetTimeout(10 * time.Millisecond)
	st := ctx.Channel(dcss.Main)

	dev.SetHang(true)
	st.FillSB(scratch, 1)
	if err := st.Commit(); err != nil {
		t.Fatal(err)
	}
	done := make(chan struct{})
	go func() { ctx.Flush(); close(done) }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("flush did not return after completion timeout")
	}

	dev.SetHang(false)
	st.FillSB(scratch+4, 2)
	if err := st.Commit(); err != nil {
		t.Fatal(err)
	}
	ctx.Flush()

	if got := dev.Reg(scratch + 4); got != 2 {
		t.Errorf("commit after recovery not applied: reg=%d", got)
	}
}

// A bus error during the fetch completes the commit with an error status;
// the queue keeps moving.
func TestEngineReadError(t *testing.T) {
	dev, ctx := newContext(t, ctxld.DefaultFifoUnits)
	ctx.SetTimeout(100 * time.Millisecond)
	st := ctx.Channel(dcss.Main)

	dev.SetAHBErr(true)
	st.FillSB(scratch, 1)
	if err := st.Commit(); err != nil {
		t.Fatal(err)
	}
	ctx.Flush()
	if got := dev.Reg(scratch); got != 0 {
		t.Errorf("failed fetch still wrote registers: reg=%d", got)
	}

	dev.SetAHBErr(false)
	st.FillSB(scratch, 1)
	if err := st.Commit(); err != nil {
		t.Fatal(err)
	}
	ctx.Flush()
	if got := dev.Reg(scratch); got != 1 {
		t.Errorf("commit after bus error not applied: reg=%d", got)
	}
}

// Channels commit concurrently; each channel's writes must still apply in
// its own commit order and every commit stays contiguous in the trace.
func TestConcurrentChannels(t *testing.T) {
	dev, ctx := newContext(t, 64)

	const commits, units = 20, 3
	var g errgroup.Group
	for ch := dcss.Main; ch < dcss.NumChannels; ch++ {
		st := ctx.Channel(ch)
		chBase := scratch + uint32(ch)*0x100
		g.Go(func() error {
			for i := 0; i < commits; i++ {
				for j := 0; j < units; j++ {
					if err := st.FillSB(chBase+4*uint32(j), uint32(i)); err != nil {
						return err
					}
				}
				if err := st.Commit(); err != nil {
					return err
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	ctx.Flush()

	trace := dev.Trace()
	if len(trace) != int(dcss.NumChannels)*commits*units {
		t.Fatalf("applied %d writes, want %d",
			len(trace), int(dcss.NumChannels)*commits*units)
	}
	// Per channel the commit sequence numbers must be non-decreasing, and
	// the units of one commit must be adjacent.
	next := map[uint32]uint32{}
	for i := 0; i < len(trace); i += units {
		first := trace[i]
		chBase := first.Addr &^ 0xff
		for j := 1; j < units; j++ {
			w := trace[i+j]
			if w.Addr&^0xff != chBase || w.Val != first.Val {
				t.Fatalf("commit interleaved at trace %d: %v", i, trace[i:i+units])
			}
		}
		if first.Val != next[chBase] {
			t.Fatalf("channel %#x commit %d applied before %d",
				chBase, first.Val, next[chBase])
		}
		next[chBase]++
	}
}
