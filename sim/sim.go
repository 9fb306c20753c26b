// Package sim models the DCSS register region and the context loader
// engine, faithfully enough to run the real driver against it: the SET/CLR
// aliases and w1c status of the loader's control register, the DMA reads of
// committed unit lists and the completion interrupt. Faults can be injected
// to exercise the driver's error paths.
package sim

import (
	"encoding/binary"
	"log"
	"sync"

	"github.com/sigurn/crc8"

	"github.com/imx8mq/dcss/dcss"
	"github.com/imx8mq/dcss/dcss/ctxld"
	"github.com/imx8mq/dcss/dma"
)

// Write is one register write applied by the engine.
type Write struct {
	Addr, Val uint32
}

// Commit is the engine's view of one processed work item.
type Commit struct {
	SBBase         dma.Addr
	SBLen, SBHPLen int
	DBBase         dma.Addr
	DBLen          int
}

// Device is the simulated DCSS. It implements mmio.Bus.
type Device struct {
	mtx     sync.Mutex
	regs    [dcss.RegionSize / 4]uint32
	trace   []Write
	commits []Commit

	hang   bool // never signal completion
	ahbErr bool // fail the next DRAM read
}

func New() *Device { return &Device{} }

// SetHang makes the engine swallow commits without completing them.
func (d *Device) SetHang(hang bool) {
	d.mtx.Lock()
	d.hang = hang
	d.mtx.Unlock()
}

// SetAHBErr makes the engine fail its DRAM reads with a bus error.
func (d *Device) SetAHBErr(fail bool) {
	d.mtx.Lock()
	d.ahbErr = fail
	d.mtx.Unlock()
}

func (d *Device) Load32(addr uint32) uint32 {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	return d.regs[addr/4]
}

func (d *Device) Store32(addr, val uint32) {
	const cs = (dcss.CtxldBase + ctxld.RegCtrlStatus) / 4

	d.mtx.Lock()
	switch addr {
	case dcss.CtxldBase + ctxld.RegCtrlStatusSet:
		d.regs[cs] |= val
		if val&uint32(ctxld.Enable) != 0 {
			// The engine fetches asynchronously, like hardware.
			go d.engine()
		}
	case dcss.CtxldBase + ctxld.RegCtrlStatusClr:
		d.regs[cs] &^= val
	default:
		d.regs[addr/4] = val
	}
	d.mtx.Unlock()
}

// engine processes the regions the base/count registers point at, applies
// their units to the register file and completes by interrupt.
func (d *Device) engine() {
	d.mtx.Lock()
	if d.hang {
		d.mtx.Unlock()
		return
	}
	failRead := d.ahbErr

	ctrl := &d.regs[(dcss.CtxldBase+ctxld.RegCtrlStatus)/4]
	sbBase := d.regs[(dcss.CtxldBase+ctxld.RegSBBaseAddr)/4]
	sbCount := d.regs[(dcss.CtxldBase+ctxld.RegSBCount)/4]
	dbBase := d.regs[(dcss.CtxldBase+ctxld.RegDBBaseAddr)/4]
	dbCount := d.regs[(dcss.CtxldBase+ctxld.RegDBCount)/4]

	hp, lp := int(sbCount>>16), int(sbCount&0xffff)

	var status uint32
	if failRead {
		status = uint32(ctxld.AHBErr | ctxld.DBComp)
	} else {
		if hp+lp > 0 {
			if d.applyRegion(dma.Addr(sbBase), hp+lp) {
				if hp > 0 {
					status |= uint32(ctxld.SBHPComp)
				}
				if lp > 0 {
					status |= uint32(ctxld.SBLPComp)
				}
			} else {
				status |= uint32(ctxld.AHBErr)
			}
		}
		if dbCount > 0 && status&uint32(ctxld.AHBErr) == 0 {
			if d.applyRegion(dma.Addr(dbBase), int(dbCount)) {
				status |= uint32(ctxld.DBComp)
			} else {
				status |= uint32(ctxld.AHBErr)
			}
		}
		d.commits = append(d.commits, Commit{
			SBBase: dma.Addr(sbBase), SBLen: hp + lp, SBHPLen: hp,
			DBBase: dma.Addr(dbBase), DBLen: int(dbCount),
		})
	}

	*ctrl &^= uint32(ctxld.Enable)
	*ctrl |= status

	// Raise the line only for unmasked sources; enables for status bits
	// 16-22 sit at bits 2-8.
	raise := status&((*ctrl&0x1fc)<<14) != 0
	d.mtx.Unlock()

	if raise {
		dcss.Raise(dcss.IntrCtxld)
	}
}

// applyRegion reads count units at base from DRAM and writes them into the
// register file. Reports false on a bus error.
func (d *Device) applyRegion(base dma.Addr, count int) bool {
	buf := make([]byte, count*ctxld.UnitSize)
	if err := dma.Observe(base, buf); err != nil {
		log.Printf("sim: %v", err)
		return false
	}
	for i := 0; i < count; i++ {
		u := ctxld.DecodeUnit(buf[i*ctxld.UnitSize:])
		if u.Addr >= dcss.RegionSize || u.Addr%4 != 0 {
			log.Printf("sim: unit write outside region: %#x", u.Addr)
			return false
		}
		d.regs[u.Addr/4] = u.Val
		d.trace = append(d.trace, Write{u.Addr, u.Val})
	}
	return true
}

// Reg returns the current value of a register.
func (d *Device) Reg(addr uint32) uint32 { return d.Load32(addr) }

// Trace returns the engine-applied writes in application order.
func (d *Device) Trace() []Write {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	t := make([]Write, len(d.trace))
	copy(t, d.trace)
	return t
}

// Commits returns the processed work items in order.
func (d *Device) Commits() []Commit {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	c := make([]Commit, len(d.commits))
	copy(c, d.commits)
	return c
}

var traceCRC = crc8.MakeTable(crc8.Params{Poly: 0x07, Init: 0x00, RefIn: false, RefOut: false, XorOut: 0x00, Check: 0xf4, Name: "CRC-8 DCSS trace"})

// TraceCRC fingerprints the applied write sequence. Two runs that programmed
// the hardware identically have the same fingerprint.
func (d *Device) TraceCRC() uint8 {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	var p [8]byte
	csum := crc8.Init(traceCRC)
	for _, w := range d.trace {
		binary.LittleEndian.PutUint32(p[0:], w.Addr)
		binary.LittleEndian.PutUint32(p[4:], w.Val)
		csum = crc8.Update(csum, p[:], traceCRC)
	}
	return crc8.Complete(csum, traceCRC)
}
