package mmio_test

import (
	"testing"

	"github.com/imx8mq/dcss/mmio"
)

type mapBus map[uint32]uint32

func (b mapBus) Load32(addr uint32) uint32       { return b[addr] }
func (b mapBus) Store32(addr uint32, val uint32) { b[addr] = val }

func TestU32(t *testing.T) {
	bus := mapBus{}
	r := mmio.Reg(bus, 0x10)

	r.Store(0xf0)
	r.SetBits(0x0f)
	if got := r.Load(); got != 0xff {
		t.Errorf("got %#x, want 0xff", got)
	}
	r.ClearBits(0x3c)
	if got := r.Load(); got != 0xc3 {
		t.Errorf("got %#x, want 0xc3", got)
	}
	if got := r.LoadBits(0x0f); got != 0x03 {
		t.Errorf("got %#x, want 0x03", got)
	}
	if r.Addr() != 0x10 {
		t.Errorf("addr %#x, want 0x10", r.Addr())
	}
}

type flags uint32

const (
	flagA flags = 1 << iota
	flagB
	flagC
)

func TestR32(t *testing.T) {
	bus := mapBus{}
	r := mmio.RegFlags[flags](bus, 0x20)

	r.Store(flagA)
	r.SetBits(flagC)
	if got := r.Load(); got != flagA|flagC {
		t.Errorf("got %#x, want %#x", got, flagA|flagC)
	}
	r.ClearBits(flagA)
	if got := r.LoadBits(flagA | flagB | flagC); got != flagC {
		t.Errorf("got %#x, want %#x", got, flagC)
	}
}
