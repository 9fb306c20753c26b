// Package mmio provides 32-bit register cells bound to a bus.
//
// On real silicon a register bank is just a struct mapped over the MMIO
// region. Here every cell carries the bus it lives on instead, so the same
// block code can program either hardware behind a thin bus shim or a
// simulated device.
package mmio

// Bus is a 32-bit wide register address space. Addresses are byte offsets
// into the peripheral region and must be word aligned.
type Bus interface {
	Load32(addr uint32) uint32
	Store32(addr uint32, val uint32)
}

// U32 is a single 32-bit register.
type U32 struct {
	bus  Bus
	addr uint32
}

func Reg(bus Bus, addr uint32) U32 { return U32{bus, addr} }

func (r *U32) Addr() uint32 { return r.addr }

func (r *U32) Load() uint32     { return r.bus.Load32(r.addr) }
func (r *U32) Store(val uint32) { r.bus.Store32(r.addr, val) }

func (r *U32) SetBits(mask uint32)   { r.Store(r.Load() | mask) }
func (r *U32) ClearBits(mask uint32) { r.Store(r.Load() &^ mask) }

func (r *U32) LoadBits(mask uint32) uint32 { return r.Load() & mask }

// R32 is a 32-bit register with typed bit flags.
type R32[T ~uint32] struct {
	bus  Bus
	addr uint32
}

func RegFlags[T ~uint32](bus Bus, addr uint32) R32[T] { return R32[T]{bus, addr} }

func (r *R32[T]) Addr() uint32 { return r.addr }

func (r *R32[T]) Load() T     { return T(r.bus.Load32(r.addr)) }
func (r *R32[T]) Store(val T) { r.bus.Store32(r.addr, uint32(val)) }

func (r *R32[T]) SetBits(mask T)   { r.Store(r.Load() | mask) }
func (r *R32[T]) ClearBits(mask T) { r.Store(r.Load() &^ mask) }

func (r *R32[T]) LoadBits(mask T) T { return r.Load() & mask }
