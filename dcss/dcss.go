// Package dcss holds what is shared by every block of the Display Controller
// Subsystem: the block base offsets inside the MMIO region, the interrupt
// line dispatch, the display mode type and the subsystem lifecycle.
//
// The DCSS composes up to three pixel channels onto one display output. Each
// channel runs its own pipeline (decompress, detile, scale, HDR input) and
// the results are mixed by the timing generator, post-processed and driven
// to the PHY. All register programming goes through the context loader, see
// the ctxld package.
package dcss

// RegionSize is the size of the DCSS MMIO region.
const RegionSize = 192 << 10

// Block base offsets inside the region.
const (
	HDRCh1Base = 0x00000
	HDRCh2Base = 0x04000
	HDRCh3Base = 0x08000
	HDROutBase = 0x0c000

	Dec400dBase   = 0x15000
	DtrcCh2Base   = 0x16000
	DtrcCh3Base   = 0x17000
	DPRCh1Base    = 0x18000
	DPRCh2Base    = 0x19000
	DPRCh3Base    = 0x1a000
	SubsamBase    = 0x1b000
	ScalerCh1Base = 0x1c000
	ScalerCh2Base = 0x1c400
	ScalerCh3Base = 0x1c800
	DTGBase       = 0x20000
	CtxldBase     = 0x23000
)

// Channel identifies one of the three pixel sources. Only Main may change
// the global display timings.
type Channel int

const (
	Main Channel = iota
	Secondary
	Tertiary

	NumChannels
)

func (ch Channel) String() string {
	switch ch {
	case Main:
		return "main"
	case Secondary:
		return "secondary"
	case Tertiary:
		return "tertiary"
	}
	return "invalid"
}

// Valid reports whether ch names an existing channel.
func (ch Channel) Valid() bool { return ch >= Main && ch < NumChannels }
