// Package ss programs the output subsampler, the last stage before the
// PHY: chroma downsampling and the HSYNC/VSYNC/DE sync windows.
package ss

import (
	"github.com/imx8mq/dcss/dcss"
	"github.com/imx8mq/dcss/dcss/ctxld"
)

// Register offsets within the subsample block.
const (
	RegSysCtrl   = 0x00
	RegDisplay   = 0x10
	RegHSync     = 0x20
	RegVSync     = 0x30
	RegDeUlc     = 0x40
	RegDeLrc     = 0x50
	RegMode      = 0x60
	RegCoeff     = 0x70
	RegClipCb    = 0x80
	RegClipCr    = 0x90
	RegInterMode = 0xa0
)

const (
	ctrlRun = 1 << 0

	// Polarity lives in the high bit of each timing register.
	polActiveHigh = 1 << 31

	modeRGB = 0 // pass-through, no chroma subsampling

	// Fixed three-tap filter: 1/4, 1/2, 1/4 in the hardware's packed
	// encoding, same constant for both chroma components.
	coeffFixed = 0x4161_4161
)

func pol(activeHigh bool) uint32 {
	if activeHigh {
		return polActiveHigh
	}
	return 0
}

// Setup stages the canvas size and sync windows for a mode and starts the
// block in RGB pass-through.
func Setup(st *ctxld.Channel, m dcss.Mode) error {
	b := uint32(dcss.SubsamBase)
	w := st.Writer()

	w.SB(b+RegDisplay, uint32(m.Vtotal()-1)<<16|uint32(m.Htotal()-1))

	// HSYNC runs from the last pixel of the line into the sync length.
	hsyncStart := uint32(m.Htotal() - 1)
	hsyncEnd := uint32(m.HSync - 1)
	w.SB(b+RegHSync, pol(m.HSyncPos)|hsyncStart<<16|hsyncEnd)

	vsyncStart := uint32(m.VFront - 1)
	vsyncEnd := uint32(m.VFront + m.VSync - 1)
	w.SB(b+RegVSync, pol(m.VSyncPos)|vsyncStart<<16|vsyncEnd)

	deUlcX := uint32(m.HSync + m.HBack - 1)
	deUlcY := uint32(m.VSync + m.VBack)
	w.SB(b+RegDeUlc, polActiveHigh|deUlcY<<16|deUlcX)
	w.SB(b+RegDeLrc, (deUlcY+uint32(m.Vres)-1)<<16|(deUlcX+uint32(m.Hres)))

	w.SB(b+RegMode, modeRGB)
	w.SB(b+RegCoeff, coeffFixed)
	w.SB(b+RegClipCb, 0)
	w.SB(b+RegClipCr, 0)
	w.SB(b+RegInterMode, 0)

	w.SB(b+RegSysCtrl, ctrlRun)
	return w.Err()
}
