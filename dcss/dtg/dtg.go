// Package dtg programs the Display Timing Generator: the total canvas, the
// active region, the placement of the three channels inside the canvas and
// the blender control word.
//
// Timing and position registers are shadowed and latch at the frame
// boundary, so they are staged double-buffered. The control word is
// single-buffered.
package dtg

import (
	"image"

	"github.com/imx8mq/dcss/dcss"
	"github.com/imx8mq/dcss/dcss/ctxld"
)

// Register offsets within the DTG block.
const (
	RegControlStatus = 0x00
	RegLowerRight    = 0x04 // lower right corner of the total canvas
	RegDispTop       = 0x08 // active region upper left
	RegDispBot       = 0x0c // active region lower right
	RegCh1Top        = 0x10
	RegCh1Bot        = 0x14
	RegCh2Top        = 0x18
	RegCh2Bot        = 0x1c
	RegCh3Top        = 0x20
	RegCh3Bot        = 0x24
	RegCtxldKick     = 0x28
	RegCh1Bkgnd      = 0x2c
	RegCh2Bkgnd      = 0x30
	RegCh3Bkgnd      = 0x34
)

// Control word bits. A channel enable may be set only once that channel's
// pipeline is ready to feed data.
const (
	CtrlCh2Enable = 1 << 0
	CtrlCh3Enable = 1 << 1
	CtrlCh1Active = 1 << 2 // main channel feeds the blender
	CtrlBlenderEn = 1 << 3
	ctrlMasterRun = 3 << 7 // timing generation and DE output on

	alphaShift = 24
)

var chTop = [dcss.NumChannels]uint32{RegCh1Top, RegCh2Top, RegCh3Top}
var chBot = [dcss.NumChannels]uint32{RegCh1Bot, RegCh2Bot, RegCh3Bot}

// EnableBit returns the control bit gating ch into the blender.
func EnableBit(ch dcss.Channel) uint32 {
	switch ch {
	case dcss.Secondary:
		return CtrlCh2Enable
	case dcss.Tertiary:
		return CtrlCh3Enable
	}
	return CtrlCh1Active
}

// ControlWord builds the control register value for a running display with
// the given global alpha and per-channel enables.
func ControlWord(alpha uint8, enabled [dcss.NumChannels]bool) uint32 {
	w := uint32(alpha)<<alphaShift | ctrlMasterRun | CtrlBlenderEn
	for ch := dcss.Main; ch < dcss.NumChannels; ch++ {
		if enabled[ch] {
			w |= EnableBit(ch)
		}
	}
	return w
}

// ActiveOrigin is the canvas coordinate of the first active pixel. Channel
// rectangles are placed relative to it.
func ActiveOrigin(m dcss.Mode) image.Point {
	return image.Point{m.HSync + m.HBack, m.VSync + m.VBack}
}

// ProgramTimings stages the canvas and active region for a mode.
func ProgramTimings(st *ctxld.Channel, m dcss.Mode) error {
	ulc := ActiveOrigin(m)
	ulcX, ulcY := uint32(ulc.X-1), uint32(ulc.Y-1)

	w := st.Writer()
	w.DB(dcss.DTGBase+RegLowerRight, uint32(m.Vtotal()-1)<<16|uint32(m.Htotal()-1))
	w.DB(dcss.DTGBase+RegDispTop, ulcY<<16|ulcX)
	w.DB(dcss.DTGBase+RegDispBot, (ulcY+uint32(m.Vres))<<16|(ulcX+uint32(m.Hres)))
	return w.Err()
}

// ProgramChPos stages the placement of a channel's rectangle, given in
// canvas coordinates.
func ProgramChPos(st *ctxld.Channel, ch dcss.Channel, r image.Rectangle) error {
	w := st.Writer()
	w.DB(dcss.DTGBase+chTop[ch], uint32(r.Min.Y)<<16|uint32(r.Min.X))
	w.DB(dcss.DTGBase+chBot[ch], uint32(r.Max.Y)<<16|uint32(r.Max.X))
	return w.Err()
}

// WriteControl stages the control word.
func WriteControl(st *ctxld.Channel, val uint32) error {
	return st.FillSB(dcss.DTGBase+RegControlStatus, val)
}
