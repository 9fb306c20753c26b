// Package dpr programs the Display Prefetch Resolve blocks, the per-channel
// memory readers that fetch a surface from DRAM and hand linear pixels to
// the scaler.
package dpr

import (
	"fmt"

	"github.com/imx8mq/dcss/dcss"
	"github.com/imx8mq/dcss/dcss/ctxld"
	"github.com/imx8mq/dcss/dcss/pixmap"
)

var base = [dcss.NumChannels]uint32{dcss.DPRCh1Base, dcss.DPRCh2Base, dcss.DPRCh3Base}

// Register offsets within a DPR block.
const (
	RegSystemCtrl  = 0x000
	RegIrqMask     = 0x020
	RegModeCtrl    = 0x050
	RegFrameCtrl   = 0x070
	RegFrame1PCtrl = 0x090
	RegFrame1PPixX = 0x0a0
	RegFrame1PPixY = 0x0b0
	RegFrame1PBase = 0x0c0
	RegFrame2PCtrl = 0x0e0
	RegFrame2PPixX = 0x0f0
	RegFrame2PPixY = 0x100
	RegFrame2PBase = 0x110
	RegRtramCtrl   = 0x200
)

const (
	ctrlRun       = 1 << 0 // start prefetch, trigger word
	ctrlRepeat    = 1 << 2 // re-fetch every frame
	pitchShift    = 16
	rtramBypass   = 1 << 0 // no tile resolve, linear read-out
	rtramResolve4 = 4 << 1 // 4-line resolve window for VPU tiles
	modeYUV       = 1 << 0
	mode2Plane    = 1 << 1
)

// Setup stages the prefetch configuration for a surface and the trigger
// word that starts it.
func Setup(st *ctxld.Channel, ch dcss.Channel, pm *pixmap.Pixmap) error {
	info, ok := pm.Format.Info()
	if !ok {
		return fmt.Errorf("dpr: unknown format %s", pm.Format)
	}
	b := base[ch]
	w := st.Writer()

	w.SB(b+RegFrame1PBase, uint32(pm.Base))
	w.SB(b+RegFrame1PPixX, uint32(pm.Crop.Dx()))
	w.SB(b+RegFrame1PPixY, uint32(pm.Crop.Dy()))
	w.SB(b+RegFrameCtrl, uint32(pm.Pitch)<<pitchShift)

	mode := uint32(0)
	if info.YUV {
		mode |= modeYUV
	}
	if info.TwoPlane {
		mode |= mode2Plane
		w.SB(b+RegFrame2PBase, uint32(pm.Plane2Base()))
		w.SB(b+RegFrame2PPixX, uint32(pm.Crop.Dx()/2))
		w.SB(b+RegFrame2PPixY, uint32(pm.Crop.Dy()/2))
	}
	w.SB(b+RegModeCtrl, mode)

	if pm.Tile.NeedsResolve() {
		w.SB(b+RegRtramCtrl, rtramResolve4)
	} else {
		w.SB(b+RegRtramCtrl, rtramBypass)
	}

	w.SB(b+RegSystemCtrl, ctrlRun|ctrlRepeat)
	return w.Err()
}
