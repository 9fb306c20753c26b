// Package scaler programs the per-channel polyphase resizers: 7 taps and 16
// phases per axis, separate coefficient banks for luma and chroma.
package scaler

import (
	"fmt"
	"image"

	"github.com/imx8mq/dcss/dcss"
	"github.com/imx8mq/dcss/dcss/ctxld"
	"github.com/imx8mq/dcss/dcss/pixmap"
	"github.com/imx8mq/dcss/fixed"
)

var base = [dcss.NumChannels]uint32{dcss.ScalerCh1Base, dcss.ScalerCh2Base, dcss.ScalerCh3Base}

// Register offsets within a scaler block.
const (
	RegCtrl      = 0x00
	RegSrcFormat = 0x10
	RegDstFormat = 0x14
	RegSrcRes    = 0x18
	RegDstRes    = 0x1c
	RegVRatio    = 0x20
	RegHRatio    = 0x24

	// Coefficient banks: 16 phases of 3 packed words each.
	RegCoefVLum = 0x080
	RegCoefHLum = 0x140
	RegCoefVChr = 0x200
	RegCoefHChr = 0x2c0
)

const ctrlEnable = 1 << 0

// Pixel format codes of the src/dst format registers.
const (
	fmtRGB    = 0
	fmtYUV444 = 1
	fmtYUV422 = 2
	fmtYUV420 = 3
)

func srcFormat(pm *pixmap.Pixmap, info pixmap.Info) uint32 {
	switch {
	case !info.YUV:
		return fmtRGB
	case info.TwoPlane:
		return fmtYUV420
	case pm.Format == pixmap.AYUV:
		return fmtYUV444
	default:
		return fmtYUV422
	}
}

// Setup stages the resize from the surface's crop to dst, including the
// full coefficient tables and the enable trigger. The scaler always hands
// RGB downstream.
func Setup(st *ctxld.Channel, ch dcss.Channel, pm *pixmap.Pixmap, dst image.Point) error {
	info, ok := pm.Format.Info()
	if !ok {
		return fmt.Errorf("scaler: unknown format %s", pm.Format)
	}
	if dst.X <= 0 || dst.Y <= 0 {
		return fmt.Errorf("scaler: empty destination %v", dst)
	}
	src := pm.Crop.Size()
	b := base[ch]
	w := st.Writer()

	w.SB(b+RegSrcFormat, srcFormat(pm, info))
	w.SB(b+RegDstFormat, fmtRGB)
	w.SB(b+RegSrcRes, uint32(src.Y-1)<<16|uint32(src.X-1))
	w.SB(b+RegDstRes, uint32(dst.Y-1)<<16|uint32(dst.X-1))
	w.SB(b+RegVRatio, fixed.Ratio(src.Y, dst.Y).Bits())
	w.SB(b+RegHRatio, fixed.Ratio(src.X, dst.X).Bits())

	for _, bank := range []uint32{RegCoefVLum, RegCoefHLum, RegCoefVChr, RegCoefHChr} {
		programBank(w, b+bank)
	}

	w.SB(b+RegCtrl, ctrlEnable)
	return w.Err()
}

// programBank writes one 16-phase coefficient bank. Each phase packs its
// seven 12-bit taps into three words.
func programBank(w *ctxld.Writer, bank uint32) {
	for phase, c := range coef {
		w0, w1, w2 := packPhase(c)
		w.SB(bank+0x00+4*uint32(phase), w0)
		w.SB(bank+0x40+4*uint32(phase), w1)
		w.SB(bank+0x80+4*uint32(phase), w2)
	}
}

// packPhase lays out taps 0..6 over three registers, 12 bits per tap with
// the carry bits of taps 2 and 4 split across word boundaries.
func packPhase(c [7]uint32) (w0, w1, w2 uint32) {
	w0 = c[0]<<16 | c[1]<<4 | c[2]>>8
	w1 = (c[2]&0xff)<<20 | c[3]<<8 | c[4]>>4
	w2 = (c[4]&0x0f)<<24 | c[5]<<12 | c[6]
	return
}
