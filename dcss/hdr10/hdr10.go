// Package hdr10 programs the per-channel HDR input stages and the shared
// output stage. In this pipeline revision the input stage is only used as a
// color space converter; the float-to-fixed converter and the tone-mapping
// LUT stay off.
package hdr10

import (
	"github.com/imx8mq/dcss/dcss"
	"github.com/imx8mq/dcss/dcss/ctxld"
	"github.com/imx8mq/dcss/dcss/pixmap"
)

var inputBase = [dcss.NumChannels]uint32{dcss.HDRCh1Base, dcss.HDRCh2Base, dcss.HDRCh3Base}

// Input stage register offsets.
const (
	RegFl2FxEn  = 0x00 // float-to-fixed converter
	RegLtnlEn   = 0x04 // tone-mapping LUT
	RegCscAEn   = 0x08 // first color space matrix
	RegCscBEn   = 0x0c // second color space matrix
	RegCscACoef = 0x10 // 15 words: 3x3 matrix, pre- and post-offsets
)

// Output stage register offsets.
const (
	RegOutCscCoef = 0x00 // 15 words
	RegOutClip    = 0x3c // 3 pairs of floor/ceiling registers
	RegOutCtrl    = 0x54
)

const (
	outCtrlEnable = 0x3
	nCoef         = 15
)

// CSC selects the input-stage color conversion.
type CSC int

const (
	Bypass CSC = iota
	YUV2RGB
	RGB2YUV
)

// CSCFor picks the input conversion that makes a surface blendable: the
// pipeline mixes in RGB.
func CSCFor(f pixmap.Format) CSC {
	if info, ok := f.Info(); ok && info.YUV {
		return YUV2RGB
	}
	return Bypass
}

// BT.709 limited range, 10 fractional bits: 3x3 matrix row-major, then
// three pre-offsets, then three post-offsets.
var yuv2rgbCoef = [nCoef]uint32{
	0x4a8, 0x000, 0x72c,
	0x4a8, 0xf26, 0xddd,
	0x4a8, 0x873, 0x000,
	0xfc0, 0xe00, 0xe00,
	0x000, 0x000, 0x000,
}

var rgb2yuvCoef = [nCoef]uint32{
	0x0bb, 0x275, 0x03f,
	0xf99, 0xea5, 0x1c2,
	0x1c2, 0xe67, 0xfd7,
	0x000, 0x000, 0x000,
	0x040, 0x200, 0x200,
}

// SetupInput stages a channel's input stage: everything off for Bypass, or
// the first matrix loaded and enabled for a conversion.
func SetupInput(st *ctxld.Channel, ch dcss.Channel, csc CSC) error {
	b := inputBase[ch]
	w := st.Writer()

	w.SB(b+RegFl2FxEn, 0)
	w.SB(b+RegLtnlEn, 0)
	w.SB(b+RegCscBEn, 0)

	if csc == Bypass {
		w.SB(b+RegCscAEn, 0)
		return w.Err()
	}

	coef := &yuv2rgbCoef
	if csc == RGB2YUV {
		coef = &rgb2yuvCoef
	}
	for i, c := range coef {
		w.SB(b+RegCscACoef+4*uint32(i), c)
	}
	w.SB(b+RegCscAEn, 1)
	return w.Err()
}

// SetupOutput stages the shared output stage: identity matrix, clipping
// wide open, converter enabled.
func SetupOutput(st *ctxld.Channel) error {
	b := uint32(dcss.HDROutBase)
	w := st.Writer()

	// Identity: unity diagonal, zero offsets.
	for i := 0; i < nCoef; i++ {
		c := uint32(0)
		if i == 0 || i == 4 || i == 8 {
			c = 1 << 10
		}
		w.SB(b+RegOutCscCoef+4*uint32(i), c)
	}
	for i := 0; i < 3; i++ {
		w.SB(b+RegOutClip+8*uint32(i), 0xffff_ffff)
		w.SB(b+RegOutClip+8*uint32(i)+4, 0xffff_ffff)
	}
	w.SB(b+RegOutCtrl, outCtrlEnable)
	return w.Err()
}
