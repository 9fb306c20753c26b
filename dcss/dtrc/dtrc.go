// Package dtrc programs the decompress-and-tile-resolve blocks in front of
// channels 2 and 3. They turn the VPU's two-plane tiled layouts back into
// linear pixels; everything else passes through.
package dtrc

import (
	"fmt"

	"github.com/imx8mq/dcss/dcss"
	"github.com/imx8mq/dcss/dcss/ctxld"
	"github.com/imx8mq/dcss/dcss/pixmap"
)

// Register offsets within a DTRC block.
const (
	RegDYAddr   = 0x08 // luma base
	RegDCAddr   = 0x0c // chroma base
	RegSize     = 0x10
	RegSysCtrl  = 0xc8
	RegArigIdle = 0xd0
)

const (
	ctrlBypass     = 1 << 0
	ctrlResolveRun = 1 << 1
	ctrlVP9Mode    = 1 << 2
)

var base = map[dcss.Channel]uint32{
	dcss.Secondary: dcss.DtrcCh2Base,
	dcss.Tertiary:  dcss.DtrcCh3Base,
}

// Setup stages the detiler for a VPU surface or the bypass value for linear
// and GPU layouts, which channel 2/3 prefetch resolves on its own.
func Setup(st *ctxld.Channel, ch dcss.Channel, pm *pixmap.Pixmap) error {
	b, ok := base[ch]
	if !ok {
		return fmt.Errorf("dtrc: channel %s has no detiler", ch)
	}
	w := st.Writer()

	if !pm.Tile.NeedsResolve() {
		w.SB(b+RegSysCtrl, ctrlBypass)
		return w.Err()
	}

	ctrl := uint32(ctrlResolveRun)
	if pm.Tile == pixmap.TileVPU2PVP9 {
		ctrl |= ctrlVP9Mode
	}
	w.SB(b+RegDYAddr, uint32(pm.Base))
	w.SB(b+RegDCAddr, uint32(pm.Plane2Base()))
	w.SB(b+RegSize, uint32(pm.Height)<<16|uint32(pm.Width))
	w.SB(b+RegSysCtrl, ctrl)
	return w.Err()
}
