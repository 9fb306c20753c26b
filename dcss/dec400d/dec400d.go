// Package dec400d programs the channel-1 framebuffer decompressor. Surfaces
// written uncompressed skip it through the bypass path.
package dec400d

import (
	"github.com/imx8mq/dcss/dcss"
	"github.com/imx8mq/dcss/dcss/ctxld"
	"github.com/imx8mq/dcss/dcss/pixmap"
)

// Register offsets within the DEC400D block.
const (
	RegControl     = 0x00
	RegReadConfig  = 0x80
	RegReadBufBase = 0x90
	RegCacheBase   = 0xa0
)

const (
	ctrlBypass    = 1 << 1
	readEnable    = 1 << 0
	readFmtARGB   = 0 << 3
	readFmtYUV422 = 1 << 3
)

// Setup stages decompression for a compressed surface or the bypass value
// for anything else.
func Setup(st *ctxld.Channel, pm *pixmap.Pixmap) error {
	b := uint32(dcss.Dec400dBase)
	w := st.Writer()

	if pm.Store != pixmap.Compressed {
		w.SB(b+RegControl, ctrlBypass)
		return w.Err()
	}

	cfg := uint32(readEnable)
	if info, ok := pm.Format.Info(); ok && info.YUV {
		cfg |= readFmtYUV422
	} else {
		cfg |= readFmtARGB
	}
	w.SB(b+RegReadBufBase, uint32(pm.Base))
	w.SB(b+RegCacheBase, uint32(pm.Base)+uint32(pm.Pitch*pm.Height))
	w.SB(b+RegReadConfig, cfg)
	w.SB(b+RegControl, 0)
	return w.Err()
}
