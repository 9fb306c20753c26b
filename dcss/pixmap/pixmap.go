// Package pixmap describes the pixel surfaces the DCSS channels read:
// dimensions, pixel format, tiling and compression state.
package pixmap

import (
	"fmt"
	"image"

	"github.com/imx8mq/dcss/dma"
)

// Format is a pixel format FourCC.
type Format uint32

func fourcc(a, b, c, d byte) Format {
	return Format(uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24)
}

var (
	ARGB8888    = fourcc('A', 'R', '2', '4') // 32 bpp, alpha at 24
	ABGR8888    = fourcc('A', 'B', '2', '4') // 32 bpp, red and blue swapped
	ARGB2101010 = fourcc('A', 'R', '3', '0') // 32 bpp, 10 bits per color
	YUYV        = fourcc('Y', 'U', 'Y', 'V') // 16 bpp packed 4:2:2
	YVYU        = fourcc('Y', 'V', 'Y', 'U')
	UYVY        = fourcc('U', 'Y', 'V', 'Y')
	VYUY        = fourcc('V', 'Y', 'U', 'Y')
	AYUV        = fourcc('A', 'Y', 'U', 'V') // 32 bpp packed 4:4:4
	NV12        = fourcc('N', 'V', '1', '2') // 8 bpp Y plane + interleaved CbCr
)

func (f Format) String() string {
	return string([]byte{byte(f), byte(f >> 8), byte(f >> 16), byte(f >> 24)})
}

// Bitfield locates one color component inside a pixel, fbdev style.
type Bitfield struct {
	Offset, Length uint32
}

// Info is the static description of a format.
type Info struct {
	BPP      int // bits per pixel of the first plane
	YUV      bool
	TwoPlane bool
	Red      Bitfield
	Green    Bitfield
	Blue     Bitfield
	Transp   Bitfield
}

var formats = map[Format]Info{
	ARGB8888:    {BPP: 32, Red: Bitfield{16, 8}, Green: Bitfield{8, 8}, Blue: Bitfield{0, 8}, Transp: Bitfield{24, 8}},
	ABGR8888:    {BPP: 32, Red: Bitfield{0, 8}, Green: Bitfield{8, 8}, Blue: Bitfield{16, 8}, Transp: Bitfield{24, 8}},
	ARGB2101010: {BPP: 32, Red: Bitfield{20, 10}, Green: Bitfield{10, 10}, Blue: Bitfield{0, 10}, Transp: Bitfield{30, 2}},
	YUYV:        {BPP: 16, YUV: true},
	YVYU:        {BPP: 16, YUV: true},
	UYVY:        {BPP: 16, YUV: true},
	VYUY:        {BPP: 16, YUV: true},
	AYUV:        {BPP: 32, YUV: true},
	NV12:        {BPP: 8, YUV: true, TwoPlane: true},
}

// Info returns the format description, ok false for an unknown FourCC.
func (f Format) Info() (Info, bool) {
	info, ok := formats[f]
	return info, ok
}

// TileType is the memory layout of a surface.
type TileType int

const (
	TileLinear TileType = iota
	TileGPUStandard
	TileGPUSuper
	TileVPU2PYUV420
	TileVPU2PVP9
)

// NeedsResolve reports whether the layout must be resolved to linear by a
// detiler before prefetch.
func (t TileType) NeedsResolve() bool {
	return t == TileVPU2PYUV420 || t == TileVPU2PVP9
}

// Store tells whether the surface bytes are framebuffer-compressed.
type Store int

const (
	Noncompressed Store = iota
	Compressed
)

// Pixmap is one pixel surface.
type Pixmap struct {
	Width, Height int
	BPP           int
	Pitch         int // bytes per line of the first plane
	Crop          image.Rectangle
	Format        Format
	Tile          TileType
	Store         Store
	Base          dma.Addr
}

// Plane2Base returns the base of the interleaved chroma plane of a 2-plane
// format, which follows the luma plane.
func (p *Pixmap) Plane2Base() dma.Addr {
	return p.Base + dma.Addr(p.Pitch*p.Height)
}

// Validate checks the surface invariants: known format, pitch covering a
// full line and a crop contained in the surface.
func (p *Pixmap) Validate() error {
	info, ok := p.Format.Info()
	if !ok {
		return fmt.Errorf("pixmap: unknown format %#x", uint32(p.Format))
	}
	if p.BPP != info.BPP {
		return fmt.Errorf("pixmap: bpp %d does not match format %s", p.BPP, p.Format)
	}
	if p.Pitch < p.Width*p.BPP/8 {
		return fmt.Errorf("pixmap: pitch %d shorter than line of %d px", p.Pitch, p.Width)
	}
	if !p.Crop.In(image.Rect(0, 0, p.Width, p.Height)) {
		return fmt.Errorf("pixmap: crop %v outside %dx%d", p.Crop, p.Width, p.Height)
	}
	return nil
}
