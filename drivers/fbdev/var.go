package fbdev

import (
	"errors"

	"github.com/imx8mq/dcss/dcss/pixmap"
)

// ErrInvalid rejects a mode or surface description. Nothing reaches the
// hardware when it is returned.
var ErrInvalid = errors.New("fbdev: invalid argument")

// VarInfo is the classic variable screen info: the negotiable part of a
// framebuffer's configuration.
type VarInfo struct {
	Xres, Yres               uint32
	XresVirtual, YresVirtual uint32
	XOffset, YOffset         uint32

	BitsPerPixel uint32
	Grayscale    uint32 // pixel format FourCC, 0 selects ARGB8888

	Red, Green, Blue, Transp pixmap.Bitfield
}

// Format returns the pixel format the var selects.
func (v *VarInfo) Format() pixmap.Format {
	if v.Grayscale == 0 {
		return pixmap.ARGB8888
	}
	return pixmap.Format(v.Grayscale)
}

// LineLength is the pitch implied by the virtual width.
func (v *VarInfo) LineLength() int {
	return int(v.XresVirtual) * int(v.BitsPerPixel) / 8
}

const resLimit = 4096

// CheckVar validates v against the channel's capabilities and fills in the
// derived fields: bits per pixel and the RGBA bitfields of the resolved
// format. It has no hardware effect and is idempotent.
func (d *Device) CheckVar(v *VarInfo) error {
	if v.Xres == 0 || v.Yres == 0 {
		return ErrInvalid
	}
	if v.Xres > resLimit || v.Yres > resLimit {
		return ErrInvalid
	}
	if v.XresVirtual == 0 {
		v.XresVirtual = v.Xres
	}
	if v.YresVirtual == 0 {
		v.YresVirtual = v.Yres
	}
	if v.XresVirtual < v.Xres || v.YresVirtual < v.Yres {
		return ErrInvalid
	}
	if v.XOffset+v.Xres > v.XresVirtual || v.YOffset+v.Yres > v.YresVirtual {
		return ErrInvalid
	}

	info, ok := v.Format().Info()
	if !ok {
		return ErrInvalid
	}
	v.BitsPerPixel = uint32(info.BPP)

	if int(v.YresVirtual)*v.LineLength() > d.surface.Size() {
		return ErrInvalid
	}

	v.Red, v.Green, v.Blue, v.Transp = info.Red, info.Green, info.Blue, info.Transp
	return nil
}
