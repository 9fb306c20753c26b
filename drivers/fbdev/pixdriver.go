package fbdev

import (
	"image"
	"image/color"
	"image/draw"
)

// remap rebinds the CPU drawing view to the current var's virtual geometry.
// Only 32 bpp formats get a drawing view; YUV surfaces are written by video
// producers, not by this driver.
func (d *Device) remap() {
	if d.v.BitsPerPixel != 32 {
		d.img = nil
		return
	}
	pitch := d.v.LineLength()
	n := int(d.v.YresVirtual) * pitch
	d.img = &image.RGBA{
		Pix:    d.surface.Bytes()[:n],
		Stride: pitch,
		Rect:   image.Rect(0, 0, int(d.v.XresVirtual), int(d.v.YresVirtual)),
	}
}

func (d *Device) Draw(r image.Rectangle, src image.Image, sp image.Point,
	mask image.Image, mp image.Point, op draw.Op) {
	if d.img == nil {
		d.remap()
		if d.img == nil {
			return
		}
	}
	draw.DrawMask(d.img, r, src, sp, mask, mp, op)
}

func (d *Device) Fill(rect image.Rectangle) {
	d.Draw(rect, &d.fill, image.Point{}, nil, image.Point{}, draw.Over)
}

func (d *Device) SetColor(c color.Color) {
	d.fill.C = c
}

func (d *Device) SetDir(dir int) image.Rectangle {
	if d.img == nil {
		d.remap()
	}
	if d.img == nil {
		return image.Rectangle{}
	}
	return d.img.Bounds()
}

// Flush publishes the drawn pixels so the prefetch engine reads them.
func (d *Device) Flush() {
	d.surface.WritebackAll()
}

func (d *Device) Err(clear bool) error {
	return nil
}
