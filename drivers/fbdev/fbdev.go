// Package fbdev exposes each DCSS channel as a framebuffer device with the
// classic probe, check-var, set-par, blank and pan entry points. All register
// programming funnels through the channel's context loader staging buffers;
// nothing in this package touches the register bus directly.
package fbdev

import (
	"fmt"
	"image"
	"sync"
	"sync/atomic"

	"github.com/imx8mq/dcss/dcss"
	"github.com/imx8mq/dcss/dcss/ctxld"
	"github.com/imx8mq/dcss/dcss/dec400d"
	"github.com/imx8mq/dcss/dcss/dpr"
	"github.com/imx8mq/dcss/dcss/dtg"
	"github.com/imx8mq/dcss/dcss/dtrc"
	"github.com/imx8mq/dcss/dcss/hdr10"
	"github.com/imx8mq/dcss/dcss/pixmap"
	"github.com/imx8mq/dcss/dcss/scaler"
	"github.com/imx8mq/dcss/dcss/ss"
	"github.com/imx8mq/dcss/dma"
	"github.com/imx8mq/dcss/mmio"
)

// Blank is an fbdev blanking level. Everything above Unblank disables the
// channel; the levels are kept distinct so a later encoder can map them to
// sync suspend states.
type Blank int

const (
	Unblank Blank = iota
	Normal
	VSyncSuspend
	HSyncSuspend
	Powerdown
)

type chanState int

const (
	stateUninit chanState = iota
	stateConfigured
	stateActive
)

const defaultAlpha = 0xff

// Controller owns the display-global state shared by the per-channel
// framebuffer devices: the output mode, the encoder and the DTG control word
// with its per-channel enable bits.
type Controller struct {
	bus  mmio.Bus
	ctx  *ctxld.Context
	mode dcss.Mode
	enc  dcss.Encoder

	mtx     sync.Mutex // guards enabled and the control word writes
	alpha   uint8
	enabled [dcss.NumChannels]bool

	devs [dcss.NumChannels]*Device
}

// Probe brings up the DCSS behind bus according to opts and returns the
// controller with one framebuffer device per channel. It returns
// dcss.ErrDeferProbe when the named encoder has not registered yet.
func Probe(bus mmio.Bus, opts dcss.Options) (*Controller, error) {
	enc, err := dcss.LookupEncoder(opts.DispDev)
	if err != nil {
		return nil, err
	}
	mode, ok := dcss.StandardMode(opts.DispMode)
	if !ok {
		return nil, fmt.Errorf("fbdev: no standard mode for vic %d", opts.DispMode)
	}
	if err := enc.SetMode(mode); err != nil {
		return nil, fmt.Errorf("fbdev: encoder rejected mode: %w", err)
	}

	ctx, err := ctxld.New(bus, ctxld.DefaultFifoUnits)
	if err != nil {
		return nil, err
	}

	c := &Controller{bus: bus, ctx: ctx, mode: mode, enc: enc, alpha: defaultAlpha}
	for ch := dcss.Main; ch < dcss.NumChannels; ch++ {
		d, err := newDevice(c, ch)
		if err != nil {
			ctx.Close()
			for _, prev := range c.devs {
				if prev != nil {
					prev.surface.Release()
				}
			}
			return nil, err
		}
		c.devs[ch] = d
	}
	dcss.SetLifecycle(dcss.Reset)
	return c, nil
}

// Fb returns the framebuffer device of a channel.
func (c *Controller) Fb(ch dcss.Channel) *Device { return c.devs[ch] }

// Ctxld exposes the context loader, mainly so callers can tune its
// completion timeout.
func (c *Controller) Ctxld() *ctxld.Context { return c.ctx }

// Close blanks every channel, stops the context loader and releases the
// surfaces. The controller is unusable afterwards.
func (c *Controller) Close() {
	for _, d := range c.devs {
		if d.blank == Unblank {
			d.Blank(Powerdown)
		}
	}
	c.enc.Disable()
	c.ctx.Close()
	dcss.SetLifecycle(dcss.Stop)
	for _, d := range c.devs {
		d.surface.Release()
		d.state = stateUninit
	}
}

// controlWord recomputes the DTG control word from the current enable set.
// Callers hold c.mtx.
func (c *Controller) controlWord() uint32 {
	return dtg.ControlWord(c.alpha, c.enabled)
}

// commitEnable flips one channel's enable bit, stages the resulting control
// word and commits the channel's staging. Stage and commit happen under one
// lock: commits retire in queue order, so the last control word to retire
// must be the last one computed.
func (c *Controller) commitEnable(d *Device, on bool) error {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	prev := c.enabled[d.ch]
	c.enabled[d.ch] = on
	if err := dtg.WriteControl(d.st, c.controlWord()); err != nil {
		c.enabled[d.ch] = prev
		return err
	}
	if err := d.st.Commit(); err != nil {
		c.enabled[d.ch] = prev
		d.st.Reset()
		return err
	}
	return nil
}

// stageGlobal programs the display-global blocks: DTG timings, the
// subsampler and the HDR output stage. Only the main channel's set-par
// rebuilds these.
func (c *Controller) stageGlobal(st *ctxld.Channel) error {
	if err := dtg.ProgramTimings(st, c.mode); err != nil {
		return err
	}
	if err := ss.Setup(st, c.mode); err != nil {
		return err
	}
	return hdr10.SetupOutput(st)
}

// Device is one channel's framebuffer.
type Device struct {
	c  *Controller
	ch dcss.Channel
	st *ctxld.Channel

	refs    atomic.Int32
	surface *dma.Buffer

	v     VarInfo
	pos   image.Point // placement inside the active area
	tile  pixmap.TileType
	store pixmap.Store
	blank Blank
	state chanState

	img  *image.RGBA
	fill image.Uniform
}

func newDevice(c *Controller, ch dcss.Channel) (*Device, error) {
	m := c.mode
	surface, err := dma.Alloc(m.Hres * m.Vres * 4)
	if err != nil {
		return nil, err
	}
	d := &Device{
		c:       c,
		ch:      ch,
		st:      c.ctx.Channel(ch),
		surface: surface,
		blank:   Powerdown,
	}
	d.v = VarInfo{Xres: uint32(m.Hres), Yres: uint32(m.Vres)}
	if err := d.CheckVar(&d.v); err != nil {
		surface.Release()
		return nil, err
	}
	return d, nil
}

// Channel returns which DCSS channel the device drives.
func (d *Device) Channel() dcss.Channel { return d.ch }

// Var returns a copy of the current variable screen info.
func (d *Device) Var() VarInfo { return d.v }

// Surface returns the scanout buffer.
func (d *Device) Surface() *dma.Buffer { return d.surface }

// Open takes a reference on the device. The hardware state is untouched;
// configuration happens in SetPar.
func (d *Device) Open() { d.refs.Add(1) }

// Release drops a reference taken by Open.
func (d *Device) Release() {
	if d.refs.Add(-1) < 0 {
		panic("fbdev: release without open")
	}
}

// SetPosition places the channel's output rectangle relative to the active
// area origin. It takes effect on the next SetPar or unblank.
func (d *Device) SetPosition(p image.Point) { d.pos = p }

// SetLayout declares how the scanout surface was written: the tile type and
// whether it is framebuffer-compressed. The driver cannot see this from the
// buffer alone, the producer (GPU, VPU, CPU) has to say. Takes effect on the
// next SetPar.
func (d *Device) SetLayout(tile pixmap.TileType, store pixmap.Store) {
	d.tile, d.store = tile, store
}

// posRect is the channel's rectangle on the display canvas, in DTG
// coordinates measured from the start of the blanking interval.
func (d *Device) posRect() image.Rectangle {
	o := dtg.ActiveOrigin(d.c.mode).Add(d.pos)
	return image.Rectangle{o, o.Add(image.Pt(int(d.v.Xres), int(d.v.Yres)))}
}

// pixmap builds the surface description the pipeline blocks consume.
func (d *Device) pixmap() pixmap.Pixmap {
	v := &d.v
	return pixmap.Pixmap{
		Width:  int(v.XresVirtual),
		Height: int(v.YresVirtual),
		BPP:    int(v.BitsPerPixel),
		Pitch:  v.LineLength(),
		Crop: image.Rect(int(v.XOffset), int(v.YOffset),
			int(v.XOffset+v.Xres), int(v.YOffset+v.Yres)),
		Format: v.Format(),
		Tile:   d.tile,
		Store:  d.store,
		Base:   d.surface.Addr(),
	}
}

// stagePipeline programs the channel's read path into the staging buffers:
// decompression front end, prefetch, scaler and HDR input stage.
func (d *Device) stagePipeline(pm *pixmap.Pixmap) error {
	if err := pm.Validate(); err != nil {
		return err
	}
	if d.ch == dcss.Main {
		// Channel 1 has no detiler; VPU layouts can only scan out on
		// channels 2 and 3.
		if pm.Tile.NeedsResolve() {
			return fmt.Errorf("fbdev: channel %s cannot resolve tiled surfaces", d.ch)
		}
		if err := dec400d.Setup(d.st, pm); err != nil {
			return err
		}
	} else if err := dtrc.Setup(d.st, d.ch, pm); err != nil {
		return err
	}
	if err := dpr.Setup(d.st, d.ch, pm); err != nil {
		return err
	}
	dst := image.Pt(int(d.v.Xres), int(d.v.Yres))
	if err := scaler.Setup(d.st, d.ch, pm, dst); err != nil {
		return err
	}
	return hdr10.SetupInput(d.st, d.ch, hdr10.CSCFor(pm.Format))
}

// SetPar applies v to the channel. It validates via CheckVar, blanks the
// channel if it is live, rebuilds the pipeline into the staging buffers
// (plus the display-global blocks when this is the main channel) and
// restores the prior blank state. A blanked channel keeps the staged units
// pending until the next unblank, so the whole reconfiguration latches in a
// single commit.
func (d *Device) SetPar(v *VarInfo) error {
	if err := d.CheckVar(v); err != nil {
		return err
	}
	saved := d.blank
	if saved == Unblank {
		if err := d.Blank(Normal); err != nil {
			return err
		}
	}
	prev := d.v
	d.v = *v
	d.remap()

	pm := d.pixmap()
	err := d.stagePipeline(&pm)
	if err == nil && d.ch == dcss.Main {
		err = d.c.stageGlobal(d.st)
	}
	if err != nil {
		// The hardware still runs the old configuration; keep the var
		// describing it.
		d.st.Reset()
		d.v = prev
		d.remap()
		return err
	}
	d.state = stateConfigured

	if saved == Unblank {
		return d.Blank(Unblank)
	}
	return nil
}

// Blank moves the channel between the live and blanked states. Unblanking a
// never-configured channel fails. The first unblank after probe moves the
// global lifecycle from Reset to Running.
func (d *Device) Blank(level Blank) error {
	if level == Unblank {
		if d.state == stateUninit {
			return ErrInvalid
		}
		if err := dtg.ProgramChPos(d.st, d.ch, d.posRect()); err != nil {
			return err
		}
		if err := d.c.commitEnable(d, true); err != nil {
			return err
		}
		if dcss.Lifecycle() == dcss.Reset {
			dcss.SetLifecycle(dcss.Running)
		}
		if d.ch == dcss.Main {
			if err := d.c.enc.Enable(); err != nil {
				return err
			}
		}
		d.state = stateActive
		d.blank = Unblank
		return nil
	}

	if err := d.c.commitEnable(d, false); err != nil {
		return err
	}
	if d.state == stateActive {
		d.state = stateConfigured
	}
	d.blank = level
	return nil
}

// PanDisplay would move the visible window inside the virtual surface. The
// crop already comes from SetPar, so panning is accepted and ignored.
func (d *Device) PanDisplay(xoff, yoff uint32) error {
	if xoff+d.v.Xres > d.v.XresVirtual || yoff+d.v.Yres > d.v.YresVirtual {
		return ErrInvalid
	}
	return nil
}
