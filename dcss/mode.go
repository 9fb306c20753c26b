package dcss

// Mode is a classic display timing: pixel clock, active size and the
// front-porch/sync/back-porch triple per axis.
type Mode struct {
	PixClockKHz int

	Hres, HFront, HSync, HBack int
	Vres, VFront, VSync, VBack int

	HSyncPos, VSyncPos bool // sync polarities, true is active high
	Interlaced         bool
	Aspect             string
	VIC                int // CEA video identification code
}

func (m Mode) Htotal() int { return m.Hres + m.HFront + m.HSync + m.HBack }
func (m Mode) Vtotal() int { return m.Vres + m.VFront + m.VSync + m.VBack }

// cea holds the standard modes the driver can select with the disp-mode
// option, keyed by VIC.
var cea = map[int]Mode{
	1:  {25175, 640, 16, 96, 48, 480, 10, 2, 33, false, false, false, "4:3", 1},
	2:  {27000, 720, 16, 62, 60, 480, 9, 6, 30, false, false, false, "4:3", 2},
	3:  {27000, 720, 16, 62, 60, 480, 9, 6, 30, false, false, false, "16:9", 3},
	4:  {74250, 1280, 110, 40, 220, 720, 5, 5, 20, true, true, false, "16:9", 4},
	16: {148500, 1920, 88, 44, 148, 1080, 4, 5, 36, true, true, false, "16:9", 16},
	17: {27000, 720, 12, 64, 68, 576, 5, 5, 39, false, false, false, "4:3", 17},
	18: {27000, 720, 12, 64, 68, 576, 5, 5, 39, false, false, false, "16:9", 18},
	19: {74250, 1280, 440, 40, 220, 720, 5, 5, 20, true, true, false, "16:9", 19},
	31: {148500, 1920, 528, 44, 148, 1080, 4, 5, 36, true, true, false, "16:9", 31},
	32: {74250, 1920, 638, 44, 148, 1080, 4, 5, 36, true, true, false, "16:9", 32},
	33: {74250, 1920, 528, 44, 148, 1080, 4, 5, 36, true, true, false, "16:9", 33},
	34: {74250, 1920, 88, 44, 148, 1080, 4, 5, 36, true, true, false, "16:9", 34},
}

// DefaultVIC selects 1920x1080@60 when no disp-mode option is given.
const DefaultVIC = 16

// StandardMode returns the CEA mode for a VIC.
func StandardMode(vic int) (Mode, bool) {
	m, ok := cea[vic]
	return m, ok
}
