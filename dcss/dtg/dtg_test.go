package dtg_test

import (
	"image"
	"testing"

	"github.com/imx8mq/dcss/dcss"
	"github.com/imx8mq/dcss/dcss/dtg"
)

func TestActiveOrigin(t *testing.T) {
	m, _ := dcss.StandardMode(16)
	if got := dtg.ActiveOrigin(m); got != image.Pt(192, 41) {
		t.Errorf("1080p active origin = %v, want (192,41)", got)
	}
}

func TestControlWord(t *testing.T) {
	tests := []struct {
		enabled [dcss.NumChannels]bool
		want    uint32
	}{
		{[dcss.NumChannels]bool{true, false, false}, 0xff00018c},
		{[dcss.NumChannels]bool{true, true, false}, 0xff00018d},
		{[dcss.NumChannels]bool{true, true, true}, 0xff00018f},
		{[dcss.NumChannels]bool{false, false, false}, 0xff000188},
	}
	for _, tc := range tests {
		if got := dtg.ControlWord(0xff, tc.enabled); got != tc.want {
			t.Errorf("ControlWord(0xff, %v) = %#x, want %#x", tc.enabled, got, tc.want)
		}
	}
	if got := dtg.ControlWord(0x80, [dcss.NumChannels]bool{true}); got != 0x8000018c {
		t.Errorf("half alpha control word = %#x, want 0x8000018c", got)
	}
}
