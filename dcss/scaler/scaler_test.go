package scaler

import (
	"testing"

	"github.com/imx8mq/dcss/fixed"
)

func signed12(c uint32) int32 { return int32(c<<20) >> 20 }

// Every phase of the table must sum to exactly one, or the scaler shifts
// brightness with the sampling position.
func TestCoefUnityGain(t *testing.T) {
	for phase, c := range coef {
		sum := int32(0)
		for _, tap := range c {
			if tap&^0xfff != 0 {
				t.Fatalf("phase %d: tap %#x wider than 12 bits", phase, tap)
			}
			sum += signed12(tap)
		}
		if sum != 1<<10 {
			t.Errorf("phase %d sums to %d, want %d", phase, sum, 1<<10)
		}
	}
}

// Phase 0 must be a pure center tap so a 1:1 scale is the identity.
func TestCoefIdentityPhase(t *testing.T) {
	want := [7]uint32{0, 0, 0, 1 << 10, 0, 0, 0}
	if coef[0] != want {
		t.Errorf("phase 0 is %#x, want %#x", coef[0], want)
	}
}

func TestPackPhase(t *testing.T) {
	tests := []struct {
		c          [7]uint32
		w0, w1, w2 uint32
	}{
		{
			c:  [7]uint32{0, 0, 0, 0x400, 0, 0, 0},
			w0: 0, w1: 0x400 << 8, w2: 0,
		},
		{
			// All ones exercises the split carries of taps 2 and 4.
			c:  [7]uint32{0xfff, 0xfff, 0xfff, 0xfff, 0xfff, 0xfff, 0xfff},
			w0: 0xfff<<16 | 0xfff<<4 | 0xf,
			w1: 0xff<<20 | 0xfff<<8 | 0xff,
			w2: 0xf<<24 | 0xfff<<12 | 0xfff,
		},
	}
	for i, tc := range tests {
		w0, w1, w2 := packPhase(tc.c)
		if w0 != tc.w0 || w1 != tc.w1 || w2 != tc.w2 {
			t.Errorf("case %d: got %#x %#x %#x, want %#x %#x %#x",
				i, w0, w1, w2, tc.w0, tc.w1, tc.w2)
		}
	}
}

func TestRatio(t *testing.T) {
	tests := []struct {
		src, dst int
		bits     uint32
	}{
		{1920, 1920, 1 << 13}, // 1:1
		{1920, 1280, 3 << 12}, // 1.5x downscale
		{1280, 1920, (1 << 13) * 2 / 3},
		{1920, 960, 1 << 14},
	}
	for _, tc := range tests {
		if got := fixed.Ratio(tc.src, tc.dst).Bits(); got != tc.bits {
			t.Errorf("Ratio(%d, %d) = %#x, want %#x", tc.src, tc.dst, got, tc.bits)
		}
	}
}
