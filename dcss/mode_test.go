package dcss_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/imx8mq/dcss/dcss"
)

func TestStandardMode(t *testing.T) {
	c := qt.New(t)

	m, ok := dcss.StandardMode(16)
	c.Assert(ok, qt.IsTrue)
	c.Assert(m.Hres, qt.Equals, 1920)
	c.Assert(m.Vres, qt.Equals, 1080)
	c.Assert(m.Htotal(), qt.Equals, 2200)
	c.Assert(m.Vtotal(), qt.Equals, 1125)
	c.Assert(m.PixClockKHz, qt.Equals, 148500)

	_, ok = dcss.StandardMode(42)
	c.Assert(ok, qt.IsFalse)
}

func TestParseOptions(t *testing.T) {
	c := qt.New(t)

	tests := []struct {
		in   string
		want dcss.Options
		err  string
	}{
		{"", dcss.DefaultOptions(), ""},
		{"disp-mode=4", dcss.Options{DispMode: 4, DispDev: "hdmi_disp"}, ""},
		{"disp-mode=16,disp-dev=hdmi_disp", dcss.Options{DispMode: 16, DispDev: "hdmi_disp"}, ""},
		{"disp-dev=mipi_disp", dcss.Options{DispMode: 16, DispDev: "mipi_disp"}, ""},
		{"disp-mode=42", dcss.Options{}, "dcss: disp-mode 42 not in mode table"},
		{"disp-mode", dcss.Options{}, `dcss: malformed option "disp-mode"`},
		{"colors=lots", dcss.Options{}, `dcss: unknown option "colors"`},
	}
	for _, tc := range tests {
		c.Run(tc.in, func(c *qt.C) {
			opts, err := dcss.ParseOptions(tc.in)
			if tc.err != "" {
				c.Assert(err, qt.ErrorMatches, tc.err)
				return
			}
			c.Assert(err, qt.IsNil)
			c.Assert(opts, qt.Equals, tc.want)
		})
	}
}
