package dcss

import (
	"fmt"
	"strconv"
	"strings"
)

// Options are the recognized module options, fbdev style: a comma separated
// list of key=value pairs, e.g. "disp-mode=16,disp-dev=hdmi_disp".
type Options struct {
	DispMode int    // VIC index into the standard mode table
	DispDev  string // name of the downstream encoder
}

func DefaultOptions() Options {
	return Options{DispMode: DefaultVIC, DispDev: "hdmi_disp"}
}

// ParseOptions fills in defaults for keys not present. Unknown keys are an
// error, as is a disp-mode without an entry in the mode table.
func ParseOptions(s string) (Options, error) {
	opts := DefaultOptions()
	if s == "" {
		return opts, nil
	}
	for _, opt := range strings.Split(s, ",") {
		key, val, found := strings.Cut(opt, "=")
		if !found {
			return opts, fmt.Errorf("dcss: malformed option %q", opt)
		}
		switch key {
		case "disp-mode":
			vic, err := strconv.Atoi(val)
			if err != nil {
				return opts, fmt.Errorf("dcss: disp-mode: %w", err)
			}
			if _, ok := StandardMode(vic); !ok {
				return opts, fmt.Errorf("dcss: disp-mode %d not in mode table", vic)
			}
			opts.DispMode = vic
		case "disp-dev":
			opts.DispDev = val
		default:
			return opts, fmt.Errorf("dcss: unknown option %q", key)
		}
	}
	return opts, nil
}
