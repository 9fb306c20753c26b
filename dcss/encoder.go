package dcss

import (
	"errors"
	"sync"
)

// Encoder is the downstream display collaborator (HDMI or MIPI-DSI bridge).
// The DCSS only hands it the selected timing and gates its output.
type Encoder interface {
	SetMode(m Mode) error
	Enable() error
	Disable() error
}

// ErrDeferProbe reports that a named collaborator has not probed yet and the
// caller should retry later.
var ErrDeferProbe = errors.New("dcss: encoder not probed, defer")

var (
	encMtx   sync.Mutex
	encoders = map[string]Encoder{}
)

// RegisterEncoder makes enc available under name, typically from the
// encoder driver's probe.
func RegisterEncoder(name string, enc Encoder) {
	encMtx.Lock()
	encoders[name] = enc
	encMtx.Unlock()
}

// LookupEncoder resolves a disp-dev name. Fails with ErrDeferProbe when the
// encoder has not registered yet.
func LookupEncoder(name string) (Encoder, error) {
	encMtx.Lock()
	defer encMtx.Unlock()
	if enc, ok := encoders[name]; ok {
		return enc, nil
	}
	return nil, ErrDeferProbe
}
