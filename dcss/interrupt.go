package dcss

import "sync"

// The DCSS has multiple interrupt sources which are all routed through the
// SoC's display interrupt steer. Handlers run in interrupt context: read
// status, clear the w1c bits, signal a waiter. Nothing else.
type InterruptFlag uint32

const (
	IntrCtxld   InterruptFlag = 1 << iota // context loader completion or error
	IntrDTG                               // timing generator line events
	IntrDPRCh1                            // prefetch done, channel 1
	IntrDPRCh2                            // prefetch done, channel 2
	IntrDPRCh3                            // prefetch done, channel 3
	IntrDec400d                           // decompressor events, channel 1
	IntrDtrcCh2                           // detiler events, channel 2
	IntrDtrcCh3                           // detiler events, channel 3

	intrFlagLast
)

var (
	intrMtx  sync.Mutex
	enabled  InterruptFlag
	handlers [8]func()
)

// SetHandler installs handler for the given interrupt line. A nil handler
// releases the line.
func SetHandler(flag InterruptFlag, handler func()) {
	intrMtx.Lock()
	defer intrMtx.Unlock()

	irq := 0
	for f := InterruptFlag(1); f != intrFlagLast; f = f << 1 {
		if f&flag != 0 {
			handlers[irq] = handler
			break
		}
		irq += 1
	}
}

func EnableInterrupts(mask InterruptFlag) {
	intrMtx.Lock()
	enabled |= mask
	intrMtx.Unlock()
}

func DisableInterrupts(mask InterruptFlag) {
	intrMtx.Lock()
	enabled &^= mask
	intrMtx.Unlock()
}

// Raise dispatches pending interrupt lines to their handlers. It is called
// by the device backend (hardware shim or simulator), possibly concurrently
// with driver code, which is exactly the concurrency a hard IRQ has.
func Raise(pending InterruptFlag) {
	intrMtx.Lock()
	mask := enabled
	hs := handlers
	intrMtx.Unlock()

	irq := 0
	for f := InterruptFlag(1); f != intrFlagLast; f = f << 1 {
		if f&pending != 0 && f&mask != 0 {
			if handler := hs[irq]; handler != nil {
				handler()
			}
		}
		irq += 1
	}
}
