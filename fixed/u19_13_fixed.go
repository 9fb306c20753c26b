package fixed

import "fmt"

func U19_13U(i int) U19_13     { return U19_13(i << 13) }
func U19_13F(f float32) U19_13 { return U19_13(f * (1 << 13)) }

func (x U19_13) Floor() int          { return int(x >> 13) }
func (x U19_13) Ceil() int           { return int((uint32(x) + 1<<13 - 1) >> 13) }
func (x U19_13) Mul(y U19_13) U19_13 { return U19_13((uint64(x) * uint64(y)) >> 13) }
func (x U19_13) Div(y U19_13) U19_13 { return U19_13(uint64(x) << 13 / uint64(y)) }
func (x U19_13) Bits() uint32        { return uint32(x) }

func (x U19_13) String() string {
	const shift, mask = 13, 1<<13 - 1
	return fmt.Sprintf("%d:%04d", uint32(x>>shift), uint32(x&mask))
}
