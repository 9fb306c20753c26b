// Package fixed provides fixed-point arithmetic types used by the DCSS.
package fixed

// U19_13 holds an unsigned ratio with 13 fractional bits, the format of the
// scaler's scale-ratio registers.
type U19_13 uint32

// Ratio returns src/dst rounded to the nearest representable value.
func Ratio(src, dst int) U19_13 {
	return U19_13((uint32(src)<<13 + uint32(dst)>>1) / uint32(dst))
}
