package scaler

// coef is the fixed 16-phase x 7-tap filter, a windowed sinc with 10
// fractional bits. Taps are stored as 12-bit two's complement; every phase
// sums to 1<<10 so the filter has unity gain.
var coef = [16][7]uint32{
	{0x000, 0x000, 0x000, 0x400, 0x000, 0x000, 0x000},
	{0x000, 0x00c, 0xfd0, 0x3fa, 0x039, 0xff1, 0x000},
	{0x000, 0x015, 0xfa9, 0x3e3, 0x07c, 0xfe1, 0x002},
	{0x000, 0x01b, 0xf8c, 0x3c2, 0x0c5, 0xfce, 0x004},
	{0x000, 0x01f, 0xf78, 0x391, 0x116, 0xfba, 0x008},
	{0x000, 0x020, 0xf6c, 0x357, 0x16b, 0xfa6, 0x00c},
	{0x000, 0x01f, 0xf68, 0x314, 0x1c2, 0xf93, 0x010},
	{0x000, 0x01d, 0xf6c, 0x2c4, 0x21b, 0xf83, 0x015},
	{0x000, 0x019, 0xf75, 0x272, 0x272, 0xf75, 0x019},
	{0x000, 0x015, 0xf83, 0x21a, 0x2c5, 0xf6c, 0x01d},
	{0x000, 0x010, 0xf93, 0x1c4, 0x312, 0xf68, 0x01f},
	{0x000, 0x00c, 0xfa6, 0x16b, 0x357, 0xf6c, 0x020},
	{0x000, 0x008, 0xfba, 0x115, 0x392, 0xf78, 0x01f},
	{0x000, 0x004, 0xfce, 0x0c6, 0x3c1, 0xf8c, 0x01b},
	{0x000, 0x002, 0xfe1, 0x07b, 0x3e4, 0xfa9, 0x015},
	{0x000, 0x000, 0xff1, 0x03a, 0x3f9, 0xfd0, 0x00c},
}
