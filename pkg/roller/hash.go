package roller

import "unicode/utf16"

// StableHash is the 31-multiplier rolling hash over UTF-16 code units with
// 32-bit signed wraparound, returned as an absolute value. The result is
// int64 so that the absolute value of math.MinInt32 fits on every platform.
func StableHash(s string) int64 {
	var h int32
	for _, c := range utf16.Encode([]rune(s)) {
		h = (h << 5) - h + int32(c)
	}
	v := int64(h)
	if v < 0 {
		v = -v
	}
	return v
}
