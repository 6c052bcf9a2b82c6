package directory

import "unicode/utf16"

// hashName is a 31-multiplier string hash over UTF-16 code units with
// 32-bit wraparound, returned as an absolute value. It must stay stable:
// every synthetic statistic of a directory record is derived from it.
func hashName(s string) int64 {
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
