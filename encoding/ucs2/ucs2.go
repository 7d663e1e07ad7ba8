// Package ucs2 converts between the UCS-2 (big-endian, 16-bit) character
// encoding used for SMS User Data and Go runes.
package ucs2

import (
	"encoding/binary"
	"errors"
	"fmt"
	"unicode/utf16"
)

// ErrInvalidLength indicates the source byte slice has an odd length, so it
// cannot be split into 16-bit code units.
var ErrInvalidLength = errors.New("ucs2: length must be even")

// ErrDanglingSurrogate indicates a UTF-16 surrogate at the end of the source
// has no matching low/high half to pair with.
type ErrDanglingSurrogate []byte

func (e ErrDanglingSurrogate) Error() string {
	return fmt.Sprintf("ucs2: dangling surrogate: %#v", []byte(e))
}

// Decode converts UCS2-packed src into runes. src must have even length,
// since each character occupies a 16-bit big-endian code unit.
func Decode(src []byte) ([]rune, error) {
	if len(src) == 0 {
		return nil, nil
	}
	if len(src)%2 != 0 {
		return nil, ErrInvalidLength
	}
	units := len(src) / 2
	out := make([]rune, 0, units)
	for i := 0; i+1 < len(src); i += 2 {
		code := rune(binary.BigEndian.Uint16(src[i:]))
		if utf16.IsSurrogate(code) {
			if i+3 >= len(src) {
				return out, ErrDanglingSurrogate(src[i:])
			}
			i += 2
			low := rune(binary.BigEndian.Uint16(src[i:]))
			code = utf16.DecodeRune(code, low)
		}
		out = append(out, code)
	}
	return out, nil
}

// Encode converts runes into UCS2-packed bytes, expanding runes outside the
// basic multilingual plane into UTF-16 surrogate pairs first.
func Encode(src []rune) []byte {
	if len(src) == 0 {
		return nil
	}
	units := utf16.Encode(src)
	out := make([]byte, len(units)*2)
	for i, u := range units {
		binary.BigEndian.PutUint16(out[i*2:], uint16(u))
	}
	return out
}
