// Package bcd implements the nibble-swapped binary-coded-decimal encoding
// used by 3GPP TS 23.040 timestamp and validity-period fields: the low
// nibble of each octet carries the tens digit, the high nibble the units
// digit.
package bcd

import (
	"fmt"
)

// digits splits a byte into its low and high nibble, as tens/units digits.
func digits(b byte) (tens, units byte) {
	return b & 0x0f, b >> 4
}

// Decode converts a swapped-nibble BCD octet into its integer value.
func Decode(bcd byte) (int, error) {
	tens, units := digits(bcd)
	if tens > 9 || units > 9 {
		return 0, ErrInvalidOctet(bcd)
	}
	return int(tens)*10 + int(units), nil
}

// DecodeSigned converts a swapped-nibble BCD octet into its integer value,
// where bit 3 of the tens nibble carries the sign.
func DecodeSigned(bcd byte) (int, error) {
	tens := bcd & 0x07
	units := bcd >> 4
	if units > 9 {
		return 0, ErrInvalidOctet(bcd)
	}
	v := int(tens)*10 + int(units)
	if bcd&0x08 != 0 {
		v = -v
	}
	return v, nil
}

// Encode converts an integer in the range 0..99 into a swapped-nibble BCD
// octet: the tens digit in the low nibble, the units digit in the high
// nibble.
func Encode(u int) (byte, error) {
	if u < 0 || u > 99 {
		return 0, ErrInvalidInteger(u)
	}
	tens, units := u/10, u%10
	return byte(units<<4 | tens), nil
}

// EncodeSigned converts an integer in the range -79..79 into a swapped-nibble
// BCD octet, setting bit 3 of the tens nibble when the value is negative.
func EncodeSigned(s int) (byte, error) {
	if s < -79 || s > 79 {
		return 0, ErrInvalidInteger(s)
	}
	sign := 0
	if s < 0 {
		sign = 0x08
		s = -s
	}
	tens, units := s/10, s%10
	return byte(sign | units<<4 | tens), nil
}

// ErrInvalidOctet indicates that at least one of the nibbles in the BCD octet
// is invalid, i.e. greater than 9.
// For DecodeSigned only the upper (least significant) nibble can be invalid.
type ErrInvalidOctet byte

func (e ErrInvalidOctet) Error() string {
	return fmt.Sprintf("bcd: invalid octet: 0x%02x", byte(e))
}

// ErrInvalidInteger indicates that the integer is outside the range that can
// be encoded.
type ErrInvalidInteger int

func (e ErrInvalidInteger) Error() string {
	return fmt.Sprintf("bcd: invalid integer: %d", int(e))
}
