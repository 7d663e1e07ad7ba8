package gsm7

// Pack7Bit packs an array of septets into an 8bit array as per the packing
// rules defined in 3GPP TS 23.038 Section 6.1.2.1
//
// The fillBits is the number of bits of pad to place at the beginning of the
// packed array, as the packed septets may not start on an octet boundary.
//
// Packed arrays containing 8n or 8n-1 digits both return 8n septets. The
// caller must be aware of the number of expected digits in order to
// distinguish between a 0 septet ending the sequence in the 8n case, and 0
// padding in the 8n-1 case.
func Pack7Bit(septets []byte, fillBits int) []byte {
	if len(septets) == 0 {
		return append(septets[:0:0], septets...)
	}
	packed := make([]byte, 0, (len(septets)*7+7+fillBits)/8)
	var carry byte
	pending := uint(fillBits)
	for _, sep := range septets {
		if pending == 0 {
			// no carried bits yet, not enough for a full octet
			carry = sep
			pending = 7
			continue
		}
		octet := (carry | sep<<pending) & 0xff
		packed = append(packed, octet)
		carry = sep >> (8 - pending)
		pending--
	}
	if pending != 0 {
		packed = append(packed, carry)
	}
	return packed
}

// Unpack7Bit unpacks septets, packed into an 8bit array as per the packing
// rules defined in 3GPP TS 23.038 Section 6.1.2.1, into an array of septets.
//
// The fillBits is the number of bits of pad at the beginning of the src, as
// the packed septets may not start on an octet boundary.
func Unpack7Bit(packed []byte, fillBits int) []byte {
	if len(packed) == 0 {
		return append(packed[:0:0], packed...)
	}
	septets := make([]byte, 0, (len(packed)*8+6+fillBits)/7)
	var carry byte
	var taken uint
	if fillBits != 0 {
		taken = uint(7 - fillBits)
	}
	for _, octet := range packed {
		carry = (carry | octet<<taken) & 0x7f
		septets = append(septets, carry)
		if taken == 6 {
			// only one bit of octet was needed, so a full septet remains
			septets = append(septets, octet>>1)
			taken = 0
			carry = 0
		} else {
			// each octet contributes one more carried bit than the last
			taken++
			carry = octet >> (8 - taken)
		}
	}
	if fillBits > 0 {
		septets = septets[1:]
	}
	return septets
}
