// Package tpdu provides the core TPDU types and conversions to and from
// their binary form.
package tpdu

import (
	"github.com/telkomkit/smsip/encoding/gsm7"
)

// BaseTPDU holds the fields common to all concrete SMS TPDUs (Deliver,
// Submit, StatusReport) and the User Data encode/decode logic shared by all
// of them.
type BaseTPDU struct {
	firstOctet byte
	pid        byte
	dcs        DCS
	// udhiMask is the bit of firstOctet that carries the TP-UDHI flag. Each
	// concrete TPDU constructor sets it; when it is zero, FoUDHI is used.
	udhiMask byte
	udh      UserDataHeader
	// ud contains the short message from the User Data. It does not include
	// the User Data Header, which is provided in udh. The interpretation of
	// ud depends on the Alphabet.
	// For Alpha7Bit, ud is an array of GSM7 septets, each septet stored in the
	// lower 7 bits of a byte. These have NOT been converted to UTF8; use the
	// gsm7 package for that.
	// For AlphaUCS2, ud is an array of UCS2 characters packed into a byte
	// array in Big Endian; use the ucs2 package to convert to UTF8.
	// For Alpha8Bit, ud contains the raw octets.
	ud UserData
	// udAlphabet, when non-nil, overrides the DCS-derived alphabet when
	// encoding ud. It has no effect on decoding, which always follows the
	// alphabet carried in the received DCS.
	udAlphabet *Alphabet
}

// FirstOctet returns the raw first octet of the TPDU.
func (t *BaseTPDU) FirstOctet() byte {
	return t.firstOctet
}

// SetFirstOctet sets the raw first octet of the TPDU.
func (t *BaseTPDU) SetFirstOctet(fo byte) {
	t.firstOctet = fo
}

// PID returns the Protocol Identifier field.
func (t *BaseTPDU) PID() byte {
	return t.pid
}

// SetPID sets the Protocol Identifier field.
func (t *BaseTPDU) SetPID(pid byte) {
	t.pid = pid
}

// DCS returns the Data Coding Scheme field.
func (t *BaseTPDU) DCS() DCS {
	return t.dcs
}

// SetDCS sets the Data Coding Scheme field.
func (t *BaseTPDU) SetDCS(dcs DCS) {
	t.dcs = dcs
}

// Alphabet returns the alphabet field from the DCS of the SMS TPDU.
func (t *BaseTPDU) Alphabet() (Alphabet, error) {
	return t.dcs.Alphabet()
}

// MTI returns the MessageType from the first octet of the SMS TPDU.
func (t *BaseTPDU) MTI() MessageType {
	return MessageType(t.firstOctet & 0x3)
}

// UD returns the User Data short message, excluding the UDH.
func (t *BaseTPDU) UD() UserData {
	return t.ud
}

// SetUD sets the User Data short message, excluding the UDH.
func (t *BaseTPDU) SetUD(ud UserData) {
	t.ud = ud
}

// UDAlphabet returns the per-payload alphabet override set by SetUDAlphabet,
// if any, and whether an override is set.
func (t *BaseTPDU) UDAlphabet() (Alphabet, bool) {
	if t.udAlphabet == nil {
		return Alpha7Bit, false
	}
	return *t.udAlphabet, true
}

// SetUDAlphabet overrides the alphabet used to encode ud, regardless of what
// the DCS indicates. This mirrors a payload that was built for a specific
// alphabet before the DCS byte carrying that alphabet was finalised.
func (t *BaseTPDU) SetUDAlphabet(a Alphabet) {
	t.udAlphabet = &a
}

// ClearUDAlphabet removes any alphabet override set by SetUDAlphabet,
// reverting encodeUserData to deriving the alphabet from the DCS.
func (t *BaseTPDU) ClearUDAlphabet() {
	t.udAlphabet = nil
}

// UDH returns the User Data Header.
func (t *BaseTPDU) UDH() UserDataHeader {
	return t.udh
}

// SetUDH sets the User Data Header of the TPDU, toggling the UDHI bit of the
// first octet to match.
func (t *BaseTPDU) SetUDH(udh UserDataHeader) {
	if len(udh) == 0 {
		t.udh = nil
		t.firstOctet = t.firstOctet &^ t.udhiBit()
	} else {
		t.udh = udh
		t.firstOctet = t.firstOctet | t.udhiBit()
	}
}

// udhiBit returns udhiMask, or FoUDHI when no mask has been set.
func (t *BaseTPDU) udhiBit() byte {
	if t.udhiMask == 0 {
		return byte(FoUDHI)
	}
	return t.udhiMask
}

// UDHI returns the User Data Header Indicator bit from the SMS TPDU first
// octet.
// This is generally the same as testing the length of the udh - unless the
// dcs has been intentionally overwritten to create an inconsistency.
func (t *BaseTPDU) UDHI() bool {
	return t.firstOctet&t.udhiBit() != 0
}

// sealed marks BaseTPDU, and everything that embeds it, as satisfying TPDU.
func (t *BaseTPDU) sealed() {}

// decodeUserData unmarshals the User Data field from the binary src.
func (t *BaseTPDU) decodeUserData(src []byte) error {
	if len(src) < 1 {
		return DecodeError("udl", 0, ErrUnderflow)
	}
	udl := int(src[0])
	if udl == 0 {
		return nil
	}
	var udh UserDataHeader
	sml7 := 0
	ri := 1
	alphabet, err := t.Alphabet()
	if err != nil {
		return DecodeError("alphabet", ri, err)
	}
	if alphabet == Alpha7Bit {
		sml7 = udl
		// length is septets - convert to octets
		udl = (sml7*7 + 7) / 8
	}
	if len(src) < ri+udl {
		return DecodeError("sm", ri, ErrUnderflow)
	}
	if len(src) > ri+udl {
		return DecodeError("ud", ri, ErrOverlength)
	}
	var udhl int // Note that in this context udhl includes itself.
	udhi := t.UDHI()
	if udhi {
		udh = make(UserDataHeader, 0)
		l, err := udh.UnmarshalBinary(src[ri:])
		if err != nil {
			return DecodeError("udh", ri, err)
		}
		udhl = l
		ri += udhl
	}
	if ri == len(src) {
		t.udh = udh
		return nil
	}
	switch alphabet {
	case Alpha7Bit:
		sm, err := decode7Bit(sml7, udhl, src[ri:])
		if err != nil {
			return DecodeError("sm", ri, err)
		}
		t.ud = sm
	case AlphaUCS2:
		if len(src[ri:])&0x01 == 0x01 {
			return DecodeError("sm", ri, ErrOverlength)
		}
		fallthrough
	case Alpha8Bit:
		t.ud = append([]byte(nil), src[ri:]...)
	}
	t.udh = udh
	return nil
}

// decode7Bit decodes the GSM7 encoded binary src into a byte array.
// sml is the number of septets expected, and udhl is the number of octets in
// the UDH, including the UDHL field.
func decode7Bit(sml, udhl int, src []byte) ([]byte, error) {
	var fillBits int
	if udhl > 0 {
		if dangling := udhl % 7; dangling != 0 {
			fillBits = 7 - dangling
		}
		sml = sml - (udhl*8+fillBits)/7
	}
	sm := gsm7.Unpack7Bit(src, fillBits)
	// this is a double check on the math and should never trip...
	if len(sm) < sml {
		return nil, ErrUnderflow
	}
	if len(sm) > sml {
		if len(sm) > sml+1 || sm[sml] != 0 {
			return nil, ErrOverlength
		}
		// drop trailing 0 septet
		sm = sm[:sml]
	}
	return sm, nil
}

// encodeUserData marshals the User Data into binary.
// The User Data Header is also encoded if present.
// If Alphabet is GSM7 then the User Data is assumed to be unpacked GSM7
// septets and is packed prior to encoding.
// For other alphabet values the User Data is encoded as is.
func (t *BaseTPDU) encodeUserData() (b []byte, err error) {
	udh, err := t.udh.MarshalBinary()
	if err != nil {
		return nil, EncodeError("udh", err)
	}
	ud := t.ud
	alphabet, ok := t.UDAlphabet()
	if !ok {
		var err error
		alphabet, err = t.Alphabet()
		if err != nil {
			return nil, EncodeError("alphabet", err)
		}
	}
	udl := len(t.ud) // assume octets
	switch alphabet {
	case Alpha7Bit:
		fillBits := 0
		if dangling := len(udh) % 7; dangling != 0 {
			fillBits = 7 - dangling
		}
		ud = gsm7.Pack7Bit(t.ud, fillBits)
		// udl is in septets so convert
		if udl > 0 {
			udl = udl + (len(udh)*8+fillBits)/7
		} else {
			udl = (len(udh) * 8) / 7
		}
	case AlphaUCS2:
		if udl&0x01 == 0x01 {
			return nil, EncodeError("sm", ErrOddUCS2Length)
		}
		fallthrough
	case Alpha8Bit:
		// udl is in octets
		udl = udl + len(udh)
	}
	b = make([]byte, 0, 1+len(udh)+len(ud))
	b = append(b, byte(udl))
	b = append(b, udh...)
	b = append(b, ud...)
	return b, nil
}

// MessageType identifies the type of TPDU encoded in a binary stream, as
// defined in 3GPP TS 23.040 Section 9.2.3.1.
// Note that the direction of the TPDU must also be known to determine how to
// interpret the TPDU.
type MessageType int

const (
	// MtDeliver identifies the message as a SMS-Deliver TPDU.
	MtDeliver MessageType = iota
	// MtSubmit identifies the message as a SMS-Submit TPDU.
	MtSubmit
	// MtStatusReport identifies the message as a SMS-Status-Report TPDU.
	MtStatusReport
	// MtReserved identifies the message as an unknown type of SMS TPDU.
	MtReserved
)

// Direction indicates the direction that the SMS TPDU is carried.
type Direction int

const (
	// MT indicates that the SMS TPDU is intended to be received by the MS.
	MT Direction = iota
	// MO indicates that the SMS TPDU is intended to be sent by the MS.
	MO
)
