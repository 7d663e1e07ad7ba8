// SPDX-License-Identifier: MIT
//
// Copyright © 2018 Kent Gibson <warthog618@gmail.com>.

package pdumode

import (
	"github.com/telkomkit/smsip/encoding/semioctet"
	"github.com/telkomkit/smsip/encoding/tpdu"
)

// SMSCAddress is the address of the SMSC.
// The SMSCAddress is similar to a TPDU Address, but the binary form is
// marshalled differently (a length-of-following-octets byte rather than a
// length-of-digits byte), hence the subtype. An absent SMSC is represented
// by the zero value and marshals to a single 0x00 length byte.
type SMSCAddress tpdu.Address

// MarshalBinary marshals the SMSC Address into binary.
// An absent address (the zero value) marshals to a single 0x00 byte.
func (a *SMSCAddress) MarshalBinary() (dst []byte, err error) {
	if a.TOA == 0 && a.Addr == "" {
		return []byte{0x00}, nil
	}
	addr, err := semioctet.Encode([]byte(a.Addr))
	if err != nil {
		return nil, tpdu.EncodeError("addr", err)
	}
	l := len(addr) + 1 // in octets and includes the toa
	dst = make([]byte, 2, l+1)
	dst[0] = byte(l)
	dst[1] = a.TOA
	dst = append(dst, addr...)
	return dst, nil
}

// UnmarshalBinary unmarshals an SMSC Address from the head of a PDU.
// It returns the number of bytes read from src, and any error detected while
// decoding. A leading 0x00 length byte decodes to the absent (zero value)
// address and consumes a single byte.
func (a *SMSCAddress) UnmarshalBinary(src []byte) (int, error) {
	if len(src) < 1 {
		return 0, tpdu.DecodeError("length", 0, tpdu.ErrUnderflow)
	}
	l := int(src[0]) // len is octets including toa
	if l == 0 {
		*a = SMSCAddress{}
		return 1, nil
	}
	if len(src) < 2 {
		return 1, tpdu.DecodeError("toa", 1, tpdu.ErrUnderflow)
	}
	toa := src[1]
	ri := 2
	l-- // encoded length includes toa
	if len(src) < ri+l {
		return len(src), tpdu.DecodeError("addr", ri, tpdu.ErrUnderflow)
	}
	baddr, n, err := semioctet.Decode(make([]byte, l*2), src[ri:ri+l])
	ri += n
	if err != nil {
		return ri, tpdu.DecodeError("addr", ri-n, err)
	}
	a.Addr = string(baddr)
	a.TOA = toa
	return ri, nil
}
