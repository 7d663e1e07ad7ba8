// Copyright © 2020 Kent Gibson <warthog618@gmail.com>.
//
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package sms provides encoders and decoders for SMS TPDUs, framed with
// their optional SMSC header as exchanged with a GSM modem or SMSC.
package sms

import (
	"encoding/hex"

	"github.com/telkomkit/smsip/encoding/pdumode"
	"github.com/telkomkit/smsip/encoding/tpdu"
)

// SMSMessage pairs a decoded TPDU with its optional SMSC header.
//
// TPDU is a sealed interface; a type switch on MTI() (rather than a type
// assertion) is the documented way to discriminate the concrete TPDU kind.
type SMSMessage struct {
	SMSC *tpdu.Address
	TPDU tpdu.TPDU
}

// MTI returns the Message Type Indicator of the wrapped TPDU: 0 for
// SMS-DELIVER, 1 for SMS-SUBMIT, 2 for SMS-STATUS-REPORT.
func (m *SMSMessage) MTI() tpdu.MessageType {
	return m.TPDU.MTI()
}

// DecodeSMS decodes a binary SMS PDU - an optional SMSC header followed by
// a TP-DU - into a SMSMessage.
//
// drn indicates whether the TPDU originates from the MS (MO) or is destined
// for it (MT); the same MTI value identifies different TPDU kinds depending
// on direction.
func DecodeSMS(data []byte, drn tpdu.Direction) (*SMSMessage, error) {
	pdu, err := pdumode.UnmarshalBinary(data)
	if err != nil {
		return nil, CodecError{"decode", err}
	}
	d, err := newDirectionalDecoder(drn)
	if err != nil {
		return nil, CodecError{"decode", err}
	}
	t, err := d.Decode(pdu.TPDU, drn)
	if err != nil {
		return nil, CodecError{"decode", err}
	}
	return &SMSMessage{SMSC: smscOrNil(pdu.SMSC), TPDU: t}, nil
}

// DecodeSMSHex is DecodeSMS for a hex-encoded PDU. The hex string may be
// upper or lower case.
func DecodeSMSHex(s string, drn tpdu.Direction) (*SMSMessage, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, CodecError{"decode", err}
	}
	return DecodeSMS(b, drn)
}

// EncodeSMS marshals a SMSMessage into its binary PDU form: the SMSC header
// (or a single 0x00 byte if SMSC is nil) followed by the marshalled TPDU.
func EncodeSMS(m *SMSMessage) ([]byte, error) {
	tb, err := m.TPDU.MarshalBinary()
	if err != nil {
		return nil, CodecError{"encode", err}
	}
	var smsc pdumode.SMSCAddress
	if m.SMSC != nil {
		smsc = pdumode.SMSCAddress(*m.SMSC)
	}
	pdu := pdumode.PDU{SMSC: smsc, TPDU: tb}
	b, err := pdu.MarshalBinary()
	if err != nil {
		return nil, CodecError{"encode", err}
	}
	return b, nil
}

// EncodeSMSHex is EncodeSMS returning the lower-case hex form of the PDU.
func EncodeSMSHex(m *SMSMessage) (string, error) {
	b, err := EncodeSMS(m)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// newDirectionalDecoder returns the tpdu.Decoder configured with the set of
// TPDU kinds legal for drn.
func newDirectionalDecoder(drn tpdu.Direction) (*tpdu.Decoder, error) {
	if drn == tpdu.MO {
		return tpdu.NewDecoderMO()
	}
	return tpdu.NewDecoderMT()
}

// smscOrNil converts a decoded SMSCAddress to an *Address, or nil if the
// SMSC was absent (the zero value).
func smscOrNil(smsc pdumode.SMSCAddress) *tpdu.Address {
	if smsc.TOA == 0 && smsc.Addr == "" {
		return nil
	}
	a := tpdu.Address(smsc)
	return &a
}
