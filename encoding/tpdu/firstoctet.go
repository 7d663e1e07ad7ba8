package tpdu

// FirstOctet is the first byte of an SMS TPDU: it carries the TP-MTI field
// plus a handful of type-specific flag bits whose meaning depends on which
// of DELIVER/SUBMIT/STATUS-REPORT the MTI selects.
type FirstOctet byte

const (
	// FoMTIMask masks the TP-MTI field.
	FoMTIMask = 0x3
	// FoMTIShift is the shift needed to move TP-MTI to/from bit 0.
	FoMTIShift = 0

	// FoMMS is the TP-MMS (More Messages to Send) bit.
	// DELIVER and STATUS-REPORT only.
	FoMMS = 0x4
	// FoRD is the TP-RD (Reject Duplicates) bit.
	// SUBMIT only.
	FoRD = 0x4

	// FoLP is the TP-LP (Loop Prevention) bit.
	// DELIVER and STATUS-REPORT only.
	FoLP = 0x8

	// FoVPFMask masks the TP-VPF field. SUBMIT only.
	FoVPFMask = 0x18
	// FoVPFShift is the shift needed to move TP-VPF to/from bit 0.
	FoVPFShift = 3

	// FoSRI is the TP-SRI bit. DELIVER only.
	FoSRI = 0x20
	// FoSRR is the TP-SRR bit. SUBMIT and COMMAND only.
	FoSRR = 0x20
	// FoSRQ is the TP-SRQ bit. STATUS-REPORT only.
	FoSRQ = 0x20

	// FoUDHI is the TP-UDHI bit, common to all three TPDU types.
	FoUDHI = 0x40

	// FoRP is the TP-RP bit. SUBMIT and DELIVER only.
	FoRP = 0x80
)

// MTI returns the message type field.
func (f FirstOctet) MTI() MessageType {
	return MessageType(f & FoMTIMask)
}

// WithMTI returns a FirstOctet with the TP-MTI field set.
func (f FirstOctet) WithMTI(mti MessageType) FirstOctet {
	f &^= FoMTIMask
	f |= FirstOctet(mti << FoMTIShift)
	return f
}

// MMS returns true if the TP-MMS flag is set.
func (f FirstOctet) MMS() bool {
	return f&FoMMS != 0
}

// RD returns true if the TP-RD flag is set.
func (f FirstOctet) RD() bool {
	return f&FoRD != 0
}

// LP returns true if the TP-LP flag is set.
func (f FirstOctet) LP() bool {
	return f&FoLP != 0
}

// VPF returns the TP-VPF field.
func (f FirstOctet) VPF() ValidityPeriodFormat {
	return ValidityPeriodFormat((f & FoVPFMask) >> FoVPFShift)
}

// WithVPF returns a FirstOctet with the TP-VPF field set.
func (f FirstOctet) WithVPF(vpf ValidityPeriodFormat) FirstOctet {
	f &^= FoVPFMask
	f |= FirstOctet(vpf << FoVPFShift)
	return f
}

// SRI returns true if the TP-SRI flag is set.
func (f FirstOctet) SRI() bool {
	return f&FoSRI != 0
}

// SRR returns true if the TP-SRR flag is set.
func (f FirstOctet) SRR() bool {
	return f&FoSRR != 0
}

// SRQ returns true if the TP-SRQ flag is set.
func (f FirstOctet) SRQ() bool {
	return f&FoSRQ != 0
}

// UDHI returns true if the TP-UDHI flag is set.
func (f FirstOctet) UDHI() bool {
	return f&FoUDHI != 0
}

// RP returns true if the TP-RP flag is set.
func (f FirstOctet) RP() bool {
	return f&FoRP != 0
}
