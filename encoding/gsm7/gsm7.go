// Package gsm7 implements the GSM 03.38 default 7-bit alphabet: the mapping
// between characters and septets (basic table plus the escape-extension
// table), and the LSB-first bit packing of septets into an octet stream.
package gsm7

import "fmt"

const (
	esc byte = 0x1b
	sp  byte = 0x20
)

// charset maps a GSM7 septet value to the UTF-8 rune it represents, and the
// mirror map for encoding.
type decSet map[byte]rune
type encSet map[rune]byte

var (
	dset decSet
	eset encSet

	// dext is the escape-extension table: 0x1B followed by one of these
	// values selects the extended character instead of the basic-table one.
	dext = decSet{
		0x0a: '\f',
		0x0d: '\n',
		0x14: '^',
		0x28: '{',
		0x29: '}',
		0x2f: '\\',
		0x3c: '[',
		0x3d: '~',
		0x3e: ']',
		0x40: '|',
		0x65: '€',
	}
	eext encSet
)

func init() {
	// the basic decoder mapping table, in string form, index == septet value.
	b := []rune(
		"@£$¥èéùìòÇ\nØø\rÅåΔ_ΦΓΛΩΠΨΣΘΞ\x1bÆæßÉ !\"#¤%&'()*+,-./0123456789:;<=>?" +
			"¡ABCDEFGHIJKLMNOPQRSTUVWXYZÄÖÑÜ§¿abcdefghijklmnopqrstuvwxyzäöñüà")
	dset = make(decSet, len(b))
	eset = make(encSet, len(b))
	for i, r := range b {
		dset[byte(i)] = r
		eset[r] = byte(i)
	}
	eext = make(encSet, len(dext))
	for k, v := range dext {
		eext[v] = k
	}
}

// Decoder converts unpacked GSM7 septets (one per byte, value 0..127) to
// UTF-8.
type Decoder struct {
	strict bool
}

// Encoder converts UTF-8 to unpacked GSM7 septets (one per byte).
type Encoder struct{}

// NewDecoder returns a GSM7 decoder using the default alphabet.
func NewDecoder() Decoder { return Decoder{} }

// NewEncoder returns a GSM7 encoder using the default alphabet.
func NewEncoder() Encoder { return Encoder{} }

// Strict makes the Decoder return ErrInvalidSeptet for an unmapped septet,
// instead of the default behaviour of substituting a space (the same lenient
// behaviour 3GPP decoders traditionally use, and the open question flagged
// in the spec: silent substitution may mask corrupt data).
func (d Decoder) Strict() Decoder {
	d.strict = true
	return d
}

// Decode converts src (one septet per byte) into UTF-8 text.
func (d Decoder) Decode(src []byte) ([]byte, error) {
	dst := make([]byte, 0, len(src))
	escaped := false
	for _, g := range src {
		if escaped {
			escaped = false
			if g == esc {
				dst = append(dst, sp)
				continue
			}
			if m, ok := dext[g]; ok {
				dst = append(dst, []byte(string(m))...)
				continue
			}
			if d.strict {
				return nil, ErrInvalidSeptet(g)
			}
			dst = append(dst, sp)
			continue
		}
		if g == esc {
			escaped = true
			continue
		}
		if m, ok := dset[g]; ok {
			dst = append(dst, []byte(string(m))...)
			continue
		}
		if d.strict {
			return nil, ErrInvalidSeptet(g)
		}
		dst = append(dst, sp)
	}
	if escaped {
		dst = append(dst, sp)
	}
	return dst, nil
}

// Encode converts UTF-8 text src into unpacked GSM7 septets (one per byte).
// Basic-table hits emit one septet; escape-extension hits emit two (0x1B
// followed by the extension index). An unmappable rune is an error.
func (e Encoder) Encode(src []byte) ([]byte, error) {
	dst := make([]byte, 0, len(src))
	for _, u := range string(src) {
		if g, ok := eset[u]; ok {
			dst = append(dst, g)
			continue
		}
		if g, ok := eext[u]; ok {
			dst = append(dst, esc, g)
			continue
		}
		return nil, ErrInvalidUTF8(u)
	}
	return dst, nil
}

// ErrInvalidSeptet indicates a septet value with no mapping in the alphabet
// or its extension table.
type ErrInvalidSeptet byte

func (e ErrInvalidSeptet) Error() string {
	return fmt.Sprintf("gsm7: invalid septet 0x%02x", int(e))
}

// ErrInvalidUTF8 indicates a rune with no GSM7 encoding.
type ErrInvalidUTF8 rune

func (e ErrInvalidUTF8) Error() string {
	return fmt.Sprintf("gsm7: invalid utf8 '%c' (%U)", rune(e), int(e))
}
