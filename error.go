// SPDX-License-Identifier: MIT
//
// Copyright © 2020 Kent Gibson <warthog618@gmail.com>.

package sms

import "fmt"

// CodecError wraps a failure to encode or decode an SMSMessage: malformed
// input byte structure, an unsupported MTI, or trailing bytes left over
// once the TPDU has been fully consumed.
type CodecError struct {
	Op  string // "decode" or "encode"
	Err error
}

func (e CodecError) Error() string {
	return fmt.Sprintf("sms: %s: %v", e.Op, e.Err)
}

func (e CodecError) Unwrap() error {
	return e.Err
}
