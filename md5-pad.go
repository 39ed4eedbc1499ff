// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

package md5digest

import (
	"encoding/binary"
)

// trailer - return the padding that follows a message of n bytes:
// a single 0x80, zeros until 56 bytes mod 64, then the length in bits.
func trailer(n uint64) []byte {
	var tmp [64 + 8]byte
	tmp[0] = 0x80

	var t []byte
	if n%64 < 56 {
		t = tmp[:56-n%64+8]
	} else {
		t = tmp[:64+56-n%64+8]
	}

	// Length in bits, wrapping at 2^64.
	binary.LittleEndian.PutUint64(t[len(t)-8:], n<<3)
	return t
}

// pad - return a fresh copy of msg followed by its trailer. The input
// slice is never written to.
func pad(msg []byte) []byte {
	t := trailer(uint64(len(msg)))
	padded := make([]byte, 0, len(msg)+len(t))
	padded = append(padded, msg...)
	return append(padded, t...)
}
