// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

package md5digest

import (
	"encoding/binary"
	"math/bits"
)

// MD5 initialization constants
const (
	init0 = 0x67452301
	init1 = 0xefcdab89
	init2 = 0x98badcfe
	init3 = 0x10325476
)

// Per-round left rotation amounts.
var shifts = [64]int{
	7, 12, 17, 22, 7, 12, 17, 22, 7, 12, 17, 22, 7, 12, 17, 22,
	5, 9, 14, 20, 5, 9, 14, 20, 5, 9, 14, 20, 5, 9, 14, 20,
	4, 11, 16, 23, 4, 11, 16, 23, 4, 11, 16, 23, 4, 11, 16, 23,
	6, 10, 15, 21, 6, 10, 15, 21, 6, 10, 15, 21, 6, 10, 15, 21,
}

// MD5 magic numbers, floor(abs(sin(i+1)) * 2^32).
var md5consts = [64]uint32{
	0xd76aa478, 0xe8c7b756, 0x242070db, 0xc1bdceee,
	0xf57c0faf, 0x4787c62a, 0xa8304613, 0xfd469501,
	0x698098d8, 0x8b44f7af, 0xffff5bb1, 0x895cd7be,
	0x6b901122, 0xfd987193, 0xa679438e, 0x49b40821,
	0xf61e2562, 0xc040b340, 0x265e5a51, 0xe9b6c7aa,
	0xd62f105d, 0x02441453, 0xd8a1e681, 0xe7d3fbc8,
	0x21e1cde6, 0xc33707d6, 0xf4d50d87, 0x455a14ed,
	0xa9e3e905, 0xfcefa3f8, 0x676f02d9, 0x8d2a4c8a,
	0xfffa3942, 0x8771f681, 0x6d9d6122, 0xfde5380c,
	0xa4beea44, 0x4bdecfa9, 0xf6bb4b60, 0xbebfbc70,
	0x289b7ec6, 0xeaa127fa, 0xd4ef3085, 0x04881d05,
	0xd9d4d039, 0xe6db99e5, 0x1fa27cf8, 0xc4ac5665,
	0xf4292244, 0x432aff97, 0xab9423a7, 0xfc93a039,
	0x655b59c3, 0x8f0ccc92, 0xffeff47d, 0x85845dd1,
	0x6fa87e4f, 0xfe2ce6e0, 0xa3014314, 0x4e0811a1,
	0xf7537e82, 0xbd3af235, 0x2ad7d2bb, 0xeb86d391,
}

// digest - running state A, B, C, D of a single MD5 computation
type digest struct {
	s [4]uint32
}

func newDigest() digest {
	return digest{s: [4]uint32{init0, init1, init2, init3}}
}

// tracer receives the working variables after every round
// and the state after every block when tracing is enabled.
type tracer interface {
	block(n int, s [4]uint32)
	round(i int, a, b, c, d uint32)
}

// blockGeneric - compress every complete 64 byte block of p into dig.
// Trailing bytes that do not fill a block are ignored.
func blockGeneric(dig *digest, p []byte, tr tracer) {
	var x [16]uint32
	for n := 0; len(p) >= BlockSize; n++ {
		decodeBlock(&x, p[:BlockSize])
		compress(dig, &x, tr)
		if tr != nil {
			tr.block(n, dig.s)
		}
		p = p[BlockSize:]
	}
}

// decodeBlock packs 64 bytes into 16 little-endian words.
func decodeBlock(x *[16]uint32, p []byte) {
	_ = p[BlockSize-1] // bounds check hint to compiler
	for i := range x {
		x[i] = binary.LittleEndian.Uint32(p[i*4:])
	}
}

// compress runs the 64 rounds over one block and folds
// the result back into the state.
func compress(dig *digest, x *[16]uint32, tr tracer) {
	a, b, c, d := dig.s[0], dig.s[1], dig.s[2], dig.s[3]

	for i := 0; i < 64; i++ {
		var f uint32
		var g int
		switch i >> 4 {
		case 0:
			f, g = (b&c)|(^b&d), i
		case 1:
			f, g = (d&b)|(^d&c), (5*i+1)&15
		case 2:
			f, g = b^c^d, (3*i+5)&15
		default:
			f, g = c^(b|^d), (7*i)&15
		}
		f += a + md5consts[i] + x[g]
		a, d, c = d, c, b
		b += bits.RotateLeft32(f, shifts[i])

		if tr != nil {
			tr.round(i, a, b, c, d)
		}
	}

	dig.s[0] += a
	dig.s[1] += b
	dig.s[2] += c
	dig.s[3] += d
}

// checkSum serializes A, B, C, D little-endian.
func (dig *digest) checkSum() (sum [Size]byte) {
	binary.LittleEndian.PutUint32(sum[0:], dig.s[0])
	binary.LittleEndian.PutUint32(sum[4:], dig.s[1])
	binary.LittleEndian.PutUint32(sum[8:], dig.s[2])
	binary.LittleEndian.PutUint32(sum[12:], dig.s[3])
	return
}
