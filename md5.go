// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

// Package md5digest computes the MD5 message digest of a byte sequence
// as defined in RFC 1321.
//
// MD5 is not collision resistant. Use it for checksums, legacy protocol
// compatibility and content identification only, never for security.
package md5digest

import (
	"encoding/hex"

	"github.com/go-logr/logr"
)

// Size - size of an MD5 checksum in bytes
const Size = 16

// BlockSize - block size of MD5 in bytes
const BlockSize = 64

// Verbosity levels used by the logging hook.
const (
	traceBlocks = 1
	traceRounds = 2
)

// Sum returns the MD5 checksum of p. Every call uses its own state, so Sum
// is safe for concurrent use.
func Sum(p []byte) [Size]byte {
	return sum(p, nil)
}

// SumHex returns the MD5 checksum of p as 32 lowercase hex characters.
func SumHex(p []byte) string {
	s := Sum(p)
	return hex.EncodeToString(s[:])
}

// SumString returns the hex MD5 checksum of the bytes of s, taken verbatim.
func SumString(s string) string {
	return SumHex([]byte(s))
}

func sum(p []byte, tr tracer) [Size]byte {
	dig := newDigest()
	blockGeneric(&dig, pad(p), tr)
	return dig.checkSum()
}

// Engine computes the same checksums as Sum and SumHex and reports
// its internal state through a logr.Logger when asked to.
type Engine struct {
	log logr.Logger
}

// New - create an Engine. Without WithLogger nothing is logged.
func New(opts ...Option) (*Engine, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	return &Engine{log: o.log}, nil
}

// Sum returns the MD5 checksum of p.
func (e *Engine) Sum(p []byte) [Size]byte {
	return sum(p, newLogTracer(e.log))
}

// SumHex returns the MD5 checksum of p in lowercase hex.
func (e *Engine) SumHex(p []byte) string {
	s := e.Sum(p)
	return hex.EncodeToString(s[:])
}

// logTracer forwards block and round state to a logger.
type logTracer struct {
	blocks logr.Logger
	rounds logr.Logger
	deep   bool
}

// newLogTracer returns nil when block tracing is disabled so the
// compression loop stays free of logging calls.
func newLogTracer(log logr.Logger) tracer {
	blocks := log.V(traceBlocks)
	if !blocks.Enabled() {
		return nil
	}
	rounds := log.V(traceRounds)
	return &logTracer{blocks: blocks, rounds: rounds, deep: rounds.Enabled()}
}

func (t *logTracer) block(n int, s [4]uint32) {
	t.blocks.Info("block compressed", "block", n,
		"A", hex32(s[0]), "B", hex32(s[1]), "C", hex32(s[2]), "D", hex32(s[3]))
}

func (t *logTracer) round(i int, a, b, c, d uint32) {
	if !t.deep {
		return
	}
	t.rounds.Info("round", "i", i, "a", hex32(a), "b", hex32(b), "c", hex32(c), "d", hex32(d))
}

func hex32(v uint32) string {
	return hex.EncodeToString([]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)})
}
