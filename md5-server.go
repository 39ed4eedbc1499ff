// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

package md5digest

import (
	"encoding/hex"
	"sync"

	"github.com/go-logr/logr"
	"github.com/klauspost/cpuid"
	"github.com/pkg/errors"
	"github.com/remeh/sizedwaitgroup"
)

// ErrServerClosed is returned by Server methods called after Close.
var ErrServerClosed = errors.New("md5 server closed")

// Message to send across input channel
type blockInput struct {
	msg   []byte
	sumCh chan [Size]byte
}

// Server - computes many independent checksums in parallel
type Server struct {
	mu       sync.RWMutex
	closed   bool
	blocksCh chan blockInput // Input channel
	done     chan struct{}   // Closed once all in-flight work has finished
	log      logr.Logger
	workers  int
}

// NewServer - create a Server and start its dispatcher
func NewServer(opts ...Option) (*Server, error) {
	o, err := newOptions(opts)
	if err != nil {
		return nil, err
	}
	s := &Server{
		blocksCh: make(chan blockInput),
		done:     make(chan struct{}),
		log:      o.log,
		workers:  o.concurrency,
	}
	s.log.V(1).Info("starting md5 server", "cpu", cpuid.CPU.BrandName, "workers", s.workers)

	// Start a single thread for reading from the input channel
	go s.process()
	return s, nil
}

// process - Sole handler for reading from the input channel
func (s *Server) process() {
	swg := sizedwaitgroup.New(s.workers)
	for block := range s.blocksCh {
		swg.Add()
		go func(block blockInput) {
			defer swg.Done()
			block.sumCh <- sum(block.msg, newLogTracer(s.log))
		}(block)
	}
	swg.Wait()
	close(s.done)
}

// submit queues msg and returns the channel its checksum is delivered on.
// The caller must hold s.mu for reading.
func (s *Server) submit(msg []byte) chan [Size]byte {
	sumCh := make(chan [Size]byte, 1)
	s.blocksCh <- blockInput{msg: msg, sumCh: sumCh}
	return sumCh
}

// Sum - return the MD5 checksum of p. p must not be modified until Sum returns.
func (s *Server) Sum(p []byte) ([Size]byte, error) {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return [Size]byte{}, ErrServerClosed
	}
	sumCh := s.submit(p)
	s.mu.RUnlock()
	return <-sumCh, nil
}

// SumHex - return the MD5 checksum of p in lowercase hex.
func (s *Server) SumHex(p []byte) (string, error) {
	sum, err := s.Sum(p)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sum[:]), nil
}

// SumAll - return the checksums of all msgs, in the order given.
func (s *Server) SumAll(msgs [][]byte) ([][Size]byte, error) {
	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil, ErrServerClosed
	}
	sumChs := make([]chan [Size]byte, len(msgs))
	for i, msg := range msgs {
		sumChs[i] = s.submit(msg)
	}
	s.mu.RUnlock()

	sums := make([][Size]byte, len(msgs))
	for i, sumCh := range sumChs {
		sums[i] = <-sumCh
	}
	return sums, nil
}

// Close - stop accepting work and wait for in-flight checksums to finish.
// Calling Close more than once is harmless.
func (s *Server) Close() {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.blocksCh)
	}
	s.mu.Unlock()
	<-s.done
}
