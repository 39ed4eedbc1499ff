// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

package md5digest

import (
	"runtime"

	"github.com/go-logr/logr"
	"github.com/klauspost/cpuid"
	"github.com/pkg/errors"
)

type options struct {
	log         logr.Logger
	concurrency int
}

// Option configures an Engine or a Server.
type Option func(opts *options) error

// WithLogger sets the logger used for tracing. Verbosity 1 logs the state
// after each block, verbosity 2 also logs every round.
func WithLogger(log logr.Logger) Option {
	return func(opts *options) error {
		opts.log = log
		return nil
	}
}

// WithConcurrency limits the number of checksums a Server computes at once.
func WithConcurrency(n int) Option {
	return func(opts *options) error {
		if n < 1 {
			return errors.Errorf("concurrency must be at least 1, got %d", n)
		}
		opts.concurrency = n
		return nil
	}
}

func newOptions(opts []Option) (options, error) {
	o := options{
		log:         logr.Discard(),
		concurrency: defaultConcurrency(),
	}
	for _, opt := range opts {
		if err := opt(&o); err != nil {
			return options{}, errors.Wrap(err, "invalid option")
		}
	}
	return o, nil
}

// defaultConcurrency - one worker per logical core
func defaultConcurrency() int {
	if n := cpuid.CPU.LogicalCores; n > 0 {
		return n
	}
	return runtime.GOMAXPROCS(0)
}
