// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	md5digest "github.com/minio/md5-digest"
)

const stdinName = "-"

type config struct {
	check       bool
	strings     bool
	concurrency int
	verbose     int
}

func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	cfg := config{}
	cmd := &cobra.Command{
		Use:   "md5sum [FILE]...",
		Short: "Print or check MD5 checksums",
		Long: `Print or check MD5 checksums.
With no FILE, or when FILE is -, read standard input.
MD5 is not collision resistant; do not use it for security.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.check && cfg.strings {
				return errors.New("--check and --string cannot be combined")
			}
			log := newLogger(errOut, cfg.verbose)
			opts := []md5digest.Option{md5digest.WithLogger(log)}
			if cmd.Flags().Changed("concurrency") {
				opts = append(opts, md5digest.WithConcurrency(cfg.concurrency))
			}
			server, err := md5digest.NewServer(opts...)
			if err != nil {
				return err
			}
			defer server.Close()

			r := &runner{server: server, in: in, out: out, errOut: errOut, log: log}
			switch {
			case cfg.strings:
				return r.sumStrings(args)
			case cfg.check:
				return r.checkFiles(defaultToStdin(args))
			default:
				return r.sumFiles(defaultToStdin(args))
			}
		},
	}
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	flags := cmd.Flags()
	flags.BoolVarP(&cfg.check, "check", "c", false, "read MD5 sums from the FILEs and check them")
	flags.BoolVarP(&cfg.strings, "string", "s", false, "treat arguments as strings to hash")
	flags.IntVarP(&cfg.concurrency, "concurrency", "j", 0, "number of checksums computed in parallel (default: logical cores)")
	flags.IntVarP(&cfg.verbose, "verbose", "v", 0, "log verbosity; 1 traces blocks, 2 traces rounds")
	return cmd
}

func newLogger(w io.Writer, verbosity int) logr.Logger {
	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintln(w, prefix, args)
			return
		}
		fmt.Fprintln(w, args)
	}, funcr.Options{Verbosity: verbosity})
}

func defaultToStdin(args []string) []string {
	if len(args) == 0 {
		return []string{stdinName}
	}
	return args
}

type runner struct {
	server *md5digest.Server
	in     io.Reader
	out    io.Writer
	errOut io.Writer
	log    logr.Logger
}

func (r *runner) read(name string) ([]byte, error) {
	if name == stdinName {
		b, err := io.ReadAll(r.in)
		return b, errors.Wrap(err, "reading standard input")
	}
	b, err := os.ReadFile(name)
	return b, errors.Wrapf(err, "reading %s", name)
}

func (r *runner) sumStrings(args []string) error {
	msgs := make([][]byte, len(args))
	for i, s := range args {
		msgs[i] = []byte(s)
	}
	sums, err := r.server.SumAll(msgs)
	if err != nil {
		return err
	}
	for i, s := range args {
		fmt.Fprintf(r.out, "%s  %q\n", hex.EncodeToString(sums[i][:]), s)
	}
	return nil
}

func (r *runner) sumFiles(names []string) error {
	msgs := make([][]byte, len(names))
	for i, name := range names {
		b, err := r.read(name)
		if err != nil {
			return err
		}
		msgs[i] = b
		r.log.V(1).Info("read input", "name", name, "bytes", len(b))
	}
	sums, err := r.server.SumAll(msgs)
	if err != nil {
		return err
	}
	for i, name := range names {
		fmt.Fprintf(r.out, "%s  %s\n", hex.EncodeToString(sums[i][:]), name)
	}
	return nil
}
