// Copyright (c) 2020 MinIO Inc. All rights reserved.
// Use of this source code is governed by a license that can be
// found in the LICENSE file.

package main

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	md5digest "github.com/minio/md5-digest"
)

// checkLine - one "<hex>  <name>" entry of a checksum list
type checkLine struct {
	want [md5digest.Size]byte
	name string
}

// parseCheckLine accepts the text and binary ("<hex> *<name>") forms
// written by md5sum.
func parseCheckLine(line string) (checkLine, bool) {
	const hexLen = 2 * md5digest.Size
	if len(line) < hexLen+3 || line[hexLen] != ' ' {
		return checkLine{}, false
	}
	if line[hexLen+1] != ' ' && line[hexLen+1] != '*' {
		return checkLine{}, false
	}
	var cl checkLine
	if _, err := hex.Decode(cl.want[:], []byte(line[:hexLen])); err != nil {
		return checkLine{}, false
	}
	cl.name = line[hexLen+2:]
	return cl, true
}

func (r *runner) checkFiles(lists []string) error {
	var entries []checkLine
	for _, list := range lists {
		b, err := r.read(list)
		if err != nil {
			return err
		}
		sc := bufio.NewScanner(bytes.NewReader(b))
		lineNo := 0
		for sc.Scan() {
			lineNo++
			line := strings.TrimRight(sc.Text(), "\r")
			if line == "" {
				continue
			}
			cl, ok := parseCheckLine(line)
			if !ok {
				fmt.Fprintf(r.errOut, "md5sum: %s: %d: improperly formatted MD5 checksum line\n", list, lineNo)
				continue
			}
			entries = append(entries, cl)
		}
		if err := sc.Err(); err != nil {
			return errors.Wrapf(err, "scanning %s", list)
		}
	}
	if len(entries) == 0 {
		return errors.New("no properly formatted MD5 checksum lines found")
	}

	failed := 0
	for _, e := range entries {
		b, err := r.read(e.name)
		if err != nil {
			fmt.Fprintf(r.errOut, "md5sum: %v\n", err)
			fmt.Fprintf(r.out, "%s: FAILED open or read\n", e.name)
			failed++
			continue
		}
		got, err := r.server.Sum(b)
		if err != nil {
			return err
		}
		if got != e.want {
			fmt.Fprintf(r.out, "%s: FAILED\n", e.name)
			failed++
			continue
		}
		fmt.Fprintf(r.out, "%s: OK\n", e.name)
	}
	if failed > 0 {
		return errors.Errorf("%d of %d computed checksums did NOT match", failed, len(entries))
	}
	return nil
}
