// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lgp

// Package lines splits text assets into lines and blank-line separated blocks.
package lines

import (
	"bufio"
	"io"
	"strings"
)

// maxLineSize bounds one line of a text asset.
const maxLineSize = 1 << 20

// Read returns all lines of r without line terminators. CRLF and LF are accepted.
func Read(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineSize)

	var out []string
	for sc.Scan() {
		out = append(out, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

// Blocks groups lines separated by whitespace-only lines. Empty groups are dropped.
func Blocks(lines []string) [][]string {
	var (
		out   [][]string
		block []string
	)

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			if len(block) > 0 {
				out = append(out, block)
				block = nil
			}
			continue
		}

		block = append(block, line)
	}

	if len(block) > 0 {
		out = append(out, block)
	}

	return out
}
