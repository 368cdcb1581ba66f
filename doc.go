// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lgp

/*
Package lgp reads LGP archives, the packed asset containers of the PC release
of Final Fantasy VII. Parsing builds the table of contents once; payloads are
read later, on demand, straight from the backing io.ReaderAt.

Layout (all integers little-endian):

	creator tag        12 bytes   "\0\0SQUARESOFT"
	file count          4 bytes
	table of contents  27 bytes per entry (20 name, 4 offset, 1 check, 2 conflict index)
	CRC block        3600 bytes   opaque 30x30 lookup table
	conflict table   optional     present when any conflict index is non-zero
	file records     per entry    20 name, 4 length, payload
	terminator       remainder    "FINAL FANTASY7"

Section boundaries are computed from prior sizes and checked against the
reader position; a mismatch or a truncated section is reported as
ErrStructure and no Archive is returned.

# Reading

	a, err := lgp.Open("char.lgp")
	if err != nil {
	    return err
	}
	defer a.Close()
	if !a.IsValid() {
	    // creator or terminator mismatch, caller decides
	}
	for f, err := range a.Files() {
	    if err != nil {
	        return err
	    }
	    _ = f.Entry.Path()
	    _ = f.Record.Data
	}

Single entries are read independently of iteration order:

	rec, err := a.ReadFile(a.Entries()[3])

Entries sharing a stored name carry a conflict index; their folder is filled
from the conflict table by TOC position and reflected in Entry.Path.

# Extracting

	err := a.Extract(ctx, "out", lgp.ExtractOptions{
	    Rules: []pathrules.Rule{
	        {Action: pathrules.ActionInclude, Pattern: "*.hrc"},
	        {Action: pathrules.ActionInclude, Pattern: "*.rsd"},
	    },
	})

# LZS payloads

Some payloads are LZS containers. The reader returns them raw; DecompressLZS
decodes them and CompressLZS produces streams in the same ring-buffer format.
*/
package lgp
