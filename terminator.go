// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lgp

package lgp

import (
	"fmt"
)

// readTerminator skips past the physically last file and captures all remaining bytes.
// The last file is the entry with the highest offset, not the last TOC entry.
func (a *Archive) readTerminator(c *cursor) error {
	if last, ok := a.lastStoredEntry(); ok {
		if err := c.Seek(int64(last.Offset)); err != nil {
			return fmt.Errorf("seek last file %q: %w", last.Name(), err)
		}
		if err := c.Skip(fileNameSize); err != nil {
			return fmt.Errorf("skip last file %q name: %w", last.Name(), err)
		}

		length, err := c.ReadUint32()
		if err != nil {
			return fmt.Errorf("read last file %q length: %w", last.Name(), err)
		}

		if err := c.Skip(int64(length)); err != nil {
			return fmt.Errorf("skip last file %q payload: %w", last.Name(), err)
		}
	} else if err := c.Seek(a.crcStart() + crcSize); err != nil {
		return fmt.Errorf("seek terminator: %w", err)
	}

	remaining := c.Remaining()
	terminator, err := c.ReadBytes(int(remaining))
	if err != nil {
		return fmt.Errorf("read terminator: %w", err)
	}

	a.terminator = terminator
	a.log.Debug("read terminator", "offset", c.Pos()-remaining, "size", remaining)
	return nil
}

// lastStoredEntry returns the entry with the maximum payload offset.
func (a *Archive) lastStoredEntry() (Entry, bool) {
	if len(a.entries) == 0 {
		return Entry{}, false
	}

	last := a.entries[0]
	for _, e := range a.entries[1:] {
		if e.Offset > last.Offset {
			last = e
		}
	}

	return last, true
}

// CreatorValid reports whether the creator tag equals ExpectedCreator.
func (a *Archive) CreatorValid() bool {
	return string(a.creator[:]) == ExpectedCreator
}

// TerminatorValid reports whether the trailing bytes equal ExpectedTerminator.
func (a *Archive) TerminatorValid() bool {
	return string(a.terminator) == ExpectedTerminator
}

// IsValid reports whether both creator and terminator match the expected literals.
// The check is advisory; parsing never fails on it unless ReaderOptions.RequireValid is set.
func (a *Archive) IsValid() bool {
	return a.CreatorValid() && a.TerminatorValid()
}
