// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lgp

package lgp

import (
	"bytes"
	"fmt"
)

// readConflictTable resolves folders for entries that share a stored name.
// Locations address the table of contents by index, never by name, so two
// entries named alike cannot be confused.
//
// Layout: u16 group count; per group u16 location count; per location a
// 128-byte NUL-padded folder name and u16 TOC index.
func (a *Archive) readConflictTable(c *cursor) error {
	// Hard seek: the table always starts right after the CRC block.
	if err := c.Seek(a.crcStart() + crcSize); err != nil {
		return fmt.Errorf("seek conflict table: %w", err)
	}

	groups, err := c.ReadUint16()
	if err != nil {
		return fmt.Errorf("read conflict group count: %w", err)
	}

	folder := make([]byte, conflictFolderSize)
	resolved := 0
	for g := range int(groups) {
		locations, err := c.ReadUint16()
		if err != nil {
			return fmt.Errorf("read conflict group %d location count: %w", g, err)
		}

		for l := range int(locations) {
			if err := c.ReadFull(folder); err != nil {
				return fmt.Errorf("read conflict group %d location %d folder: %w", g, l, err)
			}

			idx, err := c.ReadUint16()
			if err != nil {
				return fmt.Errorf("read conflict group %d location %d index: %w", g, l, err)
			}

			if int(idx) >= len(a.entries) {
				return fmt.Errorf("%w: %w: group %d location %d index %d, table has %d entries",
					ErrStructure, ErrConflictIndex, g, l, idx, len(a.entries))
			}

			a.entries[idx].Folder = string(bytes.TrimRight(folder, "\x00"))
			resolved++
		}
	}

	a.log.Debug("read conflict table", "groups", groups, "locations", resolved)
	return nil
}
