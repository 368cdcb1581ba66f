// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lgp

package lgp

import (
	"encoding/binary"
	"fmt"
	"io"
)

// cursor reads fixed-width little-endian values from a random-access source
// while tracking one explicit position. Section readers assert against pos
// instead of relying on call order.
type cursor struct {
	ra   io.ReaderAt
	size int64
	pos  int64
}

// newCursor returns cursor positioned at offset 0.
func newCursor(ra io.ReaderAt, size int64) *cursor {
	return &cursor{ra: ra, size: size}
}

// Pos returns current absolute position.
func (c *cursor) Pos() int64 {
	return c.pos
}

// Remaining returns number of bytes between position and end of source.
func (c *cursor) Remaining() int64 {
	return c.size - c.pos
}

// Seek moves to absolute offset. Offsets past the end of source are rejected.
func (c *cursor) Seek(off int64) error {
	if off < 0 || off > c.size {
		return fmt.Errorf("%w: seek to %d outside source of %d bytes", ErrStructure, off, c.size)
	}

	c.pos = off
	return nil
}

// Skip moves forward by n bytes.
func (c *cursor) Skip(n int64) error {
	return c.Seek(c.pos + n)
}

// ReadFull fills p from current position and advances.
func (c *cursor) ReadFull(p []byte) error {
	if int64(len(p)) > c.Remaining() {
		return fmt.Errorf("%w: read %d bytes at %d: %w", ErrStructure, len(p), c.pos, io.ErrUnexpectedEOF)
	}

	if err := readFullAt(c.ra, p, c.pos); err != nil {
		return fmt.Errorf("%w: read %d bytes at %d: %w", ErrStructure, len(p), c.pos, err)
	}

	c.pos += int64(len(p))
	return nil
}

// ReadBytes reads n bytes into a new slice.
func (c *cursor) ReadBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if err := c.ReadFull(buf); err != nil {
		return nil, err
	}

	return buf, nil
}

// ReadUint8 reads one byte.
func (c *cursor) ReadUint8() (uint8, error) {
	var b [1]byte
	if err := c.ReadFull(b[:]); err != nil {
		return 0, err
	}

	return b[0], nil
}

// ReadUint16 reads little-endian uint16.
func (c *cursor) ReadUint16() (uint16, error) {
	var b [2]byte
	if err := c.ReadFull(b[:]); err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint16(b[:]), nil
}

// ReadUint32 reads little-endian uint32.
func (c *cursor) ReadUint32() (uint32, error) {
	var b [4]byte
	if err := c.ReadFull(b[:]); err != nil {
		return 0, err
	}

	return binary.LittleEndian.Uint32(b[:]), nil
}

// expectPos fails with ErrStructure when position differs from computed section start.
func (c *cursor) expectPos(want int64, section string) error {
	if c.pos != want {
		return fmt.Errorf("%w: %s expected at offset %d, reader at %d", ErrStructure, section, want, c.pos)
	}

	return nil
}
