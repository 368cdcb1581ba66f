// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lgp

package lgp

import (
	"encoding/binary"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Archive provides read-only access to a parsed LGP file.
type Archive struct {
	// ra is the underlying random-access reader used for payload reads.
	ra io.ReaderAt
	// file is set when Archive owns an *os.File opened via Open.
	file *os.File
	// log receives parse diagnostics.
	log *slog.Logger
	// entries stores the table of contents in on-disk order.
	entries []Entry
	// crc stores the opaque block following the table of contents.
	crc []byte
	// terminator stores all bytes after the physically last file.
	terminator []byte
	// size is total source size in bytes.
	size int64
	// mu guards closed state and close operation.
	mu sync.Mutex
	// fileCount is the declared entry count from the header.
	fileCount uint32
	// creator stores the raw header tag.
	creator [creatorSize]byte
	// closed reports whether Close was already called.
	closed bool
}

// Open opens LGP file by path and parses its index structures.
func Open(path string) (*Archive, error) {
	return OpenWithOptions(path, ReaderOptions{})
}

// OpenWithOptions opens LGP file by path and parses its index structures using explicit reader options.
func OpenWithOptions(path string, opts ReaderOptions) (*Archive, error) {
	f, size, err := openFileWithSize(path)
	if err != nil {
		return nil, err
	}

	a, err := NewArchiveWithOptions(f, size, opts)
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	a.file = f
	return a, nil
}

// NewArchive parses LGP from existing ReaderAt and known size.
func NewArchive(ra io.ReaderAt, size int64) (*Archive, error) {
	return NewArchiveWithOptions(ra, size, ReaderOptions{})
}

// NewArchiveWithOptions parses LGP from existing ReaderAt and known size using explicit reader options.
// The caller keeps ownership of ra.
func NewArchiveWithOptions(ra io.ReaderAt, size int64, opts ReaderOptions) (*Archive, error) {
	opts.applyDefaults()

	if ra == nil {
		return nil, ErrNilReader
	}

	a := &Archive{ra: ra, size: size, log: opts.Logger}
	if err := a.parse(newCursor(ra, size)); err != nil {
		return nil, err
	}

	if !a.IsValid() {
		a.log.Warn("LGP validity check failed",
			"creator_valid", a.CreatorValid(),
			"terminator_valid", a.TerminatorValid(),
		)
		if opts.RequireValid {
			return nil, fmt.Errorf("%w: creator %q terminator %q", ErrInvalidArchive, a.creator[:], a.terminator)
		}
	}

	return a, nil
}

// Entries returns a copy of the table of contents in on-disk order.
func (a *Archive) Entries() []Entry {
	if a == nil {
		return nil
	}

	entries := make([]Entry, len(a.entries))
	copy(entries, a.entries)
	return entries
}

// FileCount returns the entry count declared by the header.
func (a *Archive) FileCount() uint32 {
	return a.fileCount
}

// Creator returns the raw 12-byte creator tag.
func (a *Archive) Creator() [creatorSize]byte {
	return a.creator
}

// CRC returns a copy of the opaque block following the table of contents.
func (a *Archive) CRC() []byte {
	return append([]byte(nil), a.crc...)
}

// Terminator returns a copy of the bytes following the physically last file.
func (a *Archive) Terminator() []byte {
	return append([]byte(nil), a.terminator...)
}

// Size returns total source size in bytes.
func (a *Archive) Size() int64 {
	return a.size
}

// Close closes the underlying file if archive owns one.
func (a *Archive) Close() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil
	}

	a.closed = true
	if a.file != nil {
		return a.file.Close()
	}

	return nil
}

// isClosed reports whether Close was already called.
func (a *Archive) isClosed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.closed
}

// parse reads every section once in layout order.
func (a *Archive) parse(c *cursor) error {
	if err := a.readHeader(c); err != nil {
		return err
	}
	if err := a.readTableOfContents(c); err != nil {
		return err
	}
	if err := a.readCRC(c); err != nil {
		return err
	}

	if a.hasConflicts() {
		if err := a.readConflictTable(c); err != nil {
			return err
		}
	}

	return a.readTerminator(c)
}

// readHeader reads creator tag and declared entry count.
func (a *Archive) readHeader(c *cursor) error {
	if err := c.ReadFull(a.creator[:]); err != nil {
		return fmt.Errorf("read creator: %w", err)
	}

	count, err := c.ReadUint32()
	if err != nil {
		return fmt.Errorf("read file count: %w", err)
	}

	a.fileCount = count
	a.log.Debug("read LGP header", "creator", string(a.creator[:]), "file_count", count)
	return nil
}

// tocStart returns computed table of contents offset.
func (a *Archive) tocStart() int64 {
	return headerSize
}

// crcStart returns computed CRC block offset.
func (a *Archive) crcStart() int64 {
	return a.tocStart() + int64(a.fileCount)*tocEntrySize
}

// readTableOfContents reads FileCount fixed-size records as one block.
func (a *Archive) readTableOfContents(c *cursor) error {
	if err := c.expectPos(a.tocStart(), "table of contents"); err != nil {
		return err
	}

	need := int64(a.fileCount) * tocEntrySize
	if need > c.Remaining() {
		return fmt.Errorf("%w: table of contents needs %d bytes for %d entries, %d available",
			ErrStructure, need, a.fileCount, c.Remaining())
	}

	n, err := checkedInt(need)
	if err != nil {
		return fmt.Errorf("table of contents size: %w", err)
	}

	table, err := c.ReadBytes(n)
	if err != nil {
		return fmt.Errorf("read table of contents: %w", err)
	}

	a.entries = make([]Entry, a.fileCount)
	for i := range a.entries {
		a.entries[i] = decodeEntry(table[i*tocEntrySize:(i+1)*tocEntrySize], i)
	}

	a.log.Debug("read table of contents", "entries", len(a.entries))
	return nil
}

// decodeEntry decodes one 27-byte table of contents record.
func decodeEntry(rec []byte, index int) Entry {
	e := Entry{Index: index}
	copy(e.RawName[:], rec[:tocNameSize])
	e.Offset = binary.LittleEndian.Uint32(rec[20:24])
	e.Check = rec[24]
	e.ConflictIndex = binary.LittleEndian.Uint16(rec[25:27])
	return e
}

// readCRC reads the opaque block directly after the table of contents.
func (a *Archive) readCRC(c *cursor) error {
	if err := c.expectPos(a.crcStart(), "CRC block"); err != nil {
		return err
	}

	crc, err := c.ReadBytes(crcSize)
	if err != nil {
		return fmt.Errorf("read CRC block: %w", err)
	}

	a.crc = crc
	return nil
}

// hasConflicts reports whether any entry needs conflict table resolution.
func (a *Archive) hasConflicts() bool {
	for i := range a.entries {
		if a.entries[i].HasExtendedPath() {
			return true
		}
	}

	return false
}

// openFileWithSize opens a file and returns a handle plus current size.
func openFileWithSize(path string) (*os.File, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open LGP: %w", err)
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, fmt.Errorf("stat: %w", err)
	}

	return f, fi.Size(), nil
}
