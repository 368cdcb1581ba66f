// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lgp

package lgp

import (
	"encoding/binary"
	"fmt"
	"io"
	"iter"
	"math"
	"strings"
)

// ReadFile reads the payload record an entry points to.
// It depends only on the source and the entry, so calls may come in any order.
func (a *Archive) ReadFile(entry Entry) (FileRecord, error) {
	if a == nil || a.ra == nil {
		return FileRecord{}, ErrNilReader
	}
	if a.isClosed() {
		return FileRecord{}, ErrClosed
	}

	return ReadFileAt(a.ra, a.size, entry)
}

// ReadFileAt reads one payload record at entry offset from a random-access source.
func ReadFileAt(ra io.ReaderAt, size int64, entry Entry) (FileRecord, error) {
	if ra == nil {
		return FileRecord{}, ErrNilReader
	}

	off := int64(entry.Offset)
	if off+fileHeaderSize > size {
		return FileRecord{}, fmt.Errorf("%w: entry %s header at %d past end of %d bytes",
			ErrInvalidEntryOffset, entry.Path(), off, size)
	}

	var head [fileHeaderSize]byte
	if err := readFullAt(ra, head[:], off); err != nil {
		return FileRecord{}, fmt.Errorf("read entry %s header: %w", entry.Path(), err)
	}

	var rec FileRecord
	copy(rec.RawName[:], head[:fileNameSize])
	rec.Length = binary.LittleEndian.Uint32(head[fileNameSize:])

	end := off + fileHeaderSize + int64(rec.Length)
	if end > size {
		return FileRecord{}, fmt.Errorf("%w: entry %s payload of %d bytes ends at %d past end of %d bytes",
			ErrInvalidEntryOffset, entry.Path(), rec.Length, end, size)
	}

	n, err := checkedInt(int64(rec.Length))
	if err != nil {
		return FileRecord{}, fmt.Errorf("entry %s length: %w", entry.Path(), err)
	}

	rec.Data = make([]byte, n)
	if err := readFullAt(ra, rec.Data, off+fileHeaderSize); err != nil {
		return FileRecord{}, fmt.Errorf("read entry %s payload: %w", entry.Path(), err)
	}

	return rec, nil
}

// Files returns a lazy sequence of entries paired with their payload records in
// table of contents order. Each pair is read when consumed; nothing is cached,
// so the sequence can be ranged over again. Iteration stops after the first error;
// the File yielded with that error carries only the Entry and an empty Record.
func (a *Archive) Files() iter.Seq2[File, error] {
	return func(yield func(File, error) bool) {
		if a == nil {
			return
		}

		for i := range a.entries {
			entry := a.entries[i]
			rec, err := a.ReadFile(entry)
			if err != nil {
				yield(File{Entry: entry}, err)
				return
			}

			if !yield(File{Entry: entry, Record: rec}, nil) {
				return
			}
		}
	}
}

// FindEntry returns the first entry whose full path matches name (case-insensitive, "/" or "\").
func (a *Archive) FindEntry(name string) (Entry, bool) {
	if a == nil {
		return Entry{}, false
	}

	lookupName := NormalizePath(name)
	for i := range a.entries {
		if strings.EqualFold(NormalizePath(a.entries[i].Path()), lookupName) {
			return a.entries[i], true
		}
	}

	return Entry{}, false
}

// ReadEntry reads raw payload of the named entry.
func (a *Archive) ReadEntry(name string) ([]byte, error) {
	entry, ok := a.FindEntry(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, name)
	}

	rec, err := a.ReadFile(entry)
	if err != nil {
		return nil, err
	}

	return rec.Data, nil
}

// readFullAt fills p from off; io.EOF together with a full read is success.
func readFullAt(ra io.ReaderAt, p []byte, off int64) error {
	n, err := ra.ReadAt(p, off)
	if n == len(p) {
		return nil
	}
	if err == nil || err == io.EOF {
		return io.ErrUnexpectedEOF
	}

	return err
}

// checkedInt converts int64 to int with platform-safe overflow check.
func checkedInt(v int64) (int, error) {
	if v < 0 || uint64(v) > uint64(math.MaxInt) {
		return 0, ErrSizeOverflow
	}

	return int(v), nil
}
