// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lgp

package lgp

import (
	"io"
)

// ListEntries opens an LGP and returns its table of contents without payload reads.
func ListEntries(path string) ([]Entry, error) {
	f, size, err := openFileWithSize(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return ListEntriesFromReaderAt(f, size)
}

// ListEntriesFromReaderAt parses table of contents from a random-access source.
// Conflict folders are resolved; payloads are not read.
func ListEntriesFromReaderAt(ra io.ReaderAt, size int64) ([]Entry, error) {
	a, err := NewArchive(ra, size)
	if err != nil {
		return nil, err
	}

	return a.entries, nil
}
