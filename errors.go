// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lgp

package lgp

import "errors"

// Sentinel errors for LGP operations. Use errors.Is in callers.
var (
	// ErrStructure means a section boundary or table index does not match the archive layout.
	// Parsing stops and no archive is returned.
	ErrStructure = errors.New("invalid LGP structure")
	// ErrConflictIndex means the conflict table points past the table of contents.
	ErrConflictIndex = errors.New("conflict table index out of range")
	// ErrInvalidArchive means creator or terminator literal mismatch under RequireValid.
	ErrInvalidArchive = errors.New("LGP creator or terminator mismatch")
	// ErrInvalidEntryOffset means an entry payload lies outside the source.
	ErrInvalidEntryOffset = errors.New("invalid entry offset")
	// ErrNilReader means the reader is nil.
	ErrNilReader = errors.New("reader is nil")
	// ErrEntryNotFound means the entry is not found.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrClosed means the archive or resource is already closed.
	ErrClosed = errors.New("archive or resource already closed")
	// ErrSizeOverflow means a declared size does not fit the platform int.
	ErrSizeOverflow = errors.New("size exceeds addressable range")
	// ErrInvalidExtractPath means archive entry path is invalid for extraction destination.
	ErrInvalidExtractPath = errors.New("invalid extract path")
	// ErrInvalidSelectRule means one or more selection rules are invalid.
	ErrInvalidSelectRule = errors.New("invalid select rules")
	// ErrInvalidLZS means an LZS container header or stream is malformed.
	ErrInvalidLZS = errors.New("invalid LZS data")
)
