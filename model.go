// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lgp

package lgp

import (
	"bytes"
	"log/slog"

	"github.com/opencontainers/go-digest"
	"github.com/woozymasta/pathrules"
)

// Internal binary layout and format limits.
const (
	creatorSize        = 12 // header creator tag
	fileCountSize      = 4  // header entry count
	headerSize         = creatorSize + fileCountSize
	tocNameSize        = 20 // TOC entry filename
	tocEntrySize       = 27 // 20 name + 4 offset + 1 check + 2 conflict index
	crcSize            = 3600
	conflictFolderSize = 128 // conflict location folder name
	fileNameSize       = 20  // payload record filename
	fileHeaderSize     = fileNameSize + 4
	lookupTableDim     = 30 // lookup table is lookupTableDim x lookupTableDim buckets
	lookupBucketSize   = 4  // 2 index + 2 count
)

// Expected literals for the advisory validity check.
const (
	// ExpectedCreator is the creator tag written by the game packing tools.
	ExpectedCreator = "\x00\x00SQUARESOFT"
	// ExpectedTerminator is the trailing literal after the last stored file.
	ExpectedTerminator = "FINAL FANTASY7"
)

// Entry is one table of contents record.
type Entry struct {
	// Folder is the resolved folder from the conflict table; empty for root entries.
	Folder string `json:"folder,omitempty" yaml:"folder,omitempty"`
	// RawName is the fixed-width NUL-padded filename as stored.
	RawName [tocNameSize]byte `json:"-" yaml:"-"`
	// Index is the position of the entry in the table of contents.
	Index int `json:"index" yaml:"index"`
	// Offset is absolute offset of the entry payload record.
	Offset uint32 `json:"offset" yaml:"offset"`
	// ConflictIndex is non-zero when the folder must be looked up in the conflict table.
	ConflictIndex uint16 `json:"conflict_index,omitempty" yaml:"conflict_index,omitempty"`
	// Check is an opaque byte passed through unchanged.
	Check byte `json:"check" yaml:"check"`
}

// Name returns the stored filename with NUL bytes removed.
func (e Entry) Name() string {
	return stripNUL(e.RawName[:])
}

// HasExtendedPath reports whether the entry participates in conflict resolution.
func (e Entry) HasExtendedPath() bool {
	return e.ConflictIndex != 0
}

// Path returns full logical path: Folder + "/" + Name, or Name for root entries.
func (e Entry) Path() string {
	if e.Folder == "" {
		return e.Name()
	}

	return e.Folder + "/" + e.Name()
}

// FileRecord is one payload record read on demand.
type FileRecord struct {
	// Data is the raw stored payload. Decoding (LZS) is left to the caller.
	Data []byte `json:"-" yaml:"-"`
	// RawName is the filename stored in front of the payload. It is not compared with the TOC name.
	RawName [fileNameSize]byte `json:"-" yaml:"-"`
	// Length is the declared payload length.
	Length uint32 `json:"length" yaml:"length"`
}

// Name returns the payload filename with NUL bytes removed.
func (f FileRecord) Name() string {
	return stripNUL(f.RawName[:])
}

// Digest returns the canonical content digest of Data.
func (f FileRecord) Digest() digest.Digest {
	return digest.FromBytes(f.Data)
}

// File pairs a table of contents entry with its payload record.
type File struct {
	Entry  Entry
	Record FileRecord
}

// LookupBucket is one cell of the 30x30 lookup table stored in the CRC block.
type LookupBucket struct {
	// First is the 1-based TOC index of the first entry in the bucket; zero for empty buckets.
	First uint16 `json:"first" yaml:"first"`
	// Count is the number of entries in the bucket.
	Count uint16 `json:"count" yaml:"count"`
}

// ReaderOptions configures archive parsing.
type ReaderOptions struct {
	// Logger receives parse diagnostics. Nil discards.
	Logger *slog.Logger `json:"-" yaml:"-"`
	// RequireValid rejects archives whose creator or terminator literal mismatches.
	RequireValid bool `json:"require_valid,omitempty" yaml:"require_valid,omitempty"`
}

// ExtractOptions configures Extract behavior.
type ExtractOptions struct {
	// OnEntryDone is called after one entry is fully written to disk.
	OnEntryDone func(entry Entry, written int64, outputPath string) `json:"-" yaml:"-"`
	// FileMode controls output file creation policy.
	FileMode ExtractFileMode `json:"file_mode,omitempty" yaml:"file_mode,omitempty"`
	// Entries limits extraction to selected entries; nil means all parsed entries.
	Entries []Entry `json:"-" yaml:"-"`
	// Rules further filters entries by include/exclude path rules.
	Rules []pathrules.Rule `json:"rules,omitempty" yaml:"rules,omitempty"`
	// RuleOptions control rule matching; see SelectEntries for zero-value behavior.
	RuleOptions pathrules.MatcherOptions `json:"rule_options,omitzero" yaml:"rule_options,omitzero"`
	// MaxWorkers is number of extraction workers (zero means GOMAXPROCS).
	MaxWorkers int `json:"max_workers,omitempty" yaml:"max_workers,omitempty"`
	// RawNames disables path sanitization during extract.
	RawNames bool `json:"raw_names,omitempty" yaml:"raw_names,omitempty"`
}

// ExtractFileMode controls output file open behavior during extraction.
type ExtractFileMode string

// Output file creation policies for extraction.
const (
	// ExtractFileModeAuto first tries create-only, then falls back to truncate for existing files.
	ExtractFileModeAuto ExtractFileMode = "auto"
	// ExtractFileModeTruncate opens existing files with truncate and creates missing files.
	ExtractFileModeTruncate ExtractFileMode = "truncate"
	// ExtractFileModeCreateOnly creates files only when absent and fails on existing files.
	ExtractFileModeCreateOnly ExtractFileMode = "create_only"
)

// applyDefaults fills zero-valued reader options with defaults.
func (opts *ReaderOptions) applyDefaults() {
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
}

// applyDefaults fills zero-valued extract options with defaults.
func (opts *ExtractOptions) applyDefaults() {
	if opts.FileMode == "" {
		opts.FileMode = ExtractFileModeAuto
	}
}

// stripNUL returns the ASCII text of b with every NUL byte removed.
func stripNUL(b []byte) string {
	if bytes.IndexByte(b, 0) < 0 {
		return string(b)
	}

	return string(bytes.ReplaceAll(b, []byte{0}, nil))
}
