// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lgp

package lgp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
)

// extractWorkItem stores one selected entry with prepared output relative paths.
type extractWorkItem struct {
	relPath string
	relDir  string
	entry   Entry
}

// Extract writes selected entries to dstDir under their full logical paths.
// Payloads are written raw. Work is spread over MaxWorkers; the first error
// cancels remaining work and is returned.
func (a *Archive) Extract(ctx context.Context, dstDir string, opts ExtractOptions) error {
	if a == nil || a.ra == nil {
		return ErrNilReader
	}
	if a.isClosed() {
		return ErrClosed
	}

	opts.applyDefaults()

	workers := opts.MaxWorkers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	entries := a.entries
	if opts.Entries != nil {
		entries = opts.Entries
	}

	entries, err := SelectEntries(entries, opts.Rules, opts.RuleOptions)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	dstRootAbs, err := filepath.Abs(dstDir)
	if err != nil {
		return fmt.Errorf("resolve output dir: %w", err)
	}

	if err := os.MkdirAll(dstRootAbs, 0o750); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	workItems, err := prepareExtractWorkItems(entries, opts.RawNames)
	if err != nil {
		return err
	}

	if err := prepareExtractDirs(dstRootAbs, workItems); err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, task := range workItems {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			return a.extractPreparedEntry(gctx, dstRootAbs, task, opts.FileMode, opts.OnEntryDone)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	return ctx.Err()
}

// prepareExtractWorkItems resolves output relative paths for selected entries.
func prepareExtractWorkItems(entries []Entry, rawNames bool) ([]extractWorkItem, error) {
	var paths []string
	if rawNames {
		paths = make([]string, len(entries))
		for i := range entries {
			normalizedPath, err := normalizeExtractEntryPath(entries[i].Path())
			if err != nil {
				return nil, fmt.Errorf("normalize entry path %s: %w", entries[i].Path(), err)
			}

			paths[i] = normalizedPath
		}
	} else {
		sanitized, err := sanitizedEntryPaths(entries)
		if err != nil {
			return nil, err
		}

		paths = sanitized
	}

	workItems := make([]extractWorkItem, 0, len(entries))
	for i, entry := range entries {
		relPath := filepath.FromSlash(paths[i])
		relDir := filepath.Dir(relPath)
		if relDir == "." {
			relDir = ""
		}

		workItems = append(workItems, extractWorkItem{
			entry:   entry,
			relPath: relPath,
			relDir:  relDir,
		})
	}

	return workItems, nil
}

// prepareExtractDirs creates all unique parent directories needed by work items.
func prepareExtractDirs(dstRootAbs string, workItems []extractWorkItem) error {
	seen := make(map[string]struct{}, len(workItems))
	for _, task := range workItems {
		if task.relDir == "" {
			continue
		}

		dirPath := filepath.Join(dstRootAbs, task.relDir)
		key := strings.ToLower(dirPath)
		if _, exists := seen[key]; exists {
			continue
		}

		seen[key] = struct{}{}
		if err := os.MkdirAll(dirPath, 0o750); err != nil {
			return fmt.Errorf("create output directory %s: %w", dirPath, err)
		}
	}

	return nil
}

// extractPreparedEntry reads one entry payload and writes it under destination root.
func (a *Archive) extractPreparedEntry(
	ctx context.Context,
	dstRootAbs string,
	task extractWorkItem,
	fileMode ExtractFileMode,
	onEntryDone func(entry Entry, written int64, outputPath string),
) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	rec, err := a.ReadFile(task.entry)
	if err != nil {
		return err
	}

	outPath := filepath.Join(dstRootAbs, task.relPath)
	file, err := openExtractFile(outPath, fileMode)
	if err != nil {
		return fmt.Errorf("open %s: %w", task.entry.Path(), err)
	}

	written, writeErr := file.Write(rec.Data)
	closeErr := file.Close()
	if writeErr != nil {
		return fmt.Errorf("write %s: %w", task.entry.Path(), writeErr)
	}
	if closeErr != nil {
		return fmt.Errorf("close %s: %w", task.entry.Path(), closeErr)
	}

	a.log.Debug("extracted entry", "path", task.entry.Path(), "bytes", written, "output", outPath)
	if onEntryDone != nil {
		onEntryDone(task.entry, int64(written), outPath)
	}

	return nil
}

// openExtractFile opens output path according to selected extract file mode.
func openExtractFile(path string, mode ExtractFileMode) (*os.File, error) {
	switch mode {
	case ExtractFileModeAuto:
		file, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if err == nil || !os.IsExist(err) {
			return file, err
		}

		return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	case ExtractFileModeTruncate:
		return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	case ExtractFileModeCreateOnly:
		return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	default:
		return nil, fmt.Errorf("unknown extract file mode %q", mode)
	}
}

// normalizeExtractEntryPath normalizes entry path and rejects absolute/traversal inputs.
func normalizeExtractEntryPath(entryPath string) (string, error) {
	raw := strings.TrimSpace(entryPath)
	if raw == "" || strings.ContainsRune(raw, 0) {
		return "", ErrInvalidExtractPath
	}
	if strings.HasPrefix(raw, `/`) || strings.HasPrefix(raw, `\`) {
		return "", ErrInvalidExtractPath
	}

	raw = strings.ReplaceAll(raw, `\`, `/`)
	if len(raw) >= 3 && isASCIIAlpha(raw[0]) && raw[1] == ':' && raw[2] == '/' {
		return "", ErrInvalidExtractPath
	}

	parts := strings.Split(raw, `/`)
	cleanParts := make([]string, 0, len(parts))
	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			return "", ErrInvalidExtractPath
		default:
			cleanParts = append(cleanParts, part)
		}
	}
	if len(cleanParts) == 0 {
		return "", ErrInvalidExtractPath
	}

	return strings.Join(cleanParts, `/`), nil
}

// isASCIIAlpha reports whether byte is ASCII latin letter.
func isASCIIAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
