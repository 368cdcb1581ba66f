// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lgp

// Package rsd parses RSD resource descriptors, which bind a polygon mesh to
// its material, group and texture files.
package rsd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/woozymasta/lgp/internal/lines"
)

// ErrFormat means the descriptor does not follow the RSD layout.
var ErrFormat = errors.New("invalid RSD format")

// Header is the required first line of every descriptor.
const Header = "@RSD940102"

// Property keys.
const (
	KeyPolygonMesh  = "PLY"
	KeyMaterial     = "MAT"
	KeyGroup        = "GRP"
	KeyTextureCount = "NTEX"
	// KeyTexturePrefix starts indexed texture keys such as "TEX[0]".
	KeyTexturePrefix = "TEX["
)

// commentPrefix marks lines ignored by the parser.
const commentPrefix = "#"

// Resource is a parsed RSD descriptor.
type Resource struct {
	// Header is the first significant line, always Header after a successful parse.
	Header string `json:"header" yaml:"header"`
	// PolygonMesh is the .PLY file name.
	PolygonMesh string `json:"polygon_mesh,omitempty" yaml:"polygon_mesh,omitempty"`
	// Material is the .MAT file name.
	Material string `json:"material,omitempty" yaml:"material,omitempty"`
	// Group is the .GRP file name.
	Group string `json:"group,omitempty" yaml:"group,omitempty"`
	// Textures are TEX[n] values in file order.
	Textures []string `json:"textures,omitempty" yaml:"textures,omitempty"`
	// TextureCount is the declared NTEX value; it is not checked against Textures.
	TextureCount int `json:"texture_count" yaml:"texture_count"`
}

// Parse reads an RSD descriptor. Comment and blank lines are skipped.
func Parse(r io.Reader) (*Resource, error) {
	all, err := lines.Read(r)
	if err != nil {
		return nil, fmt.Errorf("read RSD: %w", err)
	}

	content := make([]string, 0, len(all))
	for _, line := range all {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, commentPrefix) {
			continue
		}

		content = append(content, line)
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: no content", ErrFormat)
	}

	res := &Resource{Header: content[0]}
	if res.Header != Header {
		return nil, fmt.Errorf("%w: header %q", ErrFormat, res.Header)
	}

	for _, line := range content[1:] {
		if err := res.setProperty(line); err != nil {
			return nil, err
		}
	}

	return res, nil
}

// setProperty applies one KEY=VALUE line.
func (res *Resource) setProperty(line string) error {
	key, value, ok := strings.Cut(line, "=")
	if !ok || strings.Contains(value, "=") {
		return fmt.Errorf("%w: property %q", ErrFormat, line)
	}

	if strings.HasPrefix(key, KeyTexturePrefix) {
		res.Textures = append(res.Textures, value)
		return nil
	}

	switch key {
	case KeyPolygonMesh:
		res.PolygonMesh = value
	case KeyMaterial:
		res.Material = value
	case KeyGroup:
		res.Group = value
	case KeyTextureCount:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%w: %s value %q: %w", ErrFormat, key, value, err)
		}
		res.TextureCount = n
	default:
		return fmt.Errorf("%w: unknown property %q", ErrFormat, key)
	}

	return nil
}
