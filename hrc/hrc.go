// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lgp

// Package hrc parses HRC skeleton hierarchy files stored in LGP archives.
//
// A file is a header block followed by one block per bone, blocks separated
// by blank lines:
//
//	:HEADER_BLOCK 2
//	:SKELETON aaaa
//	:BONES 2
//
//	root
//	null
//	0.0
//	0
//
//	hip
//	root
//	1.25
//	1 aaab
package hrc

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/woozymasta/lgp/internal/lines"
)

// ErrFormat means the file does not follow the HRC layout.
var ErrFormat = errors.New("invalid HRC format")

const (
	headerBlockLines = 3
	boneBlockLines   = 4
)

// Skeleton is a parsed HRC file.
type Skeleton struct {
	// Name is the skeleton name from the header.
	Name string `json:"name" yaml:"name"`
	// Bones are listed in file order.
	Bones []Bone `json:"bones" yaml:"bones"`
	// Version is the header block version.
	Version int `json:"version" yaml:"version"`
	// BoneCount is the declared bone count; it is not checked against Bones.
	BoneCount int `json:"bone_count" yaml:"bone_count"`
}

// Bone is one skeleton bone.
type Bone struct {
	// Name is the bone name.
	Name string `json:"name" yaml:"name"`
	// Parent is the parent bone name ("null" for the root).
	Parent string `json:"parent" yaml:"parent"`
	// Resources are RSD resource names attached to the bone.
	Resources []string `json:"resources,omitempty" yaml:"resources,omitempty"`
	// Length is the bone length.
	Length float32 `json:"length" yaml:"length"`
}

// Parse reads an HRC file.
func Parse(r io.Reader) (*Skeleton, error) {
	all, err := lines.Read(r)
	if err != nil {
		return nil, fmt.Errorf("read HRC: %w", err)
	}

	blocks := lines.Blocks(all)
	if len(blocks) == 0 {
		return nil, fmt.Errorf("%w: empty file", ErrFormat)
	}

	s := &Skeleton{}
	if err := s.parseHeader(blocks[0]); err != nil {
		return nil, err
	}

	s.Bones = make([]Bone, 0, len(blocks)-1)
	for i, block := range blocks[1:] {
		bone, err := parseBone(block)
		if err != nil {
			return nil, fmt.Errorf("bone %d: %w", i, err)
		}

		s.Bones = append(s.Bones, bone)
	}

	return s, nil
}

// parseHeader reads the three-line header block.
func (s *Skeleton) parseHeader(block []string) error {
	if len(block) != headerBlockLines {
		return fmt.Errorf("%w: header has %d lines, want %d", ErrFormat, len(block), headerBlockLines)
	}

	var err error
	if s.Version, err = headerInt(block[0]); err != nil {
		return err
	}
	if s.Name, err = headerValue(block[1]); err != nil {
		return err
	}
	if s.BoneCount, err = headerInt(block[2]); err != nil {
		return err
	}

	return nil
}

// headerValue returns the second whitespace-separated field of a header line.
func headerValue(line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", fmt.Errorf("%w: header line %q has no value", ErrFormat, line)
	}

	return fields[1], nil
}

// headerInt returns the integer value of a header line.
func headerInt(line string) (int, error) {
	v, err := headerValue(line)
	if err != nil {
		return 0, err
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: header line %q: %w", ErrFormat, line, err)
	}

	return n, nil
}

// parseBone reads one four-line bone block.
func parseBone(block []string) (Bone, error) {
	if len(block) != boneBlockLines {
		return Bone{}, fmt.Errorf("%w: bone block has %d lines, want %d", ErrFormat, len(block), boneBlockLines)
	}

	bone := Bone{
		Name:   strings.TrimSpace(block[0]),
		Parent: strings.TrimSpace(block[1]),
	}

	length, err := strconv.ParseFloat(strings.TrimSpace(block[2]), 32)
	if err != nil {
		return Bone{}, fmt.Errorf("%w: bone %q length: %w", ErrFormat, bone.Name, err)
	}
	bone.Length = float32(length)

	fields := strings.Fields(block[3])
	if len(fields) == 0 {
		return Bone{}, fmt.Errorf("%w: bone %q has empty resource line", ErrFormat, bone.Name)
	}

	count, err := strconv.Atoi(fields[0])
	if err != nil || count < 0 {
		return Bone{}, fmt.Errorf("%w: bone %q resource count %q", ErrFormat, bone.Name, fields[0])
	}
	if len(fields)-1 < count {
		return Bone{}, fmt.Errorf("%w: bone %q lists %d of %d resources", ErrFormat, bone.Name, len(fields)-1, count)
	}
	if count > 0 {
		bone.Resources = fields[1 : 1+count]
	}

	return bone, nil
}
