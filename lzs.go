// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lgp

package lgp

import (
	"encoding/binary"
	"fmt"
	"path"
	"strings"
)

// LZS container parameters. Payloads are stored as a 4-byte little-endian
// compressed length followed by an LZSS stream over a 4 KiB ring buffer.
const (
	LZSHeaderSize = 4
	LZSWindowSize = 0x1000
	LZSMinMatch   = 3
	LZSMaxMatch   = 18
)

const (
	lzsRingMask  = LZSWindowSize - 1
	lzsRingStart = LZSWindowSize - LZSMaxMatch // first ring write position (0xFEE)
	lzsMaxDist   = LZSWindowSize - LZSMaxMatch
	lzsHashBits  = 12
	lzsMaxChain  = 256
)

// IsLZS reports whether the filename carries the LZS extension.
func IsLZS(name string) bool {
	return strings.EqualFold(path.Ext(name), ".lzs")
}

// DecompressLZS decodes an LZS container.
//
// Each flag byte covers eight items, least significant bit first: a set bit is
// one literal byte, a clear bit is a two-byte reference into a zero-filled ring
// with offset b1|(b2&0xF0)<<4 and length (b2&0x0F)+3. Bytes past the declared
// compressed length are ignored.
func DecompressLZS(data []byte) ([]byte, error) {
	if len(data) < LZSHeaderSize {
		return nil, fmt.Errorf("%w: short header", ErrInvalidLZS)
	}

	declared := binary.LittleEndian.Uint32(data[:LZSHeaderSize])
	stream := data[LZSHeaderSize:]
	if uint64(declared) > uint64(len(stream)) {
		return nil, fmt.Errorf("%w: header declares %d bytes, %d present", ErrInvalidLZS, declared, len(stream))
	}
	stream = stream[:declared]

	var ring [LZSWindowSize]byte
	r := lzsRingStart
	out := make([]byte, 0, 2*len(stream))

	for i := 0; i < len(stream); {
		flags := stream[i]
		i++

		for bit := 0; bit < 8 && i < len(stream); bit++ {
			if flags&(1<<bit) != 0 {
				c := stream[i]
				i++
				out = append(out, c)
				ring[r] = c
				r = (r + 1) & lzsRingMask
				continue
			}

			if i+1 >= len(stream) {
				return nil, fmt.Errorf("%w: truncated reference at stream offset %d", ErrInvalidLZS, i)
			}

			b1, b2 := stream[i], stream[i+1]
			i += 2

			off := int(b1) | int(b2&0xF0)<<4
			n := int(b2&0x0F) + LZSMinMatch
			for k := range n {
				c := ring[(off+k)&lzsRingMask]
				out = append(out, c)
				ring[r] = c
				r = (r + 1) & lzsRingMask
			}
		}
	}

	return out, nil
}

// CompressLZS encodes raw bytes into an LZS container readable by DecompressLZS.
// Matching is greedy over hash chains of 3-byte prefixes.
func CompressLZS(raw []byte) ([]byte, error) {
	if uint64(len(raw)) > uint64(^uint32(0)) {
		return nil, fmt.Errorf("compress LZS: %w", ErrSizeOverflow)
	}

	out := make([]byte, LZSHeaderSize, LZSHeaderSize+len(raw)+len(raw)/8+1)
	head := make([]int32, 1<<lzsHashBits)
	prev := make([]int32, len(raw))

	insert := func(i int) {
		if i+LZSMinMatch > len(raw) {
			return
		}
		h := lzsHash(raw[i:])
		prev[i] = head[h]
		head[h] = int32(i + 1) //nolint:gosec // bounded by input size check
	}

	flagPos, bit := 0, 8
	for i := 0; i < len(raw); {
		if bit == 8 {
			flagPos = len(out)
			out = append(out, 0)
			bit = 0
		}

		length, src := lzsLongestMatch(raw, i, head, prev)
		if length >= LZSMinMatch {
			pos := (lzsRingStart + src) & lzsRingMask
			out = append(out, byte(pos), byte(pos>>4)&0xF0|byte(length-LZSMinMatch))
			for k := range length {
				insert(i + k)
			}
			i += length
		} else {
			out[flagPos] |= 1 << bit
			out = append(out, raw[i])
			insert(i)
			i++
		}
		bit++
	}

	stream := len(out) - LZSHeaderSize
	if uint64(stream) > uint64(^uint32(0)) {
		return nil, fmt.Errorf("compress LZS: %w", ErrSizeOverflow)
	}

	binary.LittleEndian.PutUint32(out, uint32(stream)) //nolint:gosec // bounded above
	return out, nil
}

// lzsLongestMatch returns the longest earlier occurrence of raw[i:] within the ring distance.
func lzsLongestMatch(raw []byte, i int, head, prev []int32) (length, src int) {
	limit := min(LZSMaxMatch, len(raw)-i)
	if limit < LZSMinMatch {
		return 0, 0
	}

	cand := int(head[lzsHash(raw[i:])]) - 1
	for chain := 0; cand >= 0 && i-cand <= lzsMaxDist && chain < lzsMaxChain; chain++ {
		n := 0
		for n < limit && raw[cand+n] == raw[i+n] {
			n++
		}
		if n > length {
			length, src = n, cand
			if n == limit {
				break
			}
		}
		cand = int(prev[cand]) - 1
	}

	return length, src
}

// lzsHash maps the first three bytes of b to a hash bucket.
func lzsHash(b []byte) uint32 {
	v := uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2])
	return (v * 2654435761) >> (32 - lzsHashBits)
}
