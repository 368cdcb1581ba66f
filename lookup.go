// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/lgp

package lgp

import "encoding/binary"

// LookupTable decodes the CRC block as the 30x30 name lookup table.
// The block is kept opaque during parsing; this view is decoded on demand.
func (a *Archive) LookupTable() [lookupTableDim][lookupTableDim]LookupBucket {
	var table [lookupTableDim][lookupTableDim]LookupBucket
	if len(a.crc) < crcSize {
		return table
	}

	for i := range lookupTableDim {
		for j := range lookupTableDim {
			off := (i*lookupTableDim + j) * lookupBucketSize
			table[i][j] = LookupBucket{
				First: binary.LittleEndian.Uint16(a.crc[off : off+2]),
				Count: binary.LittleEndian.Uint16(a.crc[off+2 : off+4]),
			}
		}
	}

	return table
}
