// Copyright 2024 the lzma authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package lzma

import (
	"encoding/binary"
	"io"
	"math"

	"github.com/meh/lzma/internal/lzma1"
)

// Properties are the model parameters carried in the thirteen byte header
// of a .lzma stream.
//
// The first header byte packs the three bit counts as (pb*5+lp)*9+lc and
// must be below 225. The dictionary size follows as a 32-bit little-endian
// value and is clamped up to 4096. The declared uncompressed size is a
// 64-bit little-endian value where all ones means unknown; such streams
// are terminated by an end of stream marker instead.
type Properties struct {
	// LC is the number of literal context bits (0..8).
	LC uint8
	// LP is the number of literal position bits (0..4).
	LP uint8
	// PB is the number of position bits (0..4).
	PB uint8

	// DictSize is the dictionary size in bytes.
	DictSize uint32

	// UncompressedSize is the declared uncompressed size of the stream,
	// meaningful only when SizeKnown is true.
	UncompressedSize uint64
	SizeKnown        bool
}

// ParseProperties reads and decodes the stream header.
func ParseProperties(rd io.Reader) (Properties, error) {
	var hdr [13]byte
	if _, err := io.ReadFull(rd, hdr[:]); err != nil {
		return Properties{}, err
	}

	d := hdr[0]
	if d >= 9*5*5 {
		return Properties{}, ErrInvalidProperties
	}
	p := Properties{
		LC: d % 9,
		PB: d / 9 / 5,
		LP: d / 9 % 5,
	}

	p.DictSize = binary.LittleEndian.Uint32(hdr[1:5])
	if p.DictSize < lzma1.MinDictSize {
		p.DictSize = lzma1.MinDictSize
	}

	if size := binary.LittleEndian.Uint64(hdr[5:13]); size != math.MaxUint64 {
		p.UncompressedSize = size
		p.SizeKnown = true
	}
	return p, nil
}
