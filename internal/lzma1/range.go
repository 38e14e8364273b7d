// Copyright 2024 the lzma authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package lzma1

import "io"

// rangeDecoder is the arithmetic decoder at the bottom of the LZMA stack.
// It maintains the pair (range, code) and offers two primitives: decodeBit,
// which extracts a bit biased by an adaptive probability cell, and direct,
// which extracts bits with a fixed 0.5 probability. Both renormalize by
// pulling bytes from the compressed stream, so either may fail with an IO
// error or, on a truncated payload, ErrCorrupted.
type rangeDecoder struct {
	r io.ByteReader

	rng  uint32
	code uint32

	seeded bool
}

func newRangeDecoder(r io.ByteReader) *rangeDecoder {
	return &rangeDecoder{r: r, rng: 0xffffffff}
}

// finished reports whether the coder has consumed the whole payload; the
// encoder flushes in a way that drives code to zero exactly at the end.
func (d *rangeDecoder) finished() bool {
	return d.code == 0
}

func (d *rangeDecoder) readByte() (byte, error) {
	b, err := d.r.ReadByte()
	if err == io.EOF {
		// the payload may not end in the middle of an item
		return 0, ErrCorrupted
	}
	return b, err
}

// seed consumes the control byte and the four big-endian bytes of the
// initial code value. The control byte must be zero and the code must
// differ from the range, otherwise the stream is corrupt.
func (d *rangeDecoder) seed() error {
	control, err := d.readByte()
	if err != nil {
		return err
	}
	for i := 0; i < 4; i++ {
		b, err := d.readByte()
		if err != nil {
			return err
		}
		d.code = d.code<<8 | uint32(b)
	}
	if control != 0 || d.code == d.rng {
		return ErrCorrupted
	}
	d.seeded = true
	return nil
}

func (d *rangeDecoder) normalize() error {
	if d.rng < topValue {
		b, err := d.readByte()
		if err != nil {
			return err
		}
		d.rng <<= 8
		// code < range is maintained
		d.code = d.code<<8 | uint32(b)
	}
	return nil
}

// decodeBit extracts one bit using the probability cell p, updating the
// cell as a side effect.
func (d *rangeDecoder) decodeBit(p *prob) (int, error) {
	v := *p
	bound := (d.rng >> modelTotalBits) * uint32(v)

	var bit int
	if d.code < bound {
		v += ((1 << modelTotalBits) - v) >> moveBits
		d.rng = bound
	} else {
		v -= v >> moveBits
		d.code -= bound
		d.rng -= bound
		bit = 1
	}
	if err := d.normalize(); err != nil {
		return 0, err
	}
	*p = v
	return bit, nil
}

// direct extracts the given number of bits with a fixed 0.5 probability,
// most significant bit first.
func (d *rangeDecoder) direct(bits uint) (uint32, error) {
	var result uint32
	for ; bits > 0; bits-- {
		d.rng >>= 1
		d.code -= d.rng
		t := -(d.code >> 31)
		d.code += d.rng & t

		if d.code == d.rng {
			return 0, ErrCorrupted
		}
		if err := d.normalize(); err != nil {
			return 0, err
		}
		result = result<<1 + t + 1
	}
	return result, nil
}
