// Copyright 2024 the lzma authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package lzma1 implements the LZMA1 decompression engine: the range
// decoder, the adaptive probability models and the sliding dictionary.
// The engine decodes one item per call; framing and buffering are the
// caller's concern.
package lzma1

import "io"

// Params carries the model parameters parsed from the stream header.
type Params struct {
	// LC, LP and PB are the literal context, literal position and
	// position bit counts.
	LC, LP, PB uint32

	// DictSize is the dictionary size in bytes, at least MinDictSize.
	DictSize uint32

	// UnpackSize is the declared uncompressed size, meaningful only when
	// SizeKnown is set. Streams of unknown size are terminated by an end
	// of stream marker instead.
	UnpackSize uint64
	SizeKnown  bool
}

// Decoder decodes a single LZMA1 stream. Each call to Decode produces
// exactly one item: a literal byte, a one-byte short repetition, or the
// expansion of a match or repetition. A Decoder is not safe for
// concurrent use.
type Decoder struct {
	rc     *rangeDecoder
	win    *window
	params Params

	literal  []prob
	position []prob

	length *lenDecoder
	repeat *lenDecoder

	slot  [lenToPosStates]bitTree
	align bitTree

	state state
	rep   [4]uint32

	isMatch    []prob
	isRep      []prob
	isRepG0    []prob
	isRepG1    []prob
	isRepG2    []prob
	isRep0Long []prob

	decoded uint64
}

// NewDecoder returns a decoder reading compressed bytes from rd. The
// thirteen byte header must already have been consumed, its values being
// passed in p; the range coder seed that follows it must still be pending
// on rd and is consumed lazily by the first Decode call.
func NewDecoder(rd io.ByteReader, p Params) *Decoder {
	d := &Decoder{
		rc:     newRangeDecoder(rd),
		win:    newWindow(p.DictSize),
		params: p,

		literal:  newProbs(0x300 << (p.LC + p.LP)),
		position: newProbs(1 + fullDistances - endPosModelIndex),

		length: newLenDecoder(),
		repeat: newLenDecoder(),

		align: newBitTree(alignBits),

		isMatch:    newProbs(states << posBitsMax),
		isRep:      newProbs(states),
		isRepG0:    newProbs(states),
		isRepG1:    newProbs(states),
		isRepG2:    newProbs(states),
		isRep0Long: newProbs(states << posBitsMax),
	}
	for i := range d.slot {
		d.slot[i] = newBitTree(6)
	}
	return d
}

// Decoded returns the total number of uncompressed bytes produced so far.
func (d *Decoder) Decoded() uint64 {
	return d.decoded
}

// distance decodes a match distance for the given raw length. The
// returned value is zero based: 0 means the previous byte. eosDistance
// marks the end of stream.
func (d *Decoder) distance(length uint32) (uint32, error) {
	posState := length
	if posState > lenToPosStates-1 {
		posState = lenToPosStates - 1
	}
	slot, err := d.slot[posState].decode(d.rc)
	if err != nil {
		return 0, err
	}
	if slot < 4 {
		return slot, nil
	}

	direct := uint(slot>>1) - 1
	dist := (2 | slot&1) << direct

	if slot < endPosModelIndex {
		add, err := reverseDecode(d.rc, d.position[dist-slot:], direct)
		if err != nil {
			return 0, err
		}
		dist += add
	} else {
		high, err := d.rc.direct(direct - alignBits)
		if err != nil {
			return 0, err
		}
		dist += high << alignBits
		low, err := d.align.reverse(d.rc)
		if err != nil {
			return 0, err
		}
		dist += low
	}
	return dist, nil
}

// decodeLiteral decodes one literal byte and pushes it. When the previous
// item was a match the literal is coded against the byte the match
// distance points at, bit by bit, until the first disagreement.
func (d *Decoder) decodeLiteral(sink io.ByteWriter, st state, rep0 uint32) error {
	var prev uint32
	if !d.win.empty() {
		prev = uint32(d.win.peek(1))
	}

	// symbol accumulates the byte under a ninth control bit
	symbol := uint32(1)

	lit := (d.win.total&(1<<d.params.LP-1))<<d.params.LC + prev>>(8-d.params.LC)
	probs := d.literal[0x300*lit:]

	if st >= 7 {
		matchByte := d.win.peek(rep0 + 1)
		for symbol < 0x100 {
			matchBit := uint32(matchByte >> 7)
			matchByte <<= 1

			bit, err := d.rc.decodeBit(&probs[(1+matchBit)<<8+symbol])
			if err != nil {
				return err
			}
			symbol = symbol<<1 | uint32(bit)

			if matchBit != uint32(bit) {
				break
			}
		}
	}
	for symbol < 0x100 {
		bit, err := d.rc.decodeBit(&probs[symbol])
		if err != nil {
			return err
		}
		symbol = symbol<<1 | uint32(bit)
	}

	return d.win.push(sink, byte(symbol))
}

// Decode decodes one item into sink and returns the number of bytes it
// produced. A return of (0, nil) is clean end of stream. The ordering of
// probability reads below is normative; reordering them desynchronizes
// the decoder from the encoder's model.
func (d *Decoder) Decode(sink io.ByteWriter) (int, error) {
	if !d.rc.seeded {
		if err := d.rc.seed(); err != nil {
			return 0, err
		}
	}

	if d.params.SizeKnown {
		if d.decoded == d.params.UnpackSize {
			return 0, nil
		}
	} else if d.rc.finished() {
		return 0, ErrMissingMarker
	}

	posState := d.win.total & (1<<d.params.PB - 1)

	bit, err := d.rc.decodeBit(&d.isMatch[posState<<posBitsMax+uint32(d.state)])
	if err != nil {
		return 0, err
	}
	if bit == 0 {
		if d.params.SizeKnown && d.decoded == d.params.UnpackSize {
			return 0, ErrHasMoreData
		}
		if err := d.decodeLiteral(sink, d.state, d.rep[0]); err != nil {
			return 0, err
		}
		d.state = d.state.literal()
		d.decoded++
		return 1, nil
	}

	var length uint32

	bit, err = d.rc.decodeBit(&d.isRep[d.state])
	if err != nil {
		return 0, err
	}
	if bit == 1 {
		// repetition: reuse one of the last four match distances
		if d.params.SizeKnown && d.decoded == d.params.UnpackSize {
			return 0, ErrHasMoreData
		}
		if d.win.empty() {
			return 0, ErrHasMoreData
		}

		bit, err = d.rc.decodeBit(&d.isRepG0[d.state])
		if err != nil {
			return 0, err
		}
		if bit == 0 {
			bit, err = d.rc.decodeBit(&d.isRep0Long[uint32(d.state)<<posBitsMax+posState])
			if err != nil {
				return 0, err
			}
			if bit == 0 {
				// short repetition: a single byte at rep[0]
				if err := d.win.push(sink, d.win.peek(d.rep[0]+1)); err != nil {
					return 0, err
				}
				d.state = d.state.shortRep()
				d.decoded++
				return 1, nil
			}
		} else {
			var dist uint32

			bit, err = d.rc.decodeBit(&d.isRepG1[d.state])
			if err != nil {
				return 0, err
			}
			if bit == 0 {
				dist = d.rep[1]
			} else {
				bit, err = d.rc.decodeBit(&d.isRepG2[d.state])
				if err != nil {
					return 0, err
				}
				if bit == 0 {
					dist = d.rep[2]
				} else {
					dist = d.rep[3]
					d.rep[3] = d.rep[2]
				}
				d.rep[2] = d.rep[1]
			}
			d.rep[1] = d.rep[0]
			d.rep[0] = dist
		}

		length, err = d.repeat.decode(d.rc, posState)
		if err != nil {
			return 0, err
		}
		d.state = d.state.rep()
	} else {
		// new match: decode length, then distance
		length, err = d.length.decode(d.rc, posState)
		if err != nil {
			return 0, err
		}

		d.rep[3] = d.rep[2]
		d.rep[2] = d.rep[1]
		d.rep[1] = d.rep[0]
		d.rep[0], err = d.distance(length)
		if err != nil {
			return 0, err
		}

		if d.rep[0] == eosDistance {
			if !d.rc.finished() {
				return 0, ErrNeedMoreData
			}
			if d.params.SizeKnown && d.decoded != d.params.UnpackSize {
				return 0, ErrNeedMoreData
			}
			return 0, nil
		}

		if d.rep[0] >= d.params.DictSize || !d.win.check(d.rep[0]) {
			return 0, ErrCorrupted
		}
		d.state = d.state.match()
	}

	length += matchMinLen
	if d.params.SizeKnown && d.decoded+uint64(length) > d.params.UnpackSize {
		return 0, ErrHasMoreData
	}

	if err := d.win.copyMatch(sink, d.rep[0]+1, length); err != nil {
		return 0, err
	}
	d.decoded += uint64(length)
	return int(length), nil
}
