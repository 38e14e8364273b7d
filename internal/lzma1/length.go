// Copyright 2024 the lzma authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package lzma1

// lenDecoder decodes a match length as a three-tier bit-tree ensemble: two
// selector bits choose between a 3-bit low tier (lengths 0-7), a 3-bit mid
// tier (8-15) and an 8-bit high tier (16-271). The low and mid tiers keep
// one tree per position state. The caller adds matchMinLen.
type lenDecoder struct {
	choice [2]prob

	low [1 << posBitsMax]bitTree
	mid [1 << posBitsMax]bitTree
	hig bitTree
}

func newLenDecoder() *lenDecoder {
	l := &lenDecoder{
		choice: [2]prob{probInit, probInit},
		hig:    newBitTree(8),
	}
	for i := range l.low {
		l.low[i] = newBitTree(3)
		l.mid[i] = newBitTree(3)
	}
	return l
}

func (l *lenDecoder) decode(d *rangeDecoder, posState uint32) (uint32, error) {
	bit, err := d.decodeBit(&l.choice[0])
	if err != nil {
		return 0, err
	}
	if bit == 0 {
		return l.low[posState].decode(d)
	}
	bit, err = d.decodeBit(&l.choice[1])
	if err != nil {
		return 0, err
	}
	if bit == 0 {
		v, err := l.mid[posState].decode(d)
		return 8 + v, err
	}
	v, err := l.hig.decode(d)
	return 16 + v, err
}
