// Copyright 2024 the lzma authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package lzma1

// bitTree is a fixed-depth binary trie of probabilities decoding an n-bit
// integer. Interior nodes live at indices 1..2^n-1; the decoded value is
// the leaf index with the top bit stripped.
type bitTree struct {
	probs []prob
	bits  uint
}

func newBitTree(bits uint) bitTree {
	return bitTree{probs: newProbs(1 << bits), bits: bits}
}

// decode walks the trie most significant bit first.
func (t *bitTree) decode(d *rangeDecoder) (uint32, error) {
	m := uint32(1)
	for i := uint(0); i < t.bits; i++ {
		bit, err := d.decodeBit(&t.probs[m])
		if err != nil {
			return 0, err
		}
		m = m<<1 | uint32(bit)
	}
	return m - 1<<t.bits, nil
}

// reverse decodes the same trie but assembles the value little-endian.
func (t *bitTree) reverse(d *rangeDecoder) (uint32, error) {
	return reverseDecode(d, t.probs, t.bits)
}
