// Copyright 2024 the lzma authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package lzma1

import (
	"bytes"
	"testing"
)

// pseudoRandom returns n deterministic bytes from a small LCG; the range
// decoder does not care that they are not a real compressed payload.
func pseudoRandom(n int) []byte {
	out := make([]byte, n)
	seed := uint32(0x1234)
	for i := range out {
		seed = seed*1664525 + 1013904223
		out[i] = byte(seed >> 24)
	}
	return out
}

func seeded(t *testing.T, payload []byte) *rangeDecoder {
	t.Helper()
	d := newRangeDecoder(bytes.NewReader(append([]byte{0, 0x12, 0x34, 0x56, 0x78}, payload...)))
	if err := d.seed(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	return d
}

func TestSeed(t *testing.T) {
	d := seeded(t, nil)
	if got, want := d.code, uint32(0x12345678); got != want {
		t.Errorf("code: got %#x, want %#x", got, want)
	}
	if d.finished() {
		t.Errorf("freshly seeded decoder should not be finished")
	}

	for _, tc := range []struct {
		name  string
		bytes []byte
	}{
		{"non-zero control byte", []byte{1, 0, 0, 0, 0}},
		{"code equal to range", []byte{0, 0xff, 0xff, 0xff, 0xff}},
		{"truncated seed", []byte{0, 1}},
	} {
		d := newRangeDecoder(bytes.NewReader(tc.bytes))
		if err := d.seed(); err != ErrCorrupted {
			t.Errorf("%v: got %v, want %v", tc.name, err, ErrCorrupted)
		}
	}
}

func TestDecodeBitInvariants(t *testing.T) {
	d := seeded(t, pseudoRandom(16*1024))

	p := prob(probInit)
	for i := 0; i < 8*1024; i++ {
		if _, err := d.decodeBit(&p); err != nil {
			t.Fatalf("decodeBit %v: %v", i, err)
		}
		if p == 0 || p >= 1<<modelTotalBits {
			t.Fatalf("probability escaped (0, 2048): %v", p)
		}
		if d.code > d.rng {
			t.Fatalf("code %#x exceeds range %#x", d.code, d.rng)
		}
	}
}

func TestDirectInvariants(t *testing.T) {
	d := seeded(t, pseudoRandom(16*1024))

	for i := 0; i < 1024; i++ {
		v, err := d.direct(8)
		if err != nil {
			t.Fatalf("direct %v: %v", i, err)
		}
		if v > 0xff {
			t.Fatalf("direct(8) produced %#x", v)
		}
		if d.code > d.rng {
			t.Fatalf("code %#x exceeds range %#x", d.code, d.rng)
		}
	}
}

func TestTruncatedPayload(t *testing.T) {
	// exhausting the source mid-decode must surface as corruption, not EOF
	d := seeded(t, pseudoRandom(4))
	var err error
	for i := 0; i < 64 && err == nil; i++ {
		_, err = d.direct(8)
	}
	if err != ErrCorrupted {
		t.Errorf("got %v, want %v", err, ErrCorrupted)
	}
}
