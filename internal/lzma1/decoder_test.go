// Copyright 2024 the lzma authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package lzma1

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/meh/lzma/internal"
)

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("..", "..", "testdata", name))
	if err != nil {
		t.Fatalf("failed to read fixture: %v", err)
	}
	return data
}

// paramsFor decodes the 13-byte header the same way the public package
// does; the engine itself never sees the header.
func paramsFor(t *testing.T, raw []byte) Params {
	t.Helper()
	d := raw[0]
	if d >= 9*5*5 {
		t.Fatalf("fixture has invalid properties byte %#x", d)
	}
	p := Params{
		LC:       uint32(d % 9),
		PB:       uint32(d / 9 / 5),
		LP:       uint32(d / 9 % 5),
		DictSize: binary.LittleEndian.Uint32(raw[1:5]),
	}
	if p.DictSize < MinDictSize {
		p.DictSize = MinDictSize
	}
	if size := binary.LittleEndian.Uint64(raw[5:13]); size != ^uint64(0) {
		p.UnpackSize = size
		p.SizeKnown = true
	}
	return p
}

func decodeAll(dec *Decoder) ([]byte, error) {
	var out bytes.Buffer
	for {
		n, err := dec.Decode(&out)
		if err != nil {
			return out.Bytes(), err
		}
		if n == 0 {
			return out.Bytes(), nil
		}
	}
}

func TestDecodeFixtures(t *testing.T) {
	for _, tc := range []struct {
		fixture, want string
	}{
		{"a.lzma", "a.txt"},
		{"a_eos.lzma", "a.txt"},
		{"a_eos_and_size.lzma", "a.txt"},
		{"wrap_eos.lzma", "wrap.txt"},
		{"random_eos.lzma", "random.bin"},
	} {
		raw := readFixture(t, tc.fixture)
		dec := NewDecoder(bytes.NewReader(raw[13:]), paramsFor(t, raw))

		got, err := decodeAll(dec)
		if err != nil {
			t.Errorf("%v: decode failed: %v", tc.fixture, err)
			continue
		}
		want := readFixture(t, tc.want)
		if !bytes.Equal(got, want) {
			t.Errorf("%v: got %v..., want %v...", tc.fixture,
				internal.FirstN(10, got), internal.FirstN(10, want))
		}
		if got, want := dec.Decoded(), uint64(len(want)); got != want {
			t.Errorf("%v: Decoded: got %v, want %v", tc.fixture, got, want)
		}
	}
}

func TestDecodeEmpty(t *testing.T) {
	for _, fixture := range []string{"empty_eos.lzma", "empty_size.lzma"} {
		raw := readFixture(t, fixture)
		dec := NewDecoder(bytes.NewReader(raw[13:]), paramsFor(t, raw))
		got, err := decodeAll(dec)
		if err != nil {
			t.Errorf("%v: decode failed: %v", fixture, err)
		}
		if len(got) != 0 {
			t.Errorf("%v: got %v bytes, want none", fixture, len(got))
		}
	}
}

func TestMissingMarker(t *testing.T) {
	// once an unknown-length stream has been fully decoded the range
	// coder is finished; asking for another item must not read past it
	raw := readFixture(t, "a_eos.lzma")
	dec := NewDecoder(bytes.NewReader(raw[13:]), paramsFor(t, raw))
	if _, err := decodeAll(dec); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	var out bytes.Buffer
	if _, err := dec.Decode(&out); err != ErrMissingMarker {
		t.Errorf("got %v, want %v", err, ErrMissingMarker)
	}
}

func TestDeclaredSizeTooSmall(t *testing.T) {
	raw := readFixture(t, "a_eos.lzma")
	params := paramsFor(t, raw)
	params.SizeKnown = true
	params.UnpackSize = 10960 - 1

	dec := NewDecoder(bytes.NewReader(raw[13:]), params)
	if _, err := decodeAll(dec); err != ErrHasMoreData {
		t.Errorf("got %v, want %v", err, ErrHasMoreData)
	}
}

func TestDeclaredSizeTooLarge(t *testing.T) {
	raw := readFixture(t, "a_eos.lzma")
	params := paramsFor(t, raw)
	params.SizeKnown = true
	params.UnpackSize = 10960 + 4096

	dec := NewDecoder(bytes.NewReader(raw[13:]), params)
	if _, err := decodeAll(dec); err != ErrNeedMoreData {
		t.Errorf("got %v, want %v", err, ErrNeedMoreData)
	}
}

func TestTruncatedStream(t *testing.T) {
	raw := readFixture(t, "a_eos.lzma")
	for _, cut := range []int{50, 100, len(raw) - 30, len(raw) - 1} {
		dec := NewDecoder(bytes.NewReader(raw[13:cut]), paramsFor(t, raw))
		if _, err := decodeAll(dec); err != ErrCorrupted {
			t.Errorf("cut at %v: got %v, want %v", cut, err, ErrCorrupted)
		}
	}
}

func TestCorruptedPayload(t *testing.T) {
	raw := readFixture(t, "bad_corrupted.lzma")
	dec := NewDecoder(bytes.NewReader(raw[13:]), paramsFor(t, raw))
	if _, err := decodeAll(dec); err != ErrCorrupted {
		t.Errorf("got %v, want %v", err, ErrCorrupted)
	}
}
