// Copyright 2024 the lzma authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package lzma1

// Cache adapts the decoder's unbounded per-item output to a caller buffer
// of fixed size. Bytes land in the buffer first; once it is full they
// spill into an overflow slice for the caller to drain on the next read.
// A single item emits at most 273 bytes, which bounds the spill.
type Cache struct {
	buf   []byte
	n     int
	spill []byte
}

func NewCache(buf []byte) *Cache {
	return &Cache{buf: buf}
}

// WriteByte implements io.ByteWriter. It never fails.
func (c *Cache) WriteByte(b byte) error {
	if c.n < len(c.buf) {
		c.buf[c.n] = b
		c.n++
		return nil
	}
	c.spill = append(c.spill, b)
	return nil
}

// Written returns the number of bytes stored in the caller's buffer.
func (c *Cache) Written() int {
	return c.n
}

// Spill returns the bytes that did not fit, or nil.
func (c *Cache) Spill() []byte {
	return c.spill
}
