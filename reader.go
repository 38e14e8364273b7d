// Copyright 2024 the lzma authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package lzma implements reading of the legacy .lzma (LZMA1) stream
// format: a thirteen byte header followed by a range coded payload,
// terminated either by an end of stream marker or by reaching the
// declared uncompressed size.
package lzma

import (
	"bufio"
	"io"
	"os"
	"time"

	"github.com/meh/lzma/internal/lzma1"
)

const defaultSourceBuffer = 32 * 1024

type readerOpts struct {
	sourceBuffer int
	progressCh   chan<- Progress
}

// ReaderOption represents an option to NewReader.
type ReaderOption func(o *readerOpts)

// SourceBuffer sets the size of the buffer used to read the compressed
// stream from the underlying source.
func SourceBuffer(n int) ReaderOption {
	return func(o *readerOpts) {
		o.sourceBuffer = n
	}
}

// SendUpdates sets the channel for sending progress updates over. Sends
// are non-blocking; updates are dropped when the receiver falls behind.
func SendUpdates(ch chan<- Progress) ReaderOption {
	return func(o *readerOpts) {
		o.progressCh = ch
	}
}

// Progress is used to report the progress of decompression. Each report
// pertains to a single decoded item.
type Progress struct {
	Duration         time.Duration
	Item             uint64
	Compressed, Size int
}

// Reader decompresses a .lzma stream. It implements io.Reader; bytes
// returned by successive reads form the unique decompression of the
// input regardless of how the reads are sized. A Reader is not safe for
// concurrent use.
type Reader struct {
	raw io.Reader
	src *countingReader
	dec *lzma1.Decoder

	props Properties

	// a single decoded item can exceed the caller's buffer; the excess
	// is kept here and drained by the next read
	spill  []byte
	offset int

	item       uint64
	progressCh chan<- Progress

	err error
}

// NewReader constructs a Reader from an arbitrary byte stream, consuming
// the stream header.
func NewReader(rd io.Reader, opts ...ReaderOption) (*Reader, error) {
	o := readerOpts{sourceBuffer: defaultSourceBuffer}
	for _, fn := range opts {
		fn(&o)
	}

	props, err := ParseProperties(rd)
	if err != nil {
		return nil, err
	}

	src := &countingReader{rd: bufio.NewReaderSize(rd, o.sourceBuffer)}
	return &Reader{
		raw: rd,
		src: src,
		dec: lzma1.NewDecoder(src, lzma1.Params{
			LC:         uint32(props.LC),
			LP:         uint32(props.LP),
			PB:         uint32(props.PB),
			DictSize:   props.DictSize,
			UnpackSize: props.UncompressedSize,
			SizeKnown:  props.SizeKnown,
		}),
		props:      props,
		progressCh: o.progressCh,
	}, nil
}

// Open opens the named file and constructs a Reader for it. Closing the
// Reader closes the file.
func Open(name string, opts ...ReaderOption) (*Reader, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	rd, err := NewReader(f, opts...)
	if err != nil {
		f.Close()
		return nil, err
	}
	return rd, nil
}

// Properties returns the parsed stream header.
func (r *Reader) Properties() Properties {
	return r.props
}

// Cached returns the number of decoded bytes left over from a previous
// read and pending delivery.
func (r *Reader) Cached() int {
	return len(r.spill) - r.offset
}

// Close closes the underlying source when it implements io.Closer.
func (r *Reader) Close() error {
	if c, ok := r.raw.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Read implements io.Reader. A read that finds leftover bytes from a
// previous decode returns those without decoding further; otherwise it
// decodes exactly one item, spilling whatever does not fit in buf.
func (r *Reader) Read(buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}
	if r.err != nil {
		return 0, r.err
	}

	if r.offset < len(r.spill) {
		n := copy(buf, r.spill[r.offset:])
		r.offset += n
		if r.offset == len(r.spill) {
			r.spill = nil
			r.offset = 0
		}
		return n, nil
	}

	var start time.Time
	if r.progressCh != nil {
		start = time.Now()
	}
	before := r.src.n

	cache := lzma1.NewCache(buf)
	n, err := r.dec.Decode(cache)
	if err != nil {
		r.err = err
		return 0, err
	}
	if n == 0 {
		r.err = io.EOF
		return 0, io.EOF
	}

	r.item++
	if r.progressCh != nil {
		select {
		case r.progressCh <- Progress{
			Duration:   time.Since(start),
			Item:       r.item,
			Compressed: int(r.src.n - before),
			Size:       n,
		}:
		default:
		}
	}

	if spill := cache.Spill(); spill != nil {
		r.spill = spill
		r.offset = 0
		return len(buf), nil
	}
	return n, nil
}

// countingReader tracks how many compressed bytes the decoder has
// consumed, for progress reporting.
type countingReader struct {
	rd *bufio.Reader
	n  int64
}

func (c *countingReader) ReadByte() (byte, error) {
	b, err := c.rd.ReadByte()
	if err == nil {
		c.n++
	}
	return b, err
}
