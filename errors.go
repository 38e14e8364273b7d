// Copyright 2024 the lzma authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package lzma

import "github.com/meh/lzma/internal/lzma1"

// The error kinds reported by a Reader. IO errors from the underlying
// source are returned unchanged; everything else is one of these values
// and can be matched with errors.Is. All of them are terminal: once a
// Read has failed, every later Read into a non-empty buffer fails the
// same way.
var (
	// ErrInvalidProperties is returned when the header packed byte is
	// out of range.
	ErrInvalidProperties = lzma1.ErrInvalidProperties

	// ErrCorrupted is returned when a range coder invariant is violated,
	// the payload is truncated, or a match references data that was
	// never written to the dictionary.
	ErrCorrupted = lzma1.ErrCorrupted

	// ErrMissingMarker is returned when a stream of undeclared size runs
	// out without an end of stream marker.
	ErrMissingMarker = lzma1.ErrMissingMarker

	// ErrHasMoreData is returned when the stream encodes data past the
	// declared uncompressed size, or a repetition before any byte has
	// been decoded.
	ErrHasMoreData = lzma1.ErrHasMoreData

	// ErrNeedMoreData is returned when the stream finishes before the
	// declared uncompressed size is reached, or when the end of stream
	// marker is found before the payload has been fully consumed.
	ErrNeedMoreData = lzma1.ErrNeedMoreData

	// ErrFinishedWithMarker is reserved for a marker encountered where
	// the declared size would already have ended the stream; it is part
	// of the taxonomy but currently never produced.
	ErrFinishedWithMarker = lzma1.ErrFinishedWithMarker
)
