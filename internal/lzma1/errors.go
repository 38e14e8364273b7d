// Copyright 2024 the lzma authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package lzma1

// A StreamError is returned when the lzma data is found to be invalid.
// Errors from the underlying byte source are never wrapped in it and
// propagate unchanged.
type StreamError string

func (s StreamError) Error() string {
	return "lzma data invalid: " + string(s)
}

var (
	// ErrCorrupted indicates a violated range coder invariant, a
	// truncated payload, or a match referencing data that was never
	// written to the dictionary.
	ErrCorrupted = StreamError("stream is corrupted")

	// ErrInvalidProperties indicates an out of range header byte.
	ErrInvalidProperties = StreamError("invalid model properties")

	// ErrMissingMarker indicates a stream of undeclared size whose range
	// coder finished without an end of stream marker.
	ErrMissingMarker = StreamError("end of stream marker is missing")

	// ErrHasMoreData indicates the stream encodes data past the declared
	// uncompressed size, or a repetition before any byte was decoded.
	ErrHasMoreData = StreamError("stream has more data than the declared uncompressed size")

	// ErrNeedMoreData indicates the stream finished before the declared
	// uncompressed size was reached, or that the end of stream marker was
	// found before the range coder had consumed the payload.
	ErrNeedMoreData = StreamError("stream finished before the declared uncompressed size was reached")

	// ErrFinishedWithMarker is reserved for a marker encountered where
	// the declared size would already have ended the stream.
	ErrFinishedWithMarker = StreamError("stream finished unexpectedly with a marker")
)
