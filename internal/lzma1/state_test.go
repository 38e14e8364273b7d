// Copyright 2024 the lzma authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package lzma1

import "testing"

func TestStateTransitions(t *testing.T) {
	var (
		literal  = []state{0, 0, 0, 0, 1, 2, 3, 4, 5, 6, 4, 5}
		match    = []state{7, 7, 7, 7, 7, 7, 7, 10, 10, 10, 10, 10}
		rep      = []state{8, 8, 8, 8, 8, 8, 8, 11, 11, 11, 11, 11}
		shortRep = []state{9, 9, 9, 9, 9, 9, 9, 11, 11, 11, 11, 11}
	)
	for s := state(0); s < states; s++ {
		if got, want := s.literal(), literal[s]; got != want {
			t.Errorf("literal(%v): got %v, want %v", s, got, want)
		}
		if got, want := s.match(), match[s]; got != want {
			t.Errorf("match(%v): got %v, want %v", s, got, want)
		}
		if got, want := s.rep(), rep[s]; got != want {
			t.Errorf("rep(%v): got %v, want %v", s, got, want)
		}
		if got, want := s.shortRep(), shortRep[s]; got != want {
			t.Errorf("shortRep(%v): got %v, want %v", s, got, want)
		}
	}
}
