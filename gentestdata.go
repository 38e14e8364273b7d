//go:build ignore
// +build ignore

// gentestdata regenerates the fixtures under testdata/. It shells out to
// xz, whose alone-format encoder always writes an unknown size and an end
// of stream marker; the sized variants are derived by patching the header
// length field afterwards. Run it from the repository root.
package main

import (
	"encoding/binary"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
)

// Seed for the pseudorandom generator; the generated fixtures are
// committed, so this only matters when regenerating the whole set.
const randSeed = 0x1234

func genPredictableRandomData(size int) []byte {
	gen := rand.New(rand.NewSource(randSeed))
	out := make([]byte, size)
	for i := range out {
		out[i] = byte(gen.Intn(256))
	}
	return out
}

func genText() []byte {
	var out []byte
	for i := 0; i < 200; i++ {
		out = append(out, fmt.Sprintf("the quick brown fox jumps over the lazy dog %04d\n", i)...)
		if i%7 == 0 {
			out = append(out, "pack my box with five dozen liquor jugs\n"...)
		}
	}
	return out
}

func genWords(n int) []byte {
	words := []string{"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf", "hotel"}
	gen := rand.New(rand.NewSource(randSeed))
	var out []byte
	for i := 0; i < n; i++ {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, words[gen.Intn(len(words))]...)
	}
	return append(out, '\n')
}

func compress(raw []byte, name string, extra ...string) []byte {
	tmp := filepath.Join(os.TempDir(), name)
	if err := os.WriteFile(tmp, raw, 0660); err != nil {
		log.Fatalf("write file: %v: %v", tmp, err)
	}
	defer os.Remove(tmp)
	args := append([]string{"--format=lzma", "-z", "-c"}, extra...)
	cmd := exec.Command("xz", append(args, tmp)...)
	compressed, err := cmd.Output()
	if err != nil {
		log.Fatalf("failed to run xz: %v", err)
	}
	return compressed
}

// withSize returns a copy of an end-of-stream fixture with the declared
// uncompressed size filled in. The trailing marker stays in place; a
// decoder that honors the size never reads it.
func withSize(eos []byte, size uint64) []byte {
	out := append([]byte(nil), eos...)
	binary.LittleEndian.PutUint64(out[5:13], size)
	return out
}

func write(name string, data []byte) {
	if err := os.WriteFile(filepath.Join("testdata", name), data, 0660); err != nil {
		log.Fatalf("write file: %v: %v", name, err)
	}
}

func main() {
	a := genText()
	write("a.txt", a)
	eos := compress(a, "a.txt")
	write("a_eos.lzma", eos)
	write("a_eos_and_size.lzma", withSize(eos, uint64(len(a))))
	write("a.lzma", withSize(eos, uint64(len(a))))

	bad := append([]byte(nil), eos...)
	for off := 60; off < 90; off++ {
		bad[off] ^= 0xa5
	}
	write("bad_corrupted.lzma", bad)
	write("bad_incorrect_size.lzma", withSize(eos, uint64(len(a)+4096)))
	write("bad_eos_incorrect_size.lzma", withSize(eos, uint64(len(a)+4096)))

	// a dictionary much smaller than the content forces window wrap-around
	wrap := genWords(8000)
	write("wrap.txt", wrap)
	write("wrap_eos.lzma", compress(wrap, "wrap.txt", "--lzma1=preset=6,dict=4KiB"))

	random := genPredictableRandomData(50 * 1024)
	write("random.bin", random)
	write("random_eos.lzma", compress(random, "random.bin"))

	empty := compress(nil, "empty.txt")
	write("empty_eos.lzma", empty)
	write("empty_size.lzma", withSize(empty, 0))
}
