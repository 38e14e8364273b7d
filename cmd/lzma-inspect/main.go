// Copyright 2024 the lzma authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// lzma-inspect prints the header of a .lzma file and, optionally, per-item
// decode statistics. It is intended purely for debugging.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"sync"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/must"
	"github.com/meh/lzma"
	"v.io/x/lib/cmd/flagvar"
)

var commandline struct {
	InputFile string `cmd:"input,,'input file or s3 path'"`
	Items     bool   `cmd:"items,false,'decode the stream and report per-item statistics'"`
}

func init() {
	must.Nil(flagvar.RegisterFlagsInStruct(flag.CommandLine, "cmd", &commandline,
		nil, nil))
}

func main() {
	ctx := context.Background()
	flag.Parse()

	file, err := file.Open(ctx, commandline.InputFile)
	if err != nil {
		log.Fatalf("open: %v", err)
	}
	defer file.Close(ctx)

	var (
		opts []lzma.ReaderOption
		ch   chan lzma.Progress
		wg   sync.WaitGroup

		items, singles, matches int
		compressed              int64
	)
	if commandline.Items {
		ch = make(chan lzma.Progress, 1024)
		opts = append(opts, lzma.SendUpdates(ch))
		wg.Add(1)
		go func() {
			for p := range ch {
				items++
				compressed += int64(p.Compressed)
				if p.Size == 1 {
					singles++
				} else {
					matches++
				}
			}
			wg.Done()
		}()
	}

	rd, err := lzma.NewReader(file.Reader(ctx), opts...)
	if err != nil {
		log.Fatalf("failed to parse header: %v: %v", commandline.InputFile, err)
	}
	properties := rd.Properties()

	fmt.Printf("=== %v ===\n", commandline.InputFile)
	fmt.Printf("lc, lp, pb           : %v, %v, %v\n", properties.LC, properties.LP, properties.PB)
	fmt.Printf("Dictionary size      : %v\n", properties.DictSize)
	if properties.SizeKnown {
		fmt.Printf("Uncompressed size    : %v\n", properties.UncompressedSize)
	} else {
		fmt.Printf("Uncompressed size    : unknown (end of stream marker)\n")
	}

	if !commandline.Items {
		return
	}
	size, err := io.Copy(io.Discard, rd)
	if err != nil {
		log.Fatalf("failed to read: %v: %v", commandline.InputFile, err)
	}
	close(ch)
	wg.Wait()
	fmt.Printf("Decoded bytes        : %v\n", size)
	fmt.Printf("Items                : %v (%v single byte, %v match)\n", items, singles, matches)
	fmt.Printf("Compressed payload   : %v bytes\n", compressed)
}
