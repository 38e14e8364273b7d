// Copyright 2024 the lzma authors. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"strings"
	"sync"
	"unicode/utf8"

	"cloudeng.io/cmdutil"
	"cloudeng.io/cmdutil/subcmd"
	"cloudeng.io/errors"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/file/s3file"
	"github.com/meh/lzma"
	"github.com/schollz/progressbar/v2"
	"golang.org/x/crypto/ssh/terminal"
)

type CommonFlags struct {
	SourceBuffer int `subcmd:"source-buffer,,'size of the read buffer for the compressed stream'"`
}

type decodeFlags struct {
	CommonFlags
}

type printFlags struct {
	CommonFlags
}

type infoFlags struct {
	Read bool `subcmd:"read,false,'drain the stream to compute the uncompressed size when the header does not declare it'"`
}

type unzipFlags struct {
	CommonFlags
	ProgressBar bool   `subcmd:"progress,true,display a progress bar"`
	OutputFile  string `subcmd:"output,,'output file or s3 path, omit for stdout'"`
}

var cmdSet *subcmd.CommandSet

func init() {
	decodeCmd := subcmd.NewCommand("decode",
		subcmd.MustRegisterFlagStruct(&decodeFlags{}, nil, nil),
		decode, subcmd.AtLeastNArguments(0))
	decodeCmd.Document(`decode .lzma files or stdin to standard output as text. Files may be local, on S3 or a URL.`)

	printCmd := subcmd.NewCommand("print",
		subcmd.MustRegisterFlagStruct(&printFlags{}, nil, nil),
		print, subcmd.ExactlyNumArguments(1))
	printCmd.Document(`decode a .lzma file to standard output as raw bytes.`)

	infoCmd := subcmd.NewCommand("info",
		subcmd.MustRegisterFlagStruct(&infoFlags{}, nil, nil),
		info, subcmd.ExactlyNumArguments(1))
	infoCmd.Document(`print the model properties of a .lzma file.`)

	unzipCmd := subcmd.NewCommand("unzip",
		subcmd.MustRegisterFlagStruct(&unzipFlags{}, nil, nil),
		unzip, subcmd.ExactlyNumArguments(1))
	unzipCmd.Document(`decompress a .lzma file.`)

	cmdSet = subcmd.NewCommandSet(decodeCmd, printCmd, infoCmd, unzipCmd)
	cmdSet.Document(`decompress and inspect .lzma files. Files may be local, on S3 or a URL.`)

	file.RegisterImplementation("s3", func() file.Implementation {
		return s3file.NewImplementation(
			s3file.NewDefaultProvider(session.Options{}), s3file.Options{})
	})
}

func openFileOrURL(ctx context.Context, name string) (io.Reader, int64, func(context.Context) error, error) {
	if strings.HasPrefix(name, "http") {
		resp, err := http.Get(name)
		if err != nil {
			return nil, 0, nil, err
		}
		return resp.Body,
			resp.ContentLength,
			func(context.Context) error {
				resp.Body.Close()
				return nil
			},
			err
	}
	info, err := file.Stat(ctx, name)
	if err != nil {
		return nil, 0, nil, err
	}
	file, err := file.Open(ctx, name)
	if err != nil {
		return nil, 0, nil, err
	}
	return file.Reader(ctx), info.Size(), file.Close, nil
}

func createFile(ctx context.Context, name string) (io.Writer, func(context.Context) error, error) {
	if len(name) == 0 {
		return os.Stdout,
			func(context.Context) error {
				return nil
			},
			nil
	}
	file, err := file.Create(ctx, name)
	if err != nil {
		return nil, nil, err
	}
	return file.Writer(ctx), file.Close, nil
}

func main() {
	cmdSet.MustDispatch(context.Background())
}

func optsFromCommonFlags(cl *CommonFlags) []lzma.ReaderOption {
	opts := []lzma.ReaderOption{}
	if cl.SourceBuffer > 0 {
		opts = append(opts, lzma.SourceBuffer(cl.SourceBuffer))
	}
	return opts
}

func decodeFile(ctx context.Context, name string, opts []lzma.ReaderOption, text bool) error {
	var (
		rd            io.Reader = os.Stdin
		readerCleanup func(context.Context) error
		err           error
	)
	if len(name) > 0 {
		rd, _, readerCleanup, err = openFileOrURL(ctx, name)
		if err != nil {
			return err
		}
		defer readerCleanup(ctx)
	}

	dc, err := lzma.NewReader(rd, opts...)
	if err != nil {
		return err
	}

	if !text {
		_, err = io.Copy(os.Stdout, dc)
		return err
	}

	// mirror the behaviour of reading into a string: the whole output
	// must be valid UTF-8
	data, err := io.ReadAll(dc)
	if err != nil {
		return err
	}
	if !utf8.Valid(data) {
		return fmt.Errorf("%v: decoded data is not valid UTF-8", name)
	}
	_, err = os.Stdout.Write(data)
	return err
}

func decode(ctx context.Context, values interface{}, args []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	cl := values.(*decodeFlags)
	cmdutil.HandleSignals(cancel, os.Interrupt)

	opts := optsFromCommonFlags(&cl.CommonFlags)

	if len(args) == 0 {
		return decodeFile(ctx, "", opts, true)
	}
	errs := &errors.M{}
	for _, inputFile := range args {
		errs.Append(decodeFile(ctx, inputFile, opts, true))
	}
	return errs.Err()
}

func print(ctx context.Context, values interface{}, args []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	cl := values.(*printFlags)
	cmdutil.HandleSignals(cancel, os.Interrupt)

	return decodeFile(ctx, args[0], optsFromCommonFlags(&cl.CommonFlags), false)
}

func sizeFor(size uint64) string {
	return fmt.Sprintf("%v MB (%v bytes)", size/1024/1024, size)
}

func dictionaryFor(size uint32) string {
	return fmt.Sprintf("%v MB (2^%v bytes)", size/1024/1024, math.Log2(float64(size)))
}

func info(ctx context.Context, values interface{}, args []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	cl := values.(*infoFlags)
	cmdutil.HandleSignals(cancel, os.Interrupt)

	rd, _, readerCleanup, err := openFileOrURL(ctx, args[0])
	if err != nil {
		return err
	}
	defer readerCleanup(ctx)

	dc, err := lzma.NewReader(rd)
	if err != nil {
		return err
	}
	properties := dc.Properties()

	switch {
	case properties.SizeKnown:
		fmt.Printf("Uncompressed size:\t\t%v\n", sizeFor(properties.UncompressedSize))
	case cl.Read:
		size, err := io.Copy(io.Discard, dc)
		if err != nil {
			return err
		}
		fmt.Printf("Uncompressed size:\t\t%v\n", sizeFor(uint64(size)))
	default:
		fmt.Printf("Uncompressed size:\t\tUnknown\n")
	}
	fmt.Printf("Dictionary size:\t\t%v\n", dictionaryFor(properties.DictSize))
	fmt.Printf("Literal context bits (lc):\t%v\n", properties.LC)
	fmt.Printf("Literal position bits (lp):\t%v\n", properties.LP)
	fmt.Printf("Position bits (pb):\t\t%v\n", properties.PB)
	return nil
}

func progressBar(ctx context.Context, progressBarWr io.Writer, ch chan lzma.Progress, size int64) {
	bar := progressbar.NewOptions64(size,
		progressbar.OptionSetBytes64(size),
		progressbar.OptionSetWriter(progressBarWr),
		progressbar.OptionSetPredictTime(true))
	bar.RenderBlank()
	for {
		select {
		case p, ok := <-ch:
			if !ok {
				fmt.Fprintf(progressBarWr, "\n")
				return
			}
			bar.Add(p.Compressed)
		case <-ctx.Done():
			return
		}
	}
}

func optsFromUnzipFlags(cl *unzipFlags) (
	opts []lzma.ReaderOption,
	progressBarCh chan lzma.Progress,
	isTTY bool) {

	opts = optsFromCommonFlags(&cl.CommonFlags)

	isTTY = terminal.IsTerminal(int(os.Stdout.Fd()))
	if cl.ProgressBar && (len(cl.OutputFile) > 0 || !isTTY) {
		ch := make(chan lzma.Progress, 1024)
		opts = append(opts, lzma.SendUpdates(ch))
		progressBarCh = ch
	}
	return
}

func unzip(ctx context.Context, values interface{}, args []string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	cmdutil.HandleSignals(cancel, os.Interrupt)
	cl := values.(*unzipFlags)

	opts, progressBarCh, isTTY := optsFromUnzipFlags(cl)

	rd, size, readerCleanup, err := openFileOrURL(ctx, args[0])
	if err != nil {
		return err
	}
	defer readerCleanup(ctx)

	wr, writerCleanup, err := createFile(ctx, cl.OutputFile)
	if err != nil {
		return err
	}

	// Kick off the progress bar, if requested, unless the decompressed
	// output is being written to stdout and stdout is a terminal.
	var (
		progressBarWg sync.WaitGroup
		progressBarWr = os.Stdout
	)

	if progressBarCh != nil {
		progressBarWg.Add(1)
		if !isTTY {
			progressBarWr = os.Stderr
		}
		go func() {
			progressBar(ctx, progressBarWr, progressBarCh, size)
			progressBarWg.Done()
		}()
	}

	dc, err := lzma.NewReader(rd, opts...)

	errs := &errors.M{}
	errs.Append(err)
	if err == nil {
		_, err = io.Copy(wr, dc)
		errs.Append(err)
	}
	err = writerCleanup(ctx)
	errs.Append(err)

	if progressBarCh != nil {
		close(progressBarCh)
		progressBarWg.Wait()
	}

	return errs.Err()
}
