// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/nik9000/grop/index"
)

var usageMessage = `usage: cindex [-chunk-size n] [-o path] source

cindex builds the trigram chunk index for source, a single file. The
index is written to the path named by -o, or to source+".gropindex"
if -o is not given.
`

func usage() {
	fmt.Fprint(os.Stderr, usageMessage)
	os.Exit(2)
}

var (
	chunkSizeFlag = flag.Uint64("chunk-size", index.DefaultChunkTargetSize, "chunk close threshold, in bytes")
	outFlag       = flag.String("o", "", "output index path (default source+\".gropindex\")")
	verboseFlag   = flag.Bool("verbose", false, "print progress information")
	logSkipFlag   = flag.Bool("logskip", false, "set the writer's LogSkip option (the writer logs nothing for it)")
)

func main() {
	flag.Usage = usage
	flag.Parse()
	args := flag.Args()
	if len(args) != 1 {
		usage()
	}
	source := args[0]

	out := *outFlag
	if out == "" {
		out = source + ".gropindex"
	}

	opts := []index.Option{
		index.WithChunkTargetSize(*chunkSizeFlag),
		index.WithVerbose(*verboseFlag),
		index.WithLogSkip(*logSkipFlag),
	}

	if *verboseFlag {
		log.Printf("index %s -> %s", source, out)
	}
	stats, err := index.BuildIndex(source, out, opts...)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("%d chunks, %d trigrams, %d source bytes, %d index bytes",
		stats.Chunks, stats.Trigrams, stats.SourceBytes, stats.IndexBytes)
	r := stats.Regions
	log.Printf("regions: header=%d chunk-ends=%d chunk-line-counts=%d postings=%d trigrams-map=%d footer=%d",
		r.Header, r.ChunkEnds, r.ChunkLineCounts, r.Postings, r.TrigramsMap, r.Footer)
}
