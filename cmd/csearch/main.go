// Copyright 2011 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"regexp/syntax"

	"github.com/nik9000/grop/index"
	"github.com/nik9000/grop/match"
	"github.com/nik9000/grop/query"
	"github.com/nik9000/grop/search"
)

var usageMessage = `usage: csearch [-i] [-n] [-index path] regexp

csearch finds lines matching regexp, an RE2 (nearly PCRE) regular
expression, using the trigram index built by cindex to avoid scanning
most of the source file.

The path to the index is named by the -index flag or $GROPINDEX
variable. If both are empty, the current working directory and its
parents are searched for a .gropindex file.
`

func usage() {
	fmt.Fprint(os.Stderr, usageMessage)
	os.Exit(2)
}

var (
	iFlag       = flag.Bool("i", false, "case-insensitive search")
	nFlag       = flag.Bool("n", false, "show line numbers")
	indexFlag   = flag.String("index", "", "path to the index")
	verboseFlag = flag.Bool("verbose", false, "print extra information")
)

func main() {
	flag.Usage = usage
	flag.Parse()
	args := flag.Args()
	if len(args) != 1 {
		usage()
	}
	expr := args[0]

	reFlags := syntax.Perl
	if *iFlag {
		reFlags |= syntax.FoldCase
	}
	re, err := syntax.Parse(expr, reFlags)
	if err != nil {
		log.Fatal(err)
	}

	q := query.Extract(re)
	if *verboseFlag {
		log.Printf("query: %#v", q)
	}

	indexPath := *indexFlag
	if indexPath == "" {
		indexPath = index.DefaultIndexPath()
	}
	ix, err := index.Open(indexPath)
	if err != nil {
		log.Fatal(err)
	}
	defer ix.Close()

	bound := query.Bind(q, ix)

	source := indexPath
	if n := len(source); n > len(".gropindex") && source[n-len(".gropindex"):] == ".gropindex" {
		source = source[:n-len(".gropindex")]
	}
	srcFile, err := os.Open(source)
	if err != nil {
		log.Fatal(err)
	}
	defer srcFile.Close()

	matchExpr := expr
	if *iFlag {
		matchExpr = "(?i)" + expr
	}
	m, err := match.Compile(matchExpr)
	if err != nil {
		log.Fatal(err)
	}

	matches, err := search.Search(context.Background(), ix, srcFile, bound, m)
	if err != nil {
		log.Fatal(err)
	}

	for _, mt := range matches {
		if *nFlag {
			fmt.Printf("%d:%s\n", mt.LineNumber, mt.Text)
		} else {
			fmt.Printf("%s\n", mt.Text)
		}
	}
}
