// Command flatconv converts flat records from one layout to another.
//
// Each line read from standard input is parsed with the input schema and
// written to standard output with the output schema, for example to turn a
// fixed-width file into CSV:
//
//	flatconv -in fixed.yaml -out csv.yaml < records.txt > records.csv
//
// The schema paths default to FLATCONV_IN_SCHEMA and FLATCONV_OUT_SCHEMA,
// which may also be set in a .env file in the working directory.
package main

import (
	"bufio"
	"flag"
	"io"
	"log"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"

	flatrecord "github.com/ianlopshire/go-flatrecord"
	"github.com/ianlopshire/go-flatrecord/schema"
)

const (
	envInSchema  = "FLATCONV_IN_SCHEMA"
	envOutSchema = "FLATCONV_OUT_SCHEMA"
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("flatconv: ")

	// A missing .env file is fine; the environment may already be set.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("loading .env: %v", err)
	}

	inPath := flag.String("in", os.Getenv(envInSchema), "input schema `file`")
	outPath := flag.String("out", os.Getenv(envOutSchema), "output schema `file`")
	debug := flag.Bool("debug", false, "dump every parsed record to stderr")
	flag.Parse()

	if *inPath == "" || *outPath == "" {
		flag.Usage()
		os.Exit(2)
	}

	in, err := loadLayout(*inPath)
	if err != nil {
		log.Fatal(err)
	}
	out, err := loadLayout(*outPath)
	if err != nil {
		log.Fatal(err)
	}

	c := converter{in: in, out: out}
	if *debug {
		c.debug = os.Stderr
	}
	n, err := c.run(os.Stdin, os.Stdout)
	if err != nil {
		log.Fatal(err)
	}
	if *debug {
		log.Printf("converted %d records", n)
	}
}

func loadLayout(path string) (flatrecord.Layout, error) {
	s, err := schema.Load(path)
	if err != nil {
		return nil, err
	}
	l, err := s.Build()
	if err != nil {
		return nil, errors.WithMessage(err, path)
	}
	return l, nil
}

type converter struct {
	in, out flatrecord.Layout
	debug   io.Writer
}

// run converts every non-blank line of r and writes the result to w. It
// returns the number of records written.
func (c converter) run(r io.Reader, w io.Writer) (int, error) {
	bw := bufio.NewWriter(w)
	sc := bufio.NewScanner(r)

	var n, lineNo int
	for sc.Scan() {
		lineNo++
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}

		v, err := c.in.Parse(line)
		if err != nil {
			return n, errors.WithMessagef(err, "line %d", lineNo)
		}
		if c.debug != nil {
			spew.Fdump(c.debug, v)
		}
		s, err := c.out.Serialize(v)
		if err != nil {
			return n, errors.WithMessagef(err, "line %d", lineNo)
		}
		if _, err := bw.WriteString(s); err != nil {
			return n, err
		}
		n++
	}
	if err := sc.Err(); err != nil {
		return n, err
	}
	return n, bw.Flush()
}
