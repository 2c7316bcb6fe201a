// Command datalog-dump decodes one or more log files and prints the
// resulting entry stream as plain text.
package main

import (
	"bufio"
	"errors"
	"flag"
	"log"
	"os"

	"github.com/mikee47/datalog/blockset"
	"github.com/mikee47/datalog/decoder"
	"github.com/mikee47/datalog/dump"
	"github.com/mikee47/datalog/errs"
)

func main() {
	flag.Parse()

	inputs := flag.Args()
	if len(inputs) == 0 {
		log.Fatal("datalog-dump: at least one input log file is required")
	}

	set := blockset.New()
	for _, path := range inputs {
		if _, _, err := set.LoadFile(path); err != nil {
			if !errors.Is(err, errs.ErrTornTail) {
				log.Fatalf("datalog-dump: loading %s: %v", path, err)
			}
			log.Printf("datalog-dump: warning: %s: %v", path, err)
		}
	}

	sess, err := decoder.NewSession()
	if err != nil {
		log.Fatalf("datalog-dump: %v", err)
	}
	sess.DecodeAll(set)

	out := bufio.NewWriter(os.Stdout)
	for _, e := range sess.Output() {
		if err := dump.WriteEntry(out, e); err != nil {
			log.Fatalf("datalog-dump: writing output: %v", err)
		}
	}
	if err := out.Flush(); err != nil {
		log.Fatalf("datalog-dump: %v", err)
	}

	for _, w := range sess.Warnings {
		log.Printf("datalog-dump: warning: %v", w)
	}
}
