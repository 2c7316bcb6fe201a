// Command datalog-export decodes one or more log files and relationally
// exports the result to a MySQL database.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/mikee47/datalog/blockset"
	"github.com/mikee47/datalog/decoder"
	"github.com/mikee47/datalog/entry"
	"github.com/mikee47/datalog/errs"
	"github.com/mikee47/datalog/sqlexport"
)

func main() {
	dsn := flag.String("dsn", "", "MySQL DSN, e.g. user:pass@tcp(127.0.0.1:3306)/datalog")
	flag.Parse()

	inputs := flag.Args()
	if *dsn == "" || len(inputs) == 0 {
		log.Fatal("datalog-export: -dsn and at least one input log file are required")
	}

	set := blockset.New()
	for _, path := range inputs {
		if _, _, err := set.LoadFile(path); err != nil {
			if !errors.Is(err, errs.ErrTornTail) {
				log.Fatalf("datalog-export: loading %s: %v", path, err)
			}
			log.Printf("datalog-export: warning: %s: %v", path, err)
		}
	}

	sess, err := decoder.NewSession()
	if err != nil {
		log.Fatalf("datalog-export: %v", err)
	}
	sess.DecodeAll(set)
	for _, w := range sess.Warnings {
		log.Printf("datalog-export: warning: %v", w)
	}

	exporter, err := sqlexport.Open(*dsn)
	if err != nil {
		log.Fatalf("datalog-export: %v", err)
	}
	defer exporter.Close()

	var exported, skipped int
	for _, e := range sess.Output() {
		switch v := e.(type) {
		case *entry.Data:
			if v.Table == nil || v.Anchor == nil {
				skipped++
				continue
			}
			if err := exporter.ExportData(v); err != nil {
				log.Printf("datalog-export: %v", err)
				continue
			}
			exported++

		case *entry.Boot:
			if !v.HasUTC {
				continue
			}
			if err := exporter.ExportEvent(v.UTC, "boot", v.Reason.String()); err != nil {
				log.Printf("datalog-export: %v", err)
			}

		case *entry.Exception:
			if !v.HasUTC {
				continue
			}
			comment := fmt.Sprintf("cause=%#x epc1=%#x", v.Cause, v.EPC1)
			if err := exporter.ExportEvent(v.UTC, "exception", comment); err != nil {
				log.Printf("datalog-export: %v", err)
			}
		}
	}

	log.Printf("exported %d data record(s), skipped %d unresolved", exported, skipped)
}
