// Command datalog-compact removes block-sequence overlaps across one or
// more log files and writes the result renamed to its actual first/last
// sequence.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/mikee47/datalog/compact"
	"github.com/mikee47/datalog/compress"
)

func main() {
	var (
		outDir  = flag.String("out", ".", "output directory")
		archive = flag.String("archive", "", "optional archive codec for a compressed sidecar: none, zstd, s2, lz4")
	)
	flag.Parse()

	inputs := flag.Args()
	if len(inputs) == 0 {
		log.Fatal("datalog-compact: at least one input log file is required")
	}

	codecType, err := parseCodec(*archive)
	if err != nil {
		log.Fatalf("datalog-compact: %v", err)
	}

	res, err := compact.Run(inputs, *outDir, codecType)
	if err != nil {
		log.Fatalf("datalog-compact: %v", err)
	}
	for _, w := range res.Warnings {
		log.Printf("datalog-compact: warning: %v", w)
	}

	log.Printf("compacted %d file(s) into %s (%d block(s), %d dupe(s) removed)",
		len(inputs), res.OutputPath, res.BlockCount, res.Dupes)
	if res.ArchivePath != "" {
		log.Printf("wrote archive sidecar %s", res.ArchivePath)
	}
}

func parseCodec(name string) (compress.Type, error) {
	switch strings.ToLower(name) {
	case "":
		return 0, nil
	case "none":
		return compress.None, nil
	case "zstd":
		return compress.Zstd, nil
	case "s2":
		return compress.S2, nil
	case "lz4":
		return compress.LZ4, nil
	default:
		return 0, fmt.Errorf("unknown archive codec %q", name)
	}
}
