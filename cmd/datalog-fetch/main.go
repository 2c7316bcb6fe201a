// Command datalog-fetch pulls new blocks from a device over HTTP and lays
// them out on disk for a local decode run.
package main

import (
	"context"
	"flag"
	"log"
	"strconv"
	"time"

	"github.com/mikee47/datalog/fetch"
)

func main() {
	var (
		url     = flag.String("url", "", "device block endpoint, e.g. http://device.local/datalog")
		outDir  = flag.String("out", ".", "output directory (a logs/ subdirectory is created under it)")
		start   = flag.String("start", "0", "starting sequence number (decimal or 0x-prefixed hex)")
		timeout = flag.Duration("timeout", 10*time.Second, "per-attempt HTTP timeout")
	)
	flag.Parse()

	if *url == "" {
		log.Fatal("datalog-fetch: -url is required")
	}

	startSeq, err := strconv.ParseUint(*start, 0, 32)
	if err != nil {
		log.Fatalf("datalog-fetch: invalid -start %q: %v", *start, err)
	}

	res, err := fetch.Fetch(context.Background(), fetch.Config{
		BaseURL: *url,
		OutDir:  *outDir,
		Timeout: *timeout,
	}, uint32(startSeq))
	if err != nil {
		log.Fatalf("datalog-fetch: %v", err)
	}

	log.Printf("fetched %d block(s) [%d-%d], %d tail byte(s), next sequence %#x",
		res.BlockCount, res.First, res.Last, res.TailBytes, res.NextSequence)
}
