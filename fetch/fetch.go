// Package fetch issues GET requests against a device's block endpoint and
// lays the response out on disk the way a local decode run expects to find
// it: a file of whole blocks, a tail of leftover bytes, and the next
// sequence number to request. It is a boundary collaborator outside the
// core decoder.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio"

	"github.com/mikee47/datalog/block"
	"github.com/mikee47/datalog/internal/pool"
)

// MaxRetries is the number of additional attempts made after a socket
// timeout before Fetch gives up.
const MaxRetries = 3

// Config configures a Fetch call.
type Config struct {
	// BaseURL is the device endpoint, e.g. "http://192.168.1.50/datalog".
	BaseURL string
	// OutDir is the directory under which a "logs" subdirectory is
	// created for output files.
	OutDir string
	// Timeout bounds each individual HTTP attempt.
	Timeout time.Duration
}

// Result summarizes one Fetch call's effect on disk.
type Result struct {
	First, Last  uint32
	BlockCount   int
	TailBytes    int
	NextSequence uint32
	WroteBlocks  bool
}

// Fetch issues "GET <BaseURL>?start=<start>", retrying up to MaxRetries
// times on a socket timeout, then splits the response at block-size
// boundaries into logs/datalog-<first>-<last>.bin, the remainder into
// logs/tail.bin, and the next expected sequence (hex) into logs/next.seq.
func Fetch(ctx context.Context, cfg Config, start uint32) (Result, error) {
	client := &http.Client{Timeout: cfg.Timeout}
	url := fmt.Sprintf("%s?start=%d", cfg.BaseURL, start)

	var body []byte
	var err error
	for attempt := 0; attempt <= MaxRetries; attempt++ {
		body, err = doFetch(ctx, client, url)
		if err == nil {
			break
		}

		var netErr net.Error
		if !errors.As(err, &netErr) || !netErr.Timeout() {
			return Result{}, fmt.Errorf("fetch: %s: %w", url, err)
		}
	}
	if err != nil {
		return Result{}, fmt.Errorf("fetch: %s: giving up after %d retries: %w", url, MaxRetries, err)
	}

	return splitAndWrite(cfg.OutDir, start, body)
}

func doFetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}

	buf := pool.GetBlobSetBuffer()
	defer pool.PutBlobSetBuffer(buf)

	if _, err := io.Copy(buf, resp.Body); err != nil {
		return nil, err
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())

	return out, nil
}

// splitAndWrite lays body out as complete block.Size frames plus a
// trailing remainder, writing both via renameio so a crash mid-write
// never corrupts a previously good logs/ directory.
func splitAndWrite(outDir string, requestedStart uint32, body []byte) (Result, error) {
	logsDir := filepath.Join(outDir, "logs")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return Result{}, fmt.Errorf("fetch: creating %s: %w", logsDir, err)
	}

	fullFrames := len(body) / block.Size
	tail := body[fullFrames*block.Size:]

	var res Result
	var combined []byte
	for i := 0; i < fullFrames; i++ {
		frame := body[i*block.Size : (i+1)*block.Size]

		b, err := block.Parse(frame)
		if err != nil {
			// A malformed block in the response is skipped entirely,
			// matching the decoder's own policy for malformed blocks.
			continue
		}

		if !res.WroteBlocks {
			res.First = b.Sequence
			res.WroteBlocks = true
		}
		res.Last = b.Sequence
		res.BlockCount++
		combined = append(combined, frame...)
	}

	if res.WroteBlocks {
		name := fmt.Sprintf("datalog-%d-%d.bin", res.First, res.Last)
		if err := renameio.WriteFile(filepath.Join(logsDir, name), combined, 0o644); err != nil {
			return Result{}, fmt.Errorf("fetch: writing block file: %w", err)
		}
	}

	if err := renameio.WriteFile(filepath.Join(logsDir, "tail.bin"), tail, 0o644); err != nil {
		return Result{}, fmt.Errorf("fetch: writing tail: %w", err)
	}
	res.TailBytes = len(tail)

	res.NextSequence = requestedStart
	if res.WroteBlocks {
		res.NextSequence = res.Last + 1
	}

	nextSeqText := fmt.Sprintf("%#x", res.NextSequence)
	if err := renameio.WriteFile(filepath.Join(logsDir, "next.seq"), []byte(nextSeqText), 0o644); err != nil {
		return Result{}, fmt.Errorf("fetch: writing next.seq: %w", err)
	}

	return res, nil
}
