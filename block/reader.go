package block

import (
	"fmt"
	"io"

	"github.com/mikee47/datalog/errs"
)

// ReadResult pairs a parsed block with the error encountered producing it,
// for callers that want to keep going past a malformed chunk.
type ReadResult struct {
	Block Block
	Err   error
}

// ReadAll reads r in Size-byte chunks and parses each as a block. Chunks
// that fail to parse (bad magic or kind) are reported via their Err field
// and skipped from further processing by the caller. A trailing partial
// chunk shorter than Size is ignored; if the total bytes read is not a
// multiple of Size, the returned error wraps errs.ErrTornTail as a
// warning (not fatal — all blocks read up to that point are still
// returned alongside it).
func ReadAll(r io.Reader) ([]ReadResult, error) {
	var results []ReadResult
	var tornTail error

	for {
		buf := make([]byte, Size)
		n, err := io.ReadFull(r, buf)
		switch {
		case err == io.EOF:
			return results, tornTail
		case err == io.ErrUnexpectedEOF:
			// Partial trailing chunk: not a multiple of Size, ignored.
			tornTail = fmt.Errorf("block: read %d trailing bytes: %w", n, errs.ErrTornTail)
			return results, tornTail
		case err != nil:
			return results, err
		}

		b, perr := Parse(buf)
		results = append(results, ReadResult{Block: b, Err: perr})
	}
}
