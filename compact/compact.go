// Package compact removes block-sequence overlaps across one or more log
// files and writes a single file renamed to reflect its actual first/last
// sequence, optionally alongside a compressed archive sidecar. It is a
// boundary collaborator outside the core decoder; the dedup work itself
// is entirely the blockset package's.
package compact

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/renameio"

	"github.com/mikee47/datalog/blockset"
	"github.com/mikee47/datalog/compress"
	"github.com/mikee47/datalog/errs"
)

// Result summarizes one compaction.
type Result struct {
	First, Last uint32
	BlockCount  int
	Dupes       int
	OutputPath  string
	ArchivePath string

	// Warnings accumulates non-fatal conditions seen while loading inputs,
	// such as a torn tail on a file still being written.
	Warnings []error
}

// Run loads every block from inputs, deduplicated by sequence (the
// blockset's own dedup removes the overlaps), and writes the result to
// outDir named datalog-<first>-<last>.bin. If codecType is non-zero, it
// additionally writes a compressed archive sidecar next to it.
func Run(inputs []string, outDir string, codecType compress.Type) (Result, error) {
	set := blockset.New()

	var dupes int
	var warnings []error
	for _, path := range inputs {
		_, d, err := set.LoadFile(path)
		if err != nil {
			if !errors.Is(err, errs.ErrTornTail) {
				return Result{}, fmt.Errorf("compact: loading %s: %w", path, err)
			}
			warnings = append(warnings, fmt.Errorf("compact: %s: %w", path, err))
		}
		dupes += d
	}

	sequences := set.Sequences()
	if len(sequences) == 0 {
		return Result{}, fmt.Errorf("compact: no valid blocks found across %d input file(s)", len(inputs))
	}

	first, last := sequences[0], sequences[len(sequences)-1]

	var combined []byte
	for _, seq := range sequences {
		b, _ := set.Get(seq)
		combined = append(combined, b.Bytes()...)
	}

	outName := fmt.Sprintf("datalog-%d-%d.bin", first, last)
	outPath := filepath.Join(outDir, outName)
	if err := renameio.WriteFile(outPath, combined, 0o644); err != nil {
		return Result{}, fmt.Errorf("compact: writing %s: %w", outPath, err)
	}

	res := Result{
		First:      first,
		Last:       last,
		BlockCount: set.Len(),
		Dupes:      dupes,
		OutputPath: outPath,
		Warnings:   warnings,
	}

	if codecType != 0 {
		archivePath, err := writeArchive(outPath, combined, codecType)
		if err != nil {
			return Result{}, err
		}
		res.ArchivePath = archivePath
	}

	return res, nil
}

func writeArchive(outPath string, combined []byte, codecType compress.Type) (string, error) {
	codec, err := compress.CreateCodec(codecType)
	if err != nil {
		return "", fmt.Errorf("compact: %w", err)
	}

	compressed, err := codec.Compress(combined)
	if err != nil {
		return "", fmt.Errorf("compact: compressing archive: %w", err)
	}

	archivePath := outPath + archiveExt(codecType)
	if err := renameio.WriteFile(archivePath, compressed, 0o644); err != nil {
		return "", fmt.Errorf("compact: writing archive %s: %w", archivePath, err)
	}

	return archivePath, nil
}

func archiveExt(t compress.Type) string {
	switch t {
	case compress.Zstd:
		return ".zst"
	case compress.S2:
		return ".s2"
	case compress.LZ4:
		return ".lz4"
	default:
		return ".archive"
	}
}
