// Package compress provides interchangeable compression codecs for the
// archival sidecar output produced by the compactor (see the compact
// package).
//
// The compactor deduplicates and renames a block-sequence range out of one
// or more raw log files (see the blockset package); it can additionally
// write a compressed copy of that range for cold storage. Four codecs are
// available:
//
//   - None: a straight passthrough, useful when the caller wants the
//     uncompressed renamed file only.
//   - Zstd: best compression ratio, moderate speed. Good default for
//     long-term archival.
//   - S2: balanced compression and speed.
//   - LZ4: fastest decompression, moderate compression ratio.
//
// Pick a codec with CreateCodec(Type) or use the concrete constructors
// (NewZstdCompressor, NewS2Compressor, NewLZ4Compressor, NewNoOpCompressor)
// directly. All implementations are safe for concurrent use.
package compress
