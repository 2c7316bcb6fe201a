// Package endian provides byte order utilities for binary encoding and
// decoding of on-wire block and entry frames.
//
// It extends the standard encoding/binary package by combining the
// ByteOrder and AppendByteOrder interfaces into a unified EndianEngine,
// so packers and unpackers can share one value instead of juggling two
// interfaces.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder from encoding/binary
// into a single interface. binary.LittleEndian and binary.BigEndian both
// satisfy it.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine. All on-wire
// block and entry frames defined by this module are little-endian.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}
