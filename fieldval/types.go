// Package fieldval decodes fixed and variable-length field payloads from
// a data record using the owning table's layout.
package fieldval

import (
	"fmt"

	"github.com/mikee47/datalog/entry"
	"github.com/mikee47/datalog/errs"
)

// WireCode reports the external-interface mapping for a (type, size)
// combination: its wire format code and its SQL column type. ok is false for any combination not in the
// map; the caller reports this and decodes the value as zero.
func WireCode(t entry.FieldType, size uint8) (wireCode, sqlType string, ok bool) {
	switch {
	case t == entry.Float && size == 4:
		return "f", "REAL", true
	case t == entry.Float && size == 8:
		return "d", "DOUBLE", true
	case t == entry.Char && size == 1:
		return "s", "TEXT", true
	case t == entry.Unsigned:
		switch size {
		case 1:
			return "B", "TINYINT", true
		case 2:
			return "H", "SMALLINT", true
		case 4:
			return "I", "INT", true
		case 8:
			return "Q", "BIGINT", true
		}
	case t == entry.Signed:
		switch size {
		case 1:
			return "b", "TINYINT", true
		case 2:
			return "h", "SMALLINT", true
		case 4:
			return "i", "INT", true
		case 8:
			return "q", "BIGINT", true
		}
	}

	return "", "", false
}

// errUnmapped reports a (type, size) combination absent from the field
// type map.
func errUnmapped(t entry.FieldType, size uint8) error {
	return fmt.Errorf("fieldval: unmapped type/size combination (%s, %d): %w", t, size, errs.ErrUnknownFieldType)
}
