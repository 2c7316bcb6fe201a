package entry

import (
	"fmt"
	"unicode/utf8"

	"github.com/mikee47/datalog/endian"
)

// Table names a device/domain/stream and owns the ordered list of fields
// declared for it. It becomes the schema registry's "current table" when
// decoded, and stays current until another table entry or a boot entry
// supersedes it.
type Table struct {
	Origin_ Origin
	ID      uint16
	Name    string

	// Fields is populated incrementally by the schema registry as field
	// entries belonging to this table are decoded, not by decodeTable.
	Fields []*Field
	// FieldDataSize is the table's running fixed-portion byte layout: the
	// sum, over all fields so far, of 2 (variable fields, a count-prefix
	// slot) or the field's element size (fixed fields).
	FieldDataSize int
}

func (t *Table) Kind() Kind     { return KindTable }
func (t *Table) Origin() Origin { return t.Origin_ }

func decodeTable(content []byte, origin Origin) (Entry, error) {
	if len(content) < 2 {
		return nil, fmt.Errorf("table: payload too short (%d bytes)", len(content))
	}

	engine := endian.GetLittleEndianEngine()
	id := engine.Uint16(content[0:2])
	name := content[2:]
	if !utf8.Valid(name) {
		return nil, fmt.Errorf("table: name is not valid UTF-8")
	}

	return &Table{Origin_: origin, ID: id, Name: string(name)}, nil
}
