package entry

import (
	"fmt"
	"unicode/utf8"

	"github.com/mikee47/datalog/endian"
	"github.com/mikee47/datalog/errs"
)

// FieldType is the type discriminant carried in the low 7 bits of a
// field entry's type byte.
type FieldType uint8

const (
	Unsigned FieldType = 0
	Signed   FieldType = 1
	Float    FieldType = 2
	Char     FieldType = 3
)

func (t FieldType) String() string {
	switch t {
	case Unsigned:
		return "unsigned"
	case Signed:
		return "signed"
	case Float:
		return "float"
	case Char:
		return "char"
	default:
		return fmt.Sprintf("fieldtype(%d)", uint8(t))
	}
}

const variableFlag = 0x80

// Field declares one column of the table it belongs to. Offset, Table
// and Detached are filled in by the schema registry at registration
// time; decodeField only parses the wire payload.
type Field struct {
	Origin_    Origin
	ID         uint16
	Type       FieldType
	IsVariable bool
	Size       uint8
	Name       string

	// Offset is the byte offset of the field's fixed portion (or, for a
	// variable field, its 2-byte element-count slot) within a data
	// record's payload.
	Offset int
	// Table is the owning table, or nil if Detached is true.
	Table *Table
	// Detached reports whether this field was registered with no current
	// table. Kept for diagnostics only; never resolved against a table.
	Detached bool
}

func (f *Field) Kind() Kind     { return KindField }
func (f *Field) Origin() Origin { return f.Origin_ }

func decodeField(content []byte, origin Origin) (Entry, error) {
	if len(content) < 4 {
		return nil, fmt.Errorf("field: payload too short (%d bytes)", len(content))
	}

	engine := endian.GetLittleEndianEngine()
	id := engine.Uint16(content[0:2])
	typeByte := content[2]
	size := content[3]
	name := content[4:]
	if !utf8.Valid(name) {
		return nil, fmt.Errorf("field: name is not valid UTF-8")
	}

	if size == 0 {
		return nil, fmt.Errorf("field %q: %w", string(name), errs.ErrZeroFieldSize)
	}

	return &Field{
		Origin_:    origin,
		ID:         id,
		Type:       FieldType(typeByte &^ variableFlag),
		IsVariable: typeByte&variableFlag != 0,
		Size:       size,
		Name:       string(name),
	}, nil
}
