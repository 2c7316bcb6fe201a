package fieldval

import (
	"fmt"
	"math"

	"github.com/mikee47/datalog/endian"
	"github.com/mikee47/datalog/entry"
	"github.com/mikee47/datalog/errs"
)

// Value decodes the value of field f within a data record's payload,
// using table's layout to locate variable-field bodies. Malformed or
// missing type/size combinations are reported and decoded as zero (spec
// §4.7), never returned as a fatal error to the caller beyond this
// single field. For a variable numeric field the returned slice holds
// the elements decoded before the failure.
func Value(engine endian.EndianEngine, payload []byte, table *entry.Table, f *entry.Field) (any, error) {
	if f.IsVariable {
		return variableValue(engine, payload, table, f)
	}

	return fixedValue(engine, payload, f)
}

func fixedValue(engine endian.EndianEngine, payload []byte, f *entry.Field) (any, error) {
	end := f.Offset + int(f.Size)
	if f.Offset < 0 || end > len(payload) {
		return zeroValue(f.Type), fmt.Errorf("fieldval: field %q: %w", f.Name, errs.ErrShortEntry)
	}

	return decodeScalar(engine, payload[f.Offset:end], f.Type, f.Size)
}

// variableValue walks table's variable fields in declaration order,
// accumulating the running trailing-body offset, until it reaches f.
func variableValue(engine endian.EndianEngine, payload []byte, table *entry.Table, f *entry.Field) (any, error) {
	offset := table.FieldDataSize

	for _, vf := range table.Fields {
		if !vf.IsVariable {
			continue
		}

		if vf.Offset+2 > len(payload) {
			return zeroValue(f.Type), fmt.Errorf("fieldval: field %q: count slot: %w", vf.Name, errs.ErrShortEntry)
		}
		count := int(engine.Uint16(payload[vf.Offset : vf.Offset+2]))
		bodyLen := count * int(vf.Size)
		end := offset + bodyLen
		if end > len(payload) {
			return zeroValue(f.Type), fmt.Errorf("fieldval: field %q: body: %w", vf.Name, errs.ErrShortEntry)
		}
		body := payload[offset:end]

		if vf == f {
			if vf.Type == entry.Char {
				return string(body), nil
			}

			return decodeArray(engine, body, vf.Type, vf.Size)
		}

		offset = end
	}

	return zeroValue(f.Type), fmt.Errorf("fieldval: field %q: %w", f.Name, errs.ErrFieldNotFound)
}

func decodeArray(engine endian.EndianEngine, body []byte, t entry.FieldType, size uint8) (any, error) {
	if size == 0 {
		return nil, errUnmapped(t, size)
	}

	n := len(body) / int(size)
	values := make([]any, 0, n)
	for i := 0; i < n; i++ {
		v, err := decodeScalar(engine, body[i*int(size):(i+1)*int(size)], t, size)
		if err != nil {
			return values, err
		}
		values = append(values, v)
	}

	return values, nil
}

// decodeScalar unpacks one element of type (t, size) from raw using the
// format implied by (type, size).
func decodeScalar(engine endian.EndianEngine, raw []byte, t entry.FieldType, size uint8) (any, error) {
	if _, _, ok := WireCode(t, size); !ok {
		return zeroValue(t), errUnmapped(t, size)
	}

	switch t {
	case entry.Float:
		switch size {
		case 4:
			return float64(math.Float32frombits(engine.Uint32(raw))), nil
		case 8:
			return math.Float64frombits(engine.Uint64(raw)), nil
		}
	case entry.Char:
		if len(raw) >= 1 {
			return string(raw[:1]), nil
		}
		return "", nil
	case entry.Unsigned:
		switch size {
		case 1:
			return uint64(raw[0]), nil
		case 2:
			return uint64(engine.Uint16(raw)), nil
		case 4:
			return uint64(engine.Uint32(raw)), nil
		case 8:
			return engine.Uint64(raw), nil
		}
	case entry.Signed:
		switch size {
		case 1:
			return int64(int8(raw[0])), nil
		case 2:
			return int64(int16(engine.Uint16(raw))), nil
		case 4:
			return int64(int32(engine.Uint32(raw))), nil
		case 8:
			return int64(engine.Uint64(raw)), nil
		}
	}

	return zeroValue(t), errUnmapped(t, size)
}

func zeroValue(t entry.FieldType) any {
	switch t {
	case entry.Float:
		return float64(0)
	case entry.Char:
		return ""
	case entry.Signed:
		return int64(0)
	default:
		return uint64(0)
	}
}
