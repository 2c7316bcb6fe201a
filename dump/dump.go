// Package dump formats a decoded entry stream as plain text, one line per
// entry, matching the original tool's print(entry) loop. It is a boundary
// collaborator outside the core decoder.
package dump

import (
	"fmt"
	"io"

	"github.com/mikee47/datalog/endian"
	"github.com/mikee47/datalog/entry"
	"github.com/mikee47/datalog/fieldval"
)

var defaultEngine = endian.GetLittleEndianEngine()

// WriteEntry writes one human-readable line describing e to w. Field
// values are rounded to 3 decimal places for display only; full precision
// is retained internally and only this formatter rounds.
func WriteEntry(w io.Writer, e entry.Entry) error {
	switch v := e.(type) {
	case *entry.Boot:
		_, err := fmt.Fprintf(w, "[boot] reason=%s utc=%s\n", v.Reason, formatUTC(v.HasUTC, v.UTC))
		return err

	case *entry.Time:
		_, err := fmt.Fprintf(w, "[time] systemTime=%d utc=%d\n", v.SystemTime, v.UTC)
		return err

	case *entry.Table:
		_, err := fmt.Fprintf(w, "[table] id=%d name=%q\n", v.ID, v.Name)
		return err

	case *entry.Field:
		_, err := fmt.Fprintf(w, "[field] table=%d id=%d name=%q type=%s variable=%v size=%d\n",
			fieldTableID(v), v.ID, v.Name, v.Type, v.IsVariable, v.Size)
		return err

	case *entry.Data:
		return writeData(w, v)

	case *entry.Exception:
		_, err := fmt.Fprintf(w, "[exception] cause=%#x epc1=%#x epc2=%#x epc3=%#x excvaddr=%#x depc=%#x utc=%s stack=%d words\n",
			v.Cause, v.EPC1, v.EPC2, v.EPC3, v.ExcVAddr, v.DEPC, formatUTC(v.HasUTC, v.UTC), len(v.Stack))
		return err

	case *entry.Map:
		_, err := fmt.Fprintf(w, "[map] %d sequence(s)\n", len(v.Sequences))
		return err

	case *entry.Unknown:
		_, err := fmt.Fprintf(w, "[unknown] kind=%s bytes=%d cause=%v\n", v.RawKind, len(v.Payload), v.Cause)
		return err

	default:
		_, err := fmt.Fprintf(w, "[?] %T\n", e)
		return err
	}
}

func fieldTableID(f *entry.Field) uint16 {
	if f.Table == nil {
		return 0
	}

	return f.Table.ID
}

func formatUTC(has bool, utc float64) string {
	if !has {
		return "?"
	}

	return fmt.Sprintf("%.3f", utc)
}

func writeData(w io.Writer, d *entry.Data) error {
	utc, ok := d.UTC()
	if _, err := fmt.Fprintf(w, "[data] table=%d utc=%s", d.TableID, formatUTC(ok, utc)); err != nil {
		return err
	}

	if d.Table != nil {
		for _, f := range d.Table.Fields {
			v, err := fieldval.Value(defaultEngine, d.Payload, d.Table, f)
			if err != nil {
				if _, err := fmt.Fprintf(w, " %s=<err>", f.Name); err != nil {
					return err
				}
				continue
			}
			if _, err := fmt.Fprintf(w, " %s=%s", f.Name, formatValue(v)); err != nil {
				return err
			}
		}
	}

	_, err := fmt.Fprintln(w)
	return err
}

func formatValue(v any) string {
	switch x := v.(type) {
	case float64:
		return fmt.Sprintf("%.3f", x)
	default:
		return fmt.Sprintf("%v", x)
	}
}
