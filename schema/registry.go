// Package schema maintains the in-progress and registered table
// definitions for a decode session.
package schema

import (
	"github.com/mikee47/datalog/entry"
)

// Registry holds the table registry keyed by id and tracks which table
// is "current" for subsequent field registrations.
type Registry struct {
	tables  map[uint16]*entry.Table
	current *entry.Table
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{tables: make(map[uint16]*entry.Table)}
}

// RegisterTable installs t as the registry's current table, overwriting
// any previous table registered under the same id.
func (r *Registry) RegisterTable(t *entry.Table) {
	r.tables[t.ID] = t
	r.current = t
}

// RegisterField appends f to the current table's field list, recording
// its offset and advancing the table's fixed-portion layout. If there is
// no current table, f is marked Detached and kept unattached (spec
// §4.4: "a field may be registered with no current table; such a field
// is kept but detached").
func (r *Registry) RegisterField(f *entry.Field) {
	if r.current == nil {
		f.Detached = true
		return
	}

	f.Table = r.current
	f.Offset = r.current.FieldDataSize
	r.current.Fields = append(r.current.Fields, f)

	if f.IsVariable {
		r.current.FieldDataSize += 2 // element-count slot
	} else {
		r.current.FieldDataSize += int(f.Size)
	}
}

// Table looks up a table by id.
func (r *Registry) Table(id uint16) (*entry.Table, bool) {
	t, ok := r.tables[id]
	return t, ok
}

// Current returns the current table, or nil if none has been
// registered since the last reset.
func (r *Registry) Current() *entry.Table {
	return r.current
}

// Tables returns every registered table, in no particular order.
func (r *Registry) Tables() []*entry.Table {
	out := make([]*entry.Table, 0, len(r.tables))
	for _, t := range r.tables {
		out = append(out, t)
	}

	return out
}

// Reset clears the table registry and the current-table pointer. Called
// on every boot entry.
func (r *Registry) Reset() {
	r.tables = make(map[uint16]*entry.Table)
	r.current = nil
}
