package decoder

import (
	"fmt"
	"os"

	"github.com/mikee47/datalog/entry"
	"github.com/mikee47/datalog/errs"
	"github.com/mikee47/datalog/timeref"
	"gopkg.in/yaml.v3"
)

// snapshotVersion guards the on-disk format; bump it if the layout below
// changes in an incompatible way.
const snapshotVersion = 1

// Snapshot is the durable, human-readable persisted decode context (spec
// §4.6 "Persistable context", §6 "Persisted context file"): enough state
// to resume decoding from the next block without re-reading earlier
// ones.
type Snapshot struct {
	Version           int            `yaml:"version"`
	Time              *snapshotTime  `yaml:"time,omitempty"`
	PrevSystemTime    uint32         `yaml:"prevSystemTime"`
	HighTime          int64          `yaml:"highTime"`
	LastBlockSequence uint32         `yaml:"lastBlockSequence"`
	LastBlockLength   int            `yaml:"lastBlockLength"`
	Tables            []snapshotTable `yaml:"tables"`
}

type snapshotTime struct {
	SystemTime int64  `yaml:"systemTime"`
	UTC        uint32 `yaml:"utc"`
}

type snapshotField struct {
	ID         uint16 `yaml:"id"`
	Name       string `yaml:"name"`
	Type       uint8  `yaml:"type"`
	Size       uint8  `yaml:"size"`
	IsVariable bool   `yaml:"isVariable"`
}

type snapshotTable struct {
	ID     uint16          `yaml:"id"`
	Name   string          `yaml:"name"`
	Fields []snapshotField `yaml:"fields"`
}

// Snapshot captures the session's persistable state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Version:           snapshotVersion,
		PrevSystemTime:    s.tracker.PrevSystemTime(),
		HighTime:          s.tracker.HighTime(),
		LastBlockSequence: s.lastBlockSequence,
		LastBlockLength:   s.lastBlockLength,
		// Non-nil so a YAML round trip, which decodes "[]" as an empty
		// slice, yields an equal Snapshot.
		Tables: []snapshotTable{},
	}

	if s.anchor != nil {
		snap.Time = &snapshotTime{
			SystemTime: s.anchor.CorrectedSystemTime,
			UTC:        s.anchor.UTC,
		}
	}

	for _, t := range s.registry.Tables() {
		st := snapshotTable{ID: t.ID, Name: t.Name, Fields: []snapshotField{}}
		for _, f := range t.Fields {
			st.Fields = append(st.Fields, snapshotField{
				ID:         f.ID,
				Name:       f.Name,
				Type:       uint8(f.Type),
				Size:       f.Size,
				IsVariable: f.IsVariable,
			})
		}
		snap.Tables = append(snap.Tables, st)
	}

	return snap
}

// Restore rebuilds session state from a snapshot taken by an earlier
// call to Snapshot. The caller must still feed the session every block
// at or after LastBlockSequence; blocks already folded into the
// snapshot must not be replayed.
func Restore(snap Snapshot) (*Session, error) {
	if snap.Version != snapshotVersion {
		return nil, fmt.Errorf("decoder: snapshot version %d: %w", snap.Version, errs.ErrSnapshotVersion)
	}

	s, err := NewSession()
	if err != nil {
		return nil, err
	}
	s.tracker.Restore(snap.PrevSystemTime, snap.HighTime)
	s.hasLastBlock = true
	s.lastBlockSequence = snap.LastBlockSequence
	s.lastBlockLength = snap.LastBlockLength

	if snap.Time != nil {
		s.anchor = &timeref.Anchor{
			CorrectedSystemTime: snap.Time.SystemTime,
			UTC:                 snap.Time.UTC,
		}
	}

	for _, st := range snap.Tables {
		tbl := &entry.Table{ID: st.ID, Name: st.Name}
		s.registry.RegisterTable(tbl)
		for _, sf := range st.Fields {
			f := &entry.Field{
				ID:         sf.ID,
				Name:       sf.Name,
				Type:       entry.FieldType(sf.Type),
				Size:       sf.Size,
				IsVariable: sf.IsVariable,
			}
			s.registry.RegisterField(f)
		}
	}
	// Restoring tables leaves no "current" table semantics to preserve:
	// the registry's current pointer is whichever table was restored
	// last, matching the registry's own RegisterTable behavior.

	return s, nil
}

// WriteSnapshotFile writes snap to path as YAML.
func WriteSnapshotFile(path string, snap Snapshot) error {
	data, err := yaml.Marshal(snap)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// ReadSnapshotFile reads and parses a snapshot previously written by
// WriteSnapshotFile.
func ReadSnapshotFile(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, err
	}

	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("decoder: parsing snapshot %s: %w", path, err)
	}

	return snap, nil
}
