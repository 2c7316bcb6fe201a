// Package sqlexport relationally exports a decoded entry stream: one SQL
// table per source table (primary key utc), a sidecar __datalog(utc, kind,
// comment) table for boot/exception system events, skipping records
// already present and ALTERing tables for newly observed fields. It is a
// boundary collaborator outside the core decoder, built the way perkeep's
// pkg/sorted/mysql opens and migrates a MySQL schema.
package sqlexport

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"

	"github.com/mikee47/datalog/endian"
	"github.com/mikee47/datalog/entry"
	"github.com/mikee47/datalog/fieldval"
)

const sidecarTable = "__datalog"

const sidecarDDL = `CREATE TABLE IF NOT EXISTS ` + sidecarTable + ` (
	utc DOUBLE PRIMARY KEY,
	kind VARCHAR(32) NOT NULL,
	comment TEXT
)`

var engine = endian.GetLittleEndianEngine()

// Exporter relationally exports data and system-event entries over a
// database/sql handle opened with the mysql driver.
type Exporter struct {
	db *sql.DB

	// knownColumns caches, per sanitized table name, the set of columns
	// already known to exist, so ExportData only queries/ALTERs a table's
	// schema the first time a new field is seen.
	knownColumns map[string]map[string]bool
}

// Open opens dsn with the mysql driver, pings it, and ensures the sidecar
// system-event table exists.
func Open(dsn string) (*Exporter, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlexport: opening %w", err)
	}
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("sqlexport: %w", err)
	}

	if _, err := db.Exec(sidecarDDL); err != nil {
		return nil, fmt.Errorf("sqlexport: creating %s: %w", sidecarTable, err)
	}

	return &Exporter{db: db, knownColumns: make(map[string]map[string]bool)}, nil
}

// Close releases the underlying database handle.
func (e *Exporter) Close() error {
	return e.db.Close()
}

// sanitize maps a device-declared table or field name to a safe SQL
// identifier: only ASCII letters, digits and underscore survive.
func sanitize(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	if b.Len() == 0 {
		return "_"
	}

	return b.String()
}

// ExportData inserts d if d.Table and d.Anchor are both resolved and its
// UTC is newer than the table's current maximum, creating the table and
// ALTERing in any unseen columns as needed.
func (e *Exporter) ExportData(d *entry.Data) error {
	if d.Table == nil {
		return fmt.Errorf("sqlexport: data entry references unresolved table id %d", d.TableID)
	}

	utc, ok := d.UTC()
	if !ok {
		return fmt.Errorf("sqlexport: data entry for table %q has no resolved time anchor", d.Table.Name)
	}

	name := sanitize(d.Table.Name)
	if err := e.ensureTable(name, d.Table); err != nil {
		return err
	}

	var maxUTC sql.NullFloat64
	row := e.db.QueryRow(fmt.Sprintf("SELECT MAX(utc) FROM %s", name)) //nolint:gosec // name is sanitized
	if err := row.Scan(&maxUTC); err != nil {
		return fmt.Errorf("sqlexport: querying max(utc) for %s: %w", name, err)
	}
	if maxUTC.Valid && utc <= maxUTC.Float64 {
		return nil // already exported
	}

	cols := []string{"utc"}
	placeholders := []string{"?"}
	args := []any{utc}

	for _, f := range d.Table.Fields {
		v, err := fieldval.Value(engine, d.Payload, d.Table, f)
		if err != nil {
			continue // malformed field decodes as zero upstream; skip the column rather than fail the row
		}
		if arr, isArr := v.([]any); isArr {
			v = fmt.Sprintf("%v", arr) // TEXT column, see columnType
		}
		cols = append(cols, sanitize(f.Name))
		placeholders = append(placeholders, "?")
		args = append(args, v)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", name, strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	if _, err := e.db.Exec(query, args...); err != nil {
		return fmt.Errorf("sqlexport: inserting into %s: %w", name, err)
	}

	return nil
}

// ExportEvent inserts a boot or exception system event into the sidecar
// table, ignoring a duplicate primary key.
func (e *Exporter) ExportEvent(utc float64, kind, comment string) error {
	query := fmt.Sprintf("INSERT IGNORE INTO %s (utc, kind, comment) VALUES (?, ?, ?)", sidecarTable)
	if _, err := e.db.Exec(query, utc, kind, comment); err != nil {
		return fmt.Errorf("sqlexport: inserting system event: %w", err)
	}

	return nil
}

func (e *Exporter) ensureTable(name string, table *entry.Table) error {
	if cols, ok := e.knownColumns[name]; ok {
		return e.ensureColumns(name, cols, table)
	}

	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (utc DOUBLE PRIMARY KEY)", name)
	if _, err := e.db.Exec(ddl); err != nil {
		return fmt.Errorf("sqlexport: creating table %s: %w", name, err)
	}

	cols, err := e.existingColumns(name)
	if err != nil {
		return err
	}
	e.knownColumns[name] = cols

	return e.ensureColumns(name, cols, table)
}

func (e *Exporter) existingColumns(name string) (map[string]bool, error) {
	rows, err := e.db.Query(fmt.Sprintf("SHOW COLUMNS FROM %s", name)) //nolint:gosec // name is sanitized
	if err != nil {
		return nil, fmt.Errorf("sqlexport: listing columns of %s: %w", name, err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var field, colType, null, key string
		var def, extra sql.NullString
		if err := rows.Scan(&field, &colType, &null, &key, &def, &extra); err != nil {
			return nil, err
		}
		cols[field] = true
	}

	return cols, rows.Err()
}

func (e *Exporter) ensureColumns(name string, cols map[string]bool, table *entry.Table) error {
	for _, f := range table.Fields {
		colName := sanitize(f.Name)
		if cols[colName] {
			continue
		}

		sqlType := columnType(f)
		ddl := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", name, colName, sqlType)
		if _, err := e.db.Exec(ddl); err != nil {
			return fmt.Errorf("sqlexport: adding column %s.%s: %w", name, colName, err)
		}
		cols[colName] = true
	}

	return nil
}

// columnType maps a field's (type, size, isVariable) to a SQL column
// type. Variable fields are stored as TEXT (strings verbatim, numeric
// arrays as their Go %v rendering).
func columnType(f *entry.Field) string {
	if f.IsVariable {
		return "TEXT"
	}

	_, sqlType, ok := fieldval.WireCode(f.Type, f.Size)
	if !ok {
		return "TEXT"
	}

	return sqlType
}
