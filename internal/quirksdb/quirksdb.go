// Package quirksdb holds a small table of per-device overrides for HID
// report descriptors known to lie about their own logical range or
// report id — the kind of table hidapi and Linux's hid-quirks.c both
// carry, and that spec.md's "external collaborators" boundary leaves
// room for without naming.
package quirksdb

import (
	"fmt"
	"io"
	"os"

	"github.com/hidkit/hidkit/report"
	yaml "gopkg.in/yaml.v3"
)

// Quirk overrides a subset of a parsed element's fields for one
// vendor/product pair. Zero-value overrides (nil pointers) mean "leave
// as parsed".
type Quirk struct {
	VendorID         uint16 `yaml:"vendor_id"`
	ProductID        uint16 `yaml:"product_id"`
	Name             string `yaml:"name"`
	LogicalMinOverride *int32 `yaml:"logical_min_override,omitempty"`
	LogicalMaxOverride *int32 `yaml:"logical_max_override,omitempty"`
	ReportIDOverride   *uint8 `yaml:"report_id_override,omitempty"`
}

// DB is an in-memory quirks table keyed by (vendor, product).
type DB struct {
	quirks map[[2]uint16]Quirk
}

// Load parses a quirks table from r. The document is a YAML sequence of
// Quirk entries at the top level.
func Load(r io.Reader) (*DB, error) {
	var entries []Quirk
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&entries); err != nil {
		if err == io.EOF {
			return &DB{quirks: map[[2]uint16]Quirk{}}, nil
		}
		return nil, fmt.Errorf("quirksdb: decoding quirks file: %w", err)
	}
	db := &DB{quirks: make(map[[2]uint16]Quirk, len(entries))}
	for _, q := range entries {
		db.quirks[[2]uint16{q.VendorID, q.ProductID}] = q
	}
	return db, nil
}

// LoadFile is Load against a path on disk.
func LoadFile(path string) (*DB, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("quirksdb: opening %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}

// Lookup returns the quirk registered for vid/pid, if any.
func (db *DB) Lookup(vid, pid uint16) (Quirk, bool) {
	if db == nil {
		return Quirk{}, false
	}
	q, ok := db.quirks[[2]uint16{vid, pid}]
	return q, ok
}

// Apply rewrites every element of model whose overrides are named by the
// quirk registered for vid/pid. Returns whether a quirk was found and
// applied.
func (db *DB) Apply(model *report.DeviceModel, vid, pid uint16) bool {
	q, ok := db.Lookup(vid, pid)
	if !ok {
		return false
	}
	for _, e := range model.Elements {
		if q.LogicalMinOverride != nil {
			e.LogicalMin = *q.LogicalMinOverride
		}
		if q.LogicalMaxOverride != nil {
			e.LogicalMax = *q.LogicalMaxOverride
		}
		if q.ReportIDOverride != nil {
			e.ReportID = *q.ReportIDOverride
		}
	}
	return true
}
