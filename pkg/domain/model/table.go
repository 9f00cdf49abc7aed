package model

import (
	"math"
)

// Table is an immutable, ordered set of stability records. Every operation
// returns a new value and leaves the receiver untouched.
type Table struct {
	records []StabilityRecord
}

// NewTable creates a table holding a copy of records
func NewTable(records []StabilityRecord) *Table {
	cp := make([]StabilityRecord, len(records))
	copy(cp, records)
	return &Table{records: cp}
}

// Len returns the number of rows
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// Rows returns a copy of the rows in table order
func (t *Table) Rows() []StabilityRecord {
	if t == nil {
		return []StabilityRecord{}
	}
	cp := make([]StabilityRecord, len(t.records))
	copy(cp, t.records)
	return cp
}

// Filter returns the rows satisfying every predicate of c, in table order
func (t *Table) Filter(c FilterCriteria) *Table {
	var selected map[string]struct{}
	if c.Positions != nil {
		selected = make(map[string]struct{}, len(c.Positions))
		for _, p := range c.Positions {
			selected[p] = struct{}{}
		}
	}

	out := make([]StabilityRecord, 0, t.Len())
	for _, r := range t.recordsOrNil() {
		if !c.TimeRange.Contains(r.Time) {
			continue
		}
		if !c.TemperatureRange.Contains(r.Temperature) {
			continue
		}
		if selected != nil {
			if _, ok := selected[r.Position]; !ok {
				continue
			}
		}
		out = append(out, r)
	}
	return &Table{records: out}
}

// Bounds returns the extents of the time key and temperature, and the
// distinct positions in first-seen order. NaN values are ignored.
func (t *Table) Bounds() Bounds {
	b := Bounds{
		Time:        Range{Min: math.Inf(1), Max: math.Inf(-1)},
		Temperature: Range{Min: math.Inf(1), Max: math.Inf(-1)},
		Positions:   []string{},
	}
	seen := make(map[string]struct{})
	for _, r := range t.recordsOrNil() {
		b.Time = b.Time.extend(r.Time)
		b.Temperature = b.Temperature.extend(r.Temperature)
		if _, ok := seen[r.Position]; !ok {
			seen[r.Position] = struct{}{}
			b.Positions = append(b.Positions, r.Position)
		}
	}
	if b.Time.IsEmpty() {
		b.Time = Range{}
	}
	if b.Temperature.IsEmpty() {
		b.Temperature = Range{}
	}
	return b
}

func (t *Table) recordsOrNil() []StabilityRecord {
	if t == nil {
		return nil
	}
	return t.records
}
