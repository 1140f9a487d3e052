// Package adduct provides adduct mass-shift tables, m/z to neutral mass
// conversion and adduct detection over groups of co-eluting peaks
package adduct

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ChrisMcGann/LipidKey/pkg/core"
)

// Entry is a single adduct definition.
//
// MassShift is the signed mass added to charge*mz to obtain multimer*M.
type Entry struct {
	Name      string  `yaml:"name"`
	MassShift float64 `yaml:"mass_shift"`
}

// Table stores adduct definitions in insertion order. Detection walks the
// table in that order, so the order is part of the table's meaning.
type Table struct {
	names  []string
	shifts map[string]float64 // name -> mass shift
}

// NewTable creates an empty adduct table
func NewTable() *Table {
	return &Table{
		shifts: make(map[string]float64),
	}
}

// NewTableFromEntries creates a table holding entries in the given order
func NewTableFromEntries(entries []Entry) *Table {
	t := NewTable()
	for _, e := range entries {
		t.Add(e.Name, e.MassShift)
	}
	return t
}

// Add adds or updates an adduct. Updating keeps the original position.
func (t *Table) Add(name string, massShift float64) {
	if _, ok := t.shifts[name]; !ok {
		t.names = append(t.names, name)
	}
	t.shifts[name] = massShift
}

// Get returns the mass shift for an adduct name
func (t *Table) Get(name string) (float64, bool) {
	if t == nil {
		return 0, false
	}
	shift, ok := t.shifts[name]
	return shift, ok
}

// Len returns the number of adducts in the table
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.names)
}

// Names returns the adduct names in table order
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}
	names := make([]string, len(t.names))
	copy(names, t.names)
	return names
}

// Entries returns the adduct definitions in table order
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	entries := make([]Entry, 0, len(t.names))
	for _, name := range t.names {
		entries = append(entries, Entry{Name: name, MassShift: t.shifts[name]})
	}
	return entries
}

// LoadFromCSV loads adducts from a CSV stream (format: adduct,massshift).
// The first line is a header.
func (t *Table) LoadFromCSV(r io.Reader) error {
	scanner := bufio.NewScanner(r)

	// Skip header line
	scanner.Scan()

	lineNum := 1
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Split(line, ",")
		if len(parts) < 2 {
			return fmt.Errorf("line %d: invalid format, expected at least 2 comma-separated fields", lineNum)
		}

		name := strings.TrimSpace(parts[0])
		massStr := strings.TrimSpace(parts[1])
		if name == "" {
			return fmt.Errorf("line %d: empty adduct name", lineNum)
		}

		mass, err := strconv.ParseFloat(massStr, 64)
		if err != nil {
			return fmt.Errorf("line %d: invalid mass value '%s': %w", lineNum, massStr, err)
		}

		t.Add(name, mass)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading CSV: %w", err)
	}

	return nil
}

// tableFile is the YAML layout of an adduct table file.
type tableFile struct {
	Adducts []Entry `yaml:"adducts"`
}

// LoadFromYAML loads adducts from a YAML document of the form
//
//	adducts:
//	  - name: "[M+H]+"
//	    mass_shift: -1.007276
func (t *Table) LoadFromYAML(r io.Reader) error {
	var f tableFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return fmt.Errorf("failed to parse adduct YAML: %w", err)
	}
	for i, e := range f.Adducts {
		if e.Name == "" {
			return fmt.Errorf("adduct %d: empty adduct name", i)
		}
		t.Add(e.Name, e.MassShift)
	}
	return nil
}

// Tables holds the positive and negative ionization tables.
type Tables struct {
	Positive *Table
	Negative *Table
}

// ForIonization returns the table searched for the given ionization mode.
func (ts Tables) ForIonization(ion core.Ionization) (*Table, bool) {
	switch ion {
	case core.Positive:
		return ts.Positive, ts.Positive != nil
	case core.Negative:
		return ts.Negative, ts.Negative != nil
	default:
		return nil, false
	}
}

// Lookup searches the positive table first and falls back to the negative one.
func (ts Tables) Lookup(name string) (float64, bool) {
	if shift, ok := ts.Positive.Get(name); ok {
		return shift, true
	}
	return ts.Negative.Get(name)
}
