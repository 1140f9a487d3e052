package adduct

import "math"

// Converter converts between m/z and neutral monoisotopic mass under an
// adduct hypothesis.
type Converter struct {
	tables Tables
}

// NewConverter creates a converter over the given adduct tables
func NewConverter(tables Tables) *Converter {
	return &Converter{tables: tables}
}

// Tables returns the adduct tables the converter looks names up in
func (c *Converter) Tables() Tables {
	return c.tables
}

// NeutralMassFromMZ computes the neutral mass of an ion observed at mz as the
// named adduct: (mz*charge + massShift) / multimer.
//
// ok is false when mz is not finite, the name is empty or the adduct is in
// neither table.
func (c *Converter) NeutralMassFromMZ(mz float64, name string) (mass float64, ok bool) {
	if !isFinite(mz) || name == "" {
		return 0, false
	}
	shift, ok := c.tables.Lookup(name)
	if !ok {
		return 0, false
	}

	n := ParseNotation(name)
	return (mz*float64(n.Charge) + shift) / float64(n.Multimer), true
}

// MZFromNeutralMass computes the m/z of the named adduct of a neutral mass:
// (mass*multimer + massShift) / charge.
//
// The shift is applied with the same sign as in NeutralMassFromMZ, so the two
// are not inverses of each other.
func (c *Converter) MZFromNeutralMass(mass float64, name string) (mz float64, ok bool) {
	if !isFinite(mass) || name == "" {
		return 0, false
	}
	shift, ok := c.tables.Lookup(name)
	if !ok {
		return 0, false
	}

	n := parseOutputNotation(name)
	return (mass*float64(n.Multimer) + shift) / float64(n.Charge), true
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
