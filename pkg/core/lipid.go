package core

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// LipidType is the lipid class tag (PC, PE, TG, ...).
type LipidType string

// Lipid classes seen in annotation inputs
const (
	LipidPC LipidType = "PC"
	LipidPE LipidType = "PE"
	LipidPI LipidType = "PI"
	LipidPG LipidType = "PG"
	LipidPS LipidType = "PS"
	LipidPA LipidType = "PA"
	LipidSM LipidType = "SM"
	LipidTG LipidType = "TG"
	LipidDG LipidType = "DG"
	LipidMG LipidType = "MG"
	LipidCE LipidType = "CE"
	LipidFA LipidType = "FA"
)

// Lipid is the identity record attached to an annotation. The adduct core
// never interprets it.
type Lipid struct {
	ID          int
	Name        string    // e.g. "PC 34:1"
	Formula     string    // e.g. "C42H82NO8P"
	Type        LipidType // class tag
	CarbonCount int
	DoubleBonds int
}

func (l Lipid) String() string {
	return fmt.Sprintf("Lipid(%d, %s, %s)", l.ID, l.Name, l.Formula)
}

// shorthandPattern matches sum-composition names such as "PC 34:1" or "TG 54:3".
var shorthandPattern = regexp.MustCompile(`^([A-Za-z]+)\s+(\d+):(\d+)`)

// ParseLipidName extracts class, carbon count and double bonds from a
// shorthand lipid name. ok is false when the name is not in "CLASS C:DB" form.
func ParseLipidName(name string) (class LipidType, carbons, doubleBonds int, ok bool) {
	m := shorthandPattern.FindStringSubmatch(strings.TrimSpace(name))
	if m == nil {
		return "", 0, 0, false
	}
	carbons, _ = strconv.Atoi(m[2])
	doubleBonds, _ = strconv.Atoi(m[3])
	return LipidType(strings.ToUpper(m[1])), carbons, doubleBonds, true
}

var elementPattern = regexp.MustCompile(`([A-Z][a-z]?)(\d*)`)

// ParseFormula parses a molecular formula like "C42H82NO8P".
// Only the elements C, H, N, O, P and S are supported.
func ParseFormula(formula string) (Composition, error) {
	var comp Composition
	formula = strings.TrimSpace(formula)
	if formula == "" {
		return comp, fmt.Errorf("empty formula")
	}

	consumed := 0
	for _, m := range elementPattern.FindAllStringSubmatchIndex(formula, -1) {
		if m[0] != consumed {
			return comp, fmt.Errorf("invalid formula '%s' at offset %d", formula, consumed)
		}
		consumed = m[1]

		element := formula[m[2]:m[3]]
		count := 1
		if m[4] != m[5] {
			n, err := strconv.Atoi(formula[m[4]:m[5]])
			if err != nil {
				return comp, fmt.Errorf("invalid count for %s in '%s': %w", element, formula, err)
			}
			count = n
		}

		switch element {
		case "C":
			comp.C += count
		case "H":
			comp.H += count
		case "N":
			comp.N += count
		case "O":
			comp.O += count
		case "P":
			comp.P += count
		case "S":
			comp.S += count
		default:
			return comp, fmt.Errorf("unsupported element '%s' in formula '%s'", element, formula)
		}
	}
	if consumed != len(formula) {
		return comp, fmt.Errorf("invalid formula '%s' at offset %d", formula, consumed)
	}

	return comp, nil
}

// MonoisotopicMass returns the neutral monoisotopic mass of the lipid formula.
func (l Lipid) MonoisotopicMass() (float64, error) {
	comp, err := ParseFormula(l.Formula)
	if err != nil {
		return 0, err
	}
	return comp.Mass(), nil
}
