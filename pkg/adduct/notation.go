package adduct

import (
	"regexp"
	"strconv"
)

// Notation is the charge and multimer encoded in an adduct name such as
// "[2M+H]+" or "[M+2H]2+".
type Notation struct {
	Charge   int
	Multimer int
	// Defaulted is set when neither the charge nor the multimer pattern
	// matched and both values fell back to 1. A malformed name lands here
	// without an error.
	Defaulted bool
}

var (
	chargePattern   = regexp.MustCompile(`([2-9])([+-])`)
	multimerPattern = regexp.MustCompile(`\[([2-9])M`)

	outputMultimerPattern = regexp.MustCompile(`\[(\d*)M`)
	outputChargePattern   = regexp.MustCompile(`\](\d*)([+-])$`)
)

// ParseNotation extracts charge and multimer from an adduct name.
//
// Charge is the first digit 2-9 directly followed by a sign; multimer is a
// digit 2-9 between "[" and "M". Either defaults to 1 when absent. Singly
// charged adducts never carry an explicit digit.
func ParseNotation(name string) Notation {
	n := Notation{Charge: 1, Multimer: 1}
	matched := false

	if m := chargePattern.FindStringSubmatch(name); m != nil {
		n.Charge, _ = strconv.Atoi(m[1])
		matched = true
	}
	if m := multimerPattern.FindStringSubmatch(name); m != nil {
		n.Multimer, _ = strconv.Atoi(m[1])
		matched = true
	}

	n.Defaulted = !matched
	return n
}

// parseOutputNotation is the independent parse used when computing m/z from a
// neutral mass: multimer is any digits before "M", charge any digits between
// "]" and the trailing sign. It agrees with ParseNotation on well-formed names.
func parseOutputNotation(name string) Notation {
	n := Notation{Charge: 1, Multimer: 1}
	matched := false

	if m := outputMultimerPattern.FindStringSubmatch(name); m != nil {
		matched = true
		if v, err := strconv.Atoi(m[1]); err == nil && v > 0 {
			n.Multimer = v
		}
	}
	if m := outputChargePattern.FindStringSubmatch(name); m != nil {
		matched = true
		if v, err := strconv.Atoi(m[1]); err == nil && v > 0 {
			n.Charge = v
		}
	}

	n.Defaulted = !matched
	return n
}
