package core

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownIonization is returned when an ionization mode string is not recognized.
var ErrUnknownIonization = errors.New("unknown ionization mode")

// Ionization is the polarity of the ion source.
type Ionization int

const (
	IonizationUnknown Ionization = iota
	Positive
	Negative
)

func (i Ionization) String() string {
	switch i {
	case Positive:
		return "POSITIVE"
	case Negative:
		return "NEGATIVE"
	default:
		return "UNKNOWN"
	}
}

// Polarity returns the one-character polarity sign used in spectral databases.
func (i Ionization) Polarity() string {
	switch i {
	case Positive:
		return "+"
	case Negative:
		return "-"
	default:
		return ""
	}
}

// ParseIonization accepts "positive", "pos", "+", "negative", "neg" or "-"
// in any case.
func ParseIonization(s string) (Ionization, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive", "pos", "+":
		return Positive, nil
	case "negative", "neg", "-":
		return Negative, nil
	default:
		return IonizationUnknown, fmt.Errorf("%w: '%s'", ErrUnknownIonization, s)
	}
}
