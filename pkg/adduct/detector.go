package adduct

import (
	"context"
	"log/slog"

	"github.com/ChrisMcGann/LipidKey/pkg/core"
	"github.com/ChrisMcGann/LipidKey/pkg/logging"
)

// Detector assigns an adduct to a reference m/z by finding two peaks of its
// group whose neutral masses agree under two different adduct hypotheses.
type Detector struct {
	converter *Converter
	tolerance int
	logger    *slog.Logger
}

// Option configures a Detector
type Option func(*Detector)

// WithTolerance sets the ppm tolerance for mass agreement and reference matching
func WithTolerance(ppm int) Option {
	return func(d *Detector) {
		d.tolerance = ppm
	}
}

// WithLogger sets the logger receiving the per-step debug trace
func WithLogger(logger *slog.Logger) Option {
	return func(d *Detector) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDetector creates a detector over the given adduct tables
func NewDetector(tables Tables, opts ...Option) *Detector {
	d := &Detector{
		converter: NewConverter(tables),
		tolerance: DefaultPPMTolerance,
		logger:    logging.New("adduct"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Converter returns the mass converter used by the detector
func (d *Detector) Converter() *Converter {
	return d.converter
}

// Tolerance returns the ppm tolerance
func (d *Detector) Tolerance() int {
	return d.tolerance
}

// Detect returns the adduct of the ion at referenceMZ.
//
// For every ordered pair of distinct adducts (a1, a2) of the ionization's
// table, in table order, and every ordered pair of distinct peaks (p1, p2),
// in ascending m/z, the neutral masses of p1 as a1 and p2 as a2 are compared.
// When they agree within tolerance and p1 matches the reference m/z, a1 is
// returned; otherwise when p2 matches, a2 is returned. The first match wins.
//
// ok is false for an unknown ionization or when no pair is consistent.
func (d *Detector) Detect(referenceMZ float64, ion core.Ionization, peaks []core.Peak) (name string, ok bool) {
	table, ok := d.converter.tables.ForIonization(ion)
	if !ok {
		d.logger.Debug("no adduct table for ionization", "ionization", ion)
		return "", false
	}

	trace := d.logger.Enabled(context.Background(), slog.LevelDebug)
	peaks = core.NewPeakSet(peaks)
	names := table.Names()

	if trace {
		d.logger.Debug("detecting adduct",
			"ionization", ion, "reference_mz", referenceMZ, "peaks", len(peaks), "adducts", len(names))
	}

	for _, a1 := range names {
		for _, a2 := range names {
			if a1 == a2 {
				continue
			}
			for _, p1 := range peaks {
				for _, p2 := range peaks {
					if p1.Equal(p2) {
						continue
					}

					mass1, ok1 := d.converter.NeutralMassFromMZ(p1.MZ, a1)
					mass2, ok2 := d.converter.NeutralMassFromMZ(p2.MZ, a2)
					if !ok1 || !ok2 {
						continue
					}
					if PPMIncrement(mass1, mass2) > d.tolerance {
						continue
					}

					if trace {
						d.logger.Debug("neutral masses agree",
							"adduct1", a1, "mz1", p1.MZ, "mass1", mass1,
							"adduct2", a2, "mz2", p2.MZ, "mass2", mass2)
					}

					if PPMIncrement(p1.MZ, referenceMZ) <= d.tolerance {
						d.logger.Debug("adduct assigned", "adduct", a1, "mz", p1.MZ)
						return a1, true
					}
					if PPMIncrement(p2.MZ, referenceMZ) <= d.tolerance {
						d.logger.Debug("adduct assigned", "adduct", a2, "mz", p2.MZ)
						return a2, true
					}
				}
			}
		}
	}

	d.logger.Debug("no adduct found", "reference_mz", referenceMZ)
	return "", false
}
