// Package msp provides streaming readers for MSP format lipid feature lists
package msp

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ChrisMcGann/LipidKey/pkg/core"
)

// Feature is one MSP entry: a candidate lipid with its reference signal and
// the co-eluting peak group.
type Feature struct {
	Lipid         core.Lipid
	PrecursorMZ   float64
	Intensity     float64
	RetentionTime float64 // minutes
	Ionization    core.Ionization
	Peaks         []core.Peak
}

// Validate checks that a feature has what annotation needs.
func (f *Feature) Validate() error {
	var errs []string

	if f.Lipid.Name == "" {
		errs = append(errs, "name is required")
	}
	if f.PrecursorMZ <= 0 {
		errs = append(errs, "precursor m/z must be positive")
	}
	if f.Ionization == core.IonizationUnknown {
		errs = append(errs, "ion mode is required")
	}
	if err := core.ValidatePeaks(f.Peaks); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return &core.ValidationError{
			Field:   "Feature",
			Message: strings.Join(errs, "; "),
		}
	}
	return nil
}

// Reader provides streaming access to MSP format files
type Reader struct {
	scanner        *bufio.Scanner
	lineNum        int
	nextID         int
	currentFeature *Feature
	err            error
}

// NewReader creates a new MSP reader
func NewReader(r io.Reader) *Reader {
	return &Reader{
		scanner: bufio.NewScanner(r),
		nextID:  1,
	}
}

// Next advances to the next feature. Returns false when no more features or error.
func (r *Reader) Next() bool {
	r.currentFeature = nil

	feature, err := r.readFeature()
	if err != nil {
		if err != io.EOF {
			r.err = err
		}
		return false
	}

	r.currentFeature = feature
	return true
}

// Feature returns the current feature
func (r *Reader) Feature() *Feature {
	return r.currentFeature
}

// Err returns any error encountered during reading
func (r *Reader) Err() error {
	return r.err
}

// ReadAll reads every remaining feature
func (r *Reader) ReadAll() ([]*Feature, error) {
	var features []*Feature
	for r.Next() {
		features = append(features, r.Feature())
	}
	return features, r.Err()
}

// readFeature reads a single entry from the MSP file
func (r *Reader) readFeature() (*Feature, error) {
	feature := &Feature{
		Peaks: []core.Peak{},
	}

	var numPeaks int
	inPeaks := false
	peaksRead := 0
	started := false

	for r.scanner.Scan() {
		r.lineNum++
		line := strings.TrimSpace(r.scanner.Text())

		// Skip empty lines between entries
		if line == "" {
			if started && !inPeaks {
				return nil, fmt.Errorf("line %d: entry '%s' ended before Num Peaks", r.lineNum, feature.Lipid.Name)
			}
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}

		if !inPeaks {
			key, value, ok := strings.Cut(line, ":")
			if !ok {
				return nil, fmt.Errorf("line %d: expected 'KEY: value', got '%s'", r.lineNum, line)
			}
			started = true
			if err := r.parseField(feature, strings.ToUpper(strings.TrimSpace(key)), strings.TrimSpace(value)); err != nil {
				return nil, fmt.Errorf("line %d: %w", r.lineNum, err)
			}
			if strings.EqualFold(strings.TrimSpace(key), "Num Peaks") {
				numPeaks, _ = strconv.Atoi(strings.TrimSpace(value))
				inPeaks = true
				if numPeaks == 0 {
					return r.finish(feature), nil
				}
			}
			continue
		}

		// Parse peak line
		peak, err := parsePeak(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", r.lineNum, err)
		}
		feature.Peaks = append(feature.Peaks, peak)
		peaksRead++

		// Check if we've read all peaks
		if peaksRead >= numPeaks {
			return r.finish(feature), nil
		}
	}

	if err := r.scanner.Err(); err != nil {
		return nil, err
	}

	if started {
		if !inPeaks {
			return nil, fmt.Errorf("line %d: entry '%s' ended before Num Peaks", r.lineNum, feature.Lipid.Name)
		}
		return nil, fmt.Errorf("line %d: entry '%s' has %d of %d peaks", r.lineNum, feature.Lipid.Name, peaksRead, numPeaks)
	}

	return nil, io.EOF
}

// finish fills defaults that depend on the whole entry
func (r *Reader) finish(feature *Feature) *Feature {
	if feature.Lipid.ID == 0 {
		feature.Lipid.ID = r.nextID
	}
	if feature.Lipid.ID >= r.nextID {
		r.nextID = feature.Lipid.ID + 1
	}

	class, carbons, doubleBonds, ok := core.ParseLipidName(feature.Lipid.Name)
	if ok {
		if feature.Lipid.Type == "" {
			feature.Lipid.Type = class
		}
		if feature.Lipid.CarbonCount == 0 {
			feature.Lipid.CarbonCount = carbons
		}
		if feature.Lipid.DoubleBonds == 0 {
			feature.Lipid.DoubleBonds = doubleBonds
		}
	}

	// Default the reference intensity to the base peak
	if feature.Intensity == 0 {
		if base, ok := core.BasePeak(feature.Peaks); ok {
			feature.Intensity = base.Intensity
		}
	}

	return feature
}

// parseField stores a single header field. Unknown keys are ignored.
func (r *Reader) parseField(feature *Feature, key, value string) error {
	switch key {
	case "NAME":
		feature.Lipid.Name = value

	case "ID", "SCANNUMBER":
		id, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid id '%s': %w", value, err)
		}
		feature.Lipid.ID = id

	case "FORMULA":
		feature.Lipid.Formula = value

	case "COMPOUNDCLASS", "CLASS":
		feature.Lipid.Type = core.LipidType(strings.ToUpper(value))

	case "PRECURSORMZ":
		mz, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid precursor m/z '%s': %w", value, err)
		}
		feature.PrecursorMZ = mz

	case "INTENSITY":
		intensity, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid intensity '%s': %w", value, err)
		}
		feature.Intensity = intensity

	case "RETENTIONTIME", "RT":
		rt, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid retention time '%s': %w", value, err)
		}
		feature.RetentionTime = rt

	case "IONMODE":
		ion, err := core.ParseIonization(value)
		if err != nil {
			return err
		}
		feature.Ionization = ion

	case "CARBONS":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid carbon count '%s': %w", value, err)
		}
		feature.Lipid.CarbonCount = n

	case "DOUBLEBONDS":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid double bond count '%s': %w", value, err)
		}
		feature.Lipid.DoubleBonds = n

	case "NUM PEAKS":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid num peaks: %w", err)
		}
		if n < 0 {
			return fmt.Errorf("invalid num peaks: %d", n)
		}
	}

	return nil
}

// parsePeak parses a single peak line (format: "mz\tintensity")
func parsePeak(line string) (core.Peak, error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return core.Peak{}, fmt.Errorf("invalid peak format, expected at least 2 fields")
	}

	mz, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return core.Peak{}, fmt.Errorf("invalid m/z value: %w", err)
	}

	intensity, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return core.Peak{}, fmt.Errorf("invalid intensity value: %w", err)
	}

	return core.Peak{
		MZ:        mz,
		Intensity: intensity,
	}, nil
}
