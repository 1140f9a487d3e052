package core

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
)

// Peak represents a single m/z, intensity pair.
//
// Identity and ordering are keyed only on MZ: two peaks with the same m/z and
// different intensities are the same peak.
type Peak struct {
	MZ        float64
	Intensity float64
}

// Equal reports whether two peaks share the same m/z.
func (p Peak) Equal(other Peak) bool {
	return p.MZ == other.MZ
}

// Compare orders peaks by m/z.
func (p Peak) Compare(other Peak) int {
	return cmp.Compare(p.MZ, other.MZ)
}

func (p Peak) String() string {
	return fmt.Sprintf("Peak(mz=%.4f, intensity=%.2f)", p.MZ, p.Intensity)
}

// NewPeakSet returns the peaks deduplicated by m/z and sorted ascending.
// When several peaks share an m/z the first one in input order is kept.
// Peaks with a NaN or infinite m/z are dropped.
func NewPeakSet(peaks []Peak) []Peak {
	set := make([]Peak, 0, len(peaks))
	seen := make(map[float64]struct{}, len(peaks))
	for _, peak := range peaks {
		if math.IsNaN(peak.MZ) || math.IsInf(peak.MZ, 0) {
			continue
		}
		if _, ok := seen[peak.MZ]; ok {
			continue
		}
		seen[peak.MZ] = struct{}{}
		set = append(set, peak)
	}
	slices.SortStableFunc(set, Peak.Compare)
	return set
}

// SortPeaks sorts peaks by m/z in ascending order.
func SortPeaks(peaks []Peak) {
	slices.SortStableFunc(peaks, Peak.Compare)
}

// BasePeak returns the most intense peak.
func BasePeak(peaks []Peak) (Peak, bool) {
	if len(peaks) == 0 {
		return Peak{}, false
	}
	base := peaks[0]
	for _, peak := range peaks[1:] {
		if peak.Intensity > base.Intensity {
			base = peak
		}
	}
	return base, true
}

// ValidationError represents an error found during input validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error in %s: %s", e.Field, e.Message)
}

// ValidatePeaks checks that every peak has a finite positive m/z and a
// finite non-negative intensity.
func ValidatePeaks(peaks []Peak) error {
	var errs []string

	for i, peak := range peaks {
		if math.IsNaN(peak.MZ) || math.IsInf(peak.MZ, 0) {
			errs = append(errs, fmt.Sprintf("peak %d has invalid m/z", i))
		} else if peak.MZ <= 0 {
			errs = append(errs, fmt.Sprintf("peak %d m/z must be positive", i))
		}
		if math.IsNaN(peak.Intensity) || math.IsInf(peak.Intensity, 0) {
			errs = append(errs, fmt.Sprintf("peak %d has invalid intensity", i))
		} else if peak.Intensity < 0 {
			errs = append(errs, fmt.Sprintf("peak %d intensity must be non-negative", i))
		}
	}

	if len(errs) > 0 {
		return &ValidationError{
			Field:   "Peaks",
			Message: strings.Join(errs, "; "),
		}
	}

	return nil
}
