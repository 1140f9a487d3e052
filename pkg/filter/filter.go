// Package filter provides peak group filtering applied before adduct detection
package filter

import (
	"fmt"
	"slices"

	"github.com/ChrisMcGann/LipidKey/pkg/core"
)

// Config holds filtering configuration
type Config struct {
	TopN            int     // Keep only top N most intense peaks (0 = no limit)
	IntensityCutoff float64 // Keep only peaks above this % of base peak (0 = no cutoff)
	MinIntensity    float64 // Keep only peaks at or above this absolute intensity (0 = no minimum)
}

// Validate checks that the configuration values are in range
func (c *Config) Validate() error {
	if c.TopN < 0 {
		return fmt.Errorf("top-n must be non-negative, got %d", c.TopN)
	}
	if c.IntensityCutoff < 0 || c.IntensityCutoff > 100 {
		return fmt.Errorf("intensity cutoff must be between 0 and 100, got %.2f", c.IntensityCutoff)
	}
	if c.MinIntensity < 0 {
		return fmt.Errorf("minimum intensity must be non-negative, got %.2f", c.MinIntensity)
	}
	return nil
}

// Apply applies all configured filters to a peak group and returns the kept
// peaks sorted by m/z. The input slice is not modified.
func (c *Config) Apply(peaks []core.Peak) []core.Peak {
	filtered := RemoveZeroIntensityPeaks(peaks)

	if c.MinIntensity > 0 {
		filtered = c.filterByMinIntensity(filtered)
	}

	// Apply intensity filters
	if c.IntensityCutoff > 0 {
		filtered = c.filterByIntensity(filtered)
	}

	// Apply top-N filter
	if c.TopN > 0 {
		filtered = c.filterTopN(filtered)
	}

	// Ensure peaks are sorted after all filtering
	core.SortPeaks(filtered)

	return filtered
}

// filterByMinIntensity removes peaks below the absolute minimum intensity
func (c *Config) filterByMinIntensity(peaks []core.Peak) []core.Peak {
	var filtered []core.Peak
	for _, peak := range peaks {
		if peak.Intensity >= c.MinIntensity {
			filtered = append(filtered, peak)
		}
	}
	return filtered
}

// filterByIntensity removes peaks below the intensity cutoff percentage
func (c *Config) filterByIntensity(peaks []core.Peak) []core.Peak {
	base, ok := core.BasePeak(peaks)
	if !ok {
		return peaks
	}

	// Calculate threshold
	threshold := (c.IntensityCutoff / 100.0) * base.Intensity

	var filtered []core.Peak
	for _, peak := range peaks {
		if peak.Intensity >= threshold {
			filtered = append(filtered, peak)
		}
	}
	return filtered
}

// filterTopN keeps only the N most intense peaks
func (c *Config) filterTopN(peaks []core.Peak) []core.Peak {
	if len(peaks) <= c.TopN {
		return peaks
	}

	// Sort a copy by intensity descending, m/z ascending on ties
	sorted := slices.Clone(peaks)
	slices.SortStableFunc(sorted, func(a, b core.Peak) int {
		if a.Intensity != b.Intensity {
			if a.Intensity > b.Intensity {
				return -1
			}
			return 1
		}
		return a.Compare(b)
	})

	return sorted[:c.TopN]
}

// RemoveZeroIntensityPeaks returns the peaks with positive intensity
func RemoveZeroIntensityPeaks(peaks []core.Peak) []core.Peak {
	filtered := make([]core.Peak, 0, len(peaks))
	for _, peak := range peaks {
		if peak.Intensity > 0 {
			filtered = append(filtered, peak)
		}
	}
	return filtered
}
