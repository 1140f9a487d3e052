package adduct

import "math"

// DefaultPPMTolerance is the mass agreement tolerance used by adduct detection.
const DefaultPPMTolerance = 10

// PPMIncrement returns the ppm difference between a measured and a
// theoretical mass, rounded to the nearest integer.
//
// A zero theoretical mass, a non-finite input or a difference too large for
// an int yields math.MaxInt, so such pairs never agree within a tolerance.
func PPMIncrement(experimental, theoretical float64) int {
	if theoretical == 0 {
		return math.MaxInt
	}
	ppm := math.Round(math.Abs((experimental - theoretical) * 1000000 / theoretical))
	if math.IsNaN(ppm) || ppm >= float64(math.MaxInt) {
		return math.MaxInt
	}
	return int(ppm)
}

// DeltaForPPM returns the mass window for a ppm tolerance around mass.
// The result is rounded to a whole mass unit.
func DeltaForPPM(mass float64, ppm int) float64 {
	return math.Round(math.Abs(mass * float64(ppm) / 1000000))
}

// WithinPPM reports whether experimental agrees with theoretical within ppm.
func WithinPPM(experimental, theoretical float64, ppm int) bool {
	return PPMIncrement(experimental, theoretical) <= ppm
}
