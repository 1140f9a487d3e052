// Package core provides chemistry constants and the shared peak, lipid and ionization types
package core

import "math"

// Atomic masses (monoisotopic)
const (
	MassH  = 1.00782503207
	MassLi = 7.01600455
	MassC  = 12.0000000000
	MassN  = 14.0030740048
	MassO  = 15.99491461956
	MassNa = 22.9897692809
	MassP  = 30.97376163
	MassS  = 31.97207100
	MassCl = 34.96885268
	MassK  = 38.96370668

	// Proton and electron masses for charge calculations
	ProtonMass   = 1.00727646688
	ElectronMass = 0.00054857990946
)

// Neutral molecule masses used by loss and cluster adducts
const (
	MassH2O     = 2*MassH + MassO
	MassNH3     = MassN + 3*MassH
	MassHCOOH   = MassC + 2*MassH + 2*MassO
	MassCH3COOH = 2*MassC + 4*MassH + 2*MassO
)

// Ion masses (atom mass corrected for the electron gained or lost)
const (
	MassNaIon      = MassNa - ElectronMass
	MassKIon       = MassK - ElectronMass
	MassLiIon      = MassLi - ElectronMass
	MassNH4Ion     = MassNH3 + ProtonMass
	MassClIon      = MassCl + ElectronMass
	MassFormateIon = MassHCOOH - ProtonMass
	MassAcetateIon = MassCH3COOH - ProtonMass
)

// Composition stores elemental composition of a molecular formula
type Composition struct {
	C, H, N, O, P, S int
}

// Mass returns the monoisotopic mass of the composition.
func (c Composition) Mass() float64 {
	return float64(c.C)*MassC +
		float64(c.H)*MassH +
		float64(c.N)*MassN +
		float64(c.O)*MassO +
		float64(c.P)*MassP +
		float64(c.S)*MassS
}

// RoundFloat rounds a float to n decimal places
func RoundFloat(val float64, precision int) float64 {
	ratio := math.Pow(10, float64(precision))
	return math.Round(val*ratio) / ratio
}
