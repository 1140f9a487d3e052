package adduct

import "github.com/ChrisMcGann/LipidKey/pkg/core"

// DefaultPositiveTable returns the positive ionization adducts.
//
// Monomers come before multimers and [M+2H]2+ before [2M+H]+: the two readings
// of a 2:1 m/z ratio are ambiguous and detection resolves them by table order.
func DefaultPositiveTable() *Table {
	t := NewTable()

	t.Add("[M+H]+", -core.ProtonMass)
	t.Add("[M+2H]2+", -2*core.ProtonMass)
	t.Add("[M+Na]+", -core.MassNaIon)
	t.Add("[M+K]+", -core.MassKIon)
	t.Add("[M+NH4]+", -core.MassNH4Ion)
	t.Add("[M+H-H2O]+", core.MassH2O-core.ProtonMass)
	t.Add("[M+Li]+", -core.MassLiIon)
	t.Add("[M+2Na-H]+", -2*core.MassNaIon+core.ProtonMass)
	t.Add("[M+H+NH4]2+", -core.ProtonMass-core.MassNH4Ion)
	t.Add("[M+3H]3+", -3*core.ProtonMass)
	t.Add("[2M+H]+", -core.ProtonMass)
	t.Add("[2M+Na]+", -core.MassNaIon)
	t.Add("[2M+NH4]+", -core.MassNH4Ion)
	t.Add("[3M+H]+", -core.ProtonMass)

	return t
}

// DefaultNegativeTable returns the negative ionization adducts.
//
// [2M-H]- precedes [M-2H]2- for the same reason multimers trail monomers in
// the positive table.
func DefaultNegativeTable() *Table {
	t := NewTable()

	t.Add("[M-H]-", core.ProtonMass)
	t.Add("[M-H-H2O]-", core.ProtonMass+core.MassH2O)
	t.Add("[M+Cl]-", -core.MassClIon)
	t.Add("[M+HCOOH-H]-", -core.MassFormateIon)
	t.Add("[M+CH3COOH-H]-", -core.MassAcetateIon)
	t.Add("[M+Na-2H]-", -core.MassNaIon+2*core.ProtonMass)
	t.Add("[M+K-2H]-", -core.MassKIon+2*core.ProtonMass)
	t.Add("[2M-H]-", core.ProtonMass)
	t.Add("[2M+HCOOH-H]-", -core.MassFormateIon)
	t.Add("[2M+Cl]-", -core.MassClIon)
	t.Add("[M-2H]2-", 2*core.ProtonMass)
	t.Add("[M-3H]3-", 3*core.ProtonMass)
	t.Add("[3M-H]-", core.ProtonMass)

	return t
}

// DefaultTables returns freshly built default positive and negative tables.
func DefaultTables() Tables {
	return Tables{
		Positive: DefaultPositiveTable(),
		Negative: DefaultNegativeTable(),
	}
}
