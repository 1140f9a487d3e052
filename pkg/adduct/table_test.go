package adduct

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/LipidKey/pkg/core"
)

func TestTablePreservesInsertionOrder(t *testing.T) {
	table := NewTable()
	table.Add("[M+Na]+", -22.989221)
	table.Add("[M+H]+", -1.007276)
	table.Add("[2M+H]+", -1.007276)
	table.Add("[M+Na]+", -22.99)

	want := []string{"[M+Na]+", "[M+H]+", "[2M+H]+"}
	if diff := cmp.Diff(want, table.Names()); diff != "" {
		t.Errorf("Names() mismatch (-want +got):\n%s", diff)
	}

	shift, ok := table.Get("[M+Na]+")
	require.True(t, ok)
	assert.Equal(t, -22.99, shift, "update keeps position and replaces value")
	assert.Equal(t, 3, table.Len())
}

func TestTableNamesIsACopy(t *testing.T) {
	table := DefaultPositiveTable()
	names := table.Names()
	names[0] = "mutated"
	assert.Equal(t, "[M+H]+", table.Names()[0])
}

func TestNilTable(t *testing.T) {
	var table *Table
	_, ok := table.Get("[M+H]+")
	assert.False(t, ok)
	assert.Zero(t, table.Len())
	assert.Nil(t, table.Names())
}

func TestDefaultTableOrder(t *testing.T) {
	pos := DefaultPositiveTable().Names()
	neg := DefaultNegativeTable().Names()

	assert.Equal(t, []string{"[M+H]+", "[M+2H]2+", "[M+Na]+"}, pos[:3])
	assert.Less(t, indexOf(pos, "[M+2H]2+"), indexOf(pos, "[2M+H]+"))
	assert.Equal(t, []string{"[M-H]-", "[M-H-H2O]-", "[M+Cl]-"}, neg[:3])
	assert.Less(t, indexOf(neg, "[2M-H]-"), indexOf(neg, "[M-2H]2-"))
}

func TestDefaultTableShifts(t *testing.T) {
	tables := DefaultTables()
	tests := []struct {
		adduct string
		want   float64
	}{
		{"[M+H]+", -1.007276},
		{"[M+2H]2+", -2.014553},
		{"[M+Na]+", -22.989221},
		{"[M+H-H2O]+", 17.003288},
		{"[M-H]-", 1.007276},
		{"[M-H-H2O]-", 19.017841},
		{"[M+Cl]-", -34.969401},
		{"[M+HCOOH-H]-", -44.998203},
		{"[2M-H]-", 1.007276},
	}

	for _, tt := range tests {
		t.Run(tt.adduct, func(t *testing.T) {
			got, ok := tables.Lookup(tt.adduct)
			require.True(t, ok)
			assert.InDelta(t, tt.want, got, 0.000001)
		})
	}
}

func TestTablesForIonization(t *testing.T) {
	tables := DefaultTables()

	pos, ok := tables.ForIonization(core.Positive)
	require.True(t, ok)
	assert.Same(t, tables.Positive, pos)

	neg, ok := tables.ForIonization(core.Negative)
	require.True(t, ok)
	assert.Same(t, tables.Negative, neg)

	_, ok = tables.ForIonization(core.IonizationUnknown)
	assert.False(t, ok)

	_, ok = Tables{}.ForIonization(core.Positive)
	assert.False(t, ok)
}

func TestLoadFromCSV(t *testing.T) {
	csv := `adduct,massshift
[M+H]+,-1.007276
# comment
[M+Na]+, -22.989221

[M+H]+,-1.0073
`
	table := NewTable()
	require.NoError(t, table.LoadFromCSV(strings.NewReader(csv)))

	assert.Equal(t, []string{"[M+H]+", "[M+Na]+"}, table.Names())
	shift, _ := table.Get("[M+H]+")
	assert.Equal(t, -1.0073, shift)
}

func TestLoadFromCSVErrors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{"missing field", "adduct,massshift\n[M+H]+\n"},
		{"bad mass", "adduct,massshift\n[M+H]+,abc\n"},
		{"empty name", "adduct,massshift\n,1.0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewTable().LoadFromCSV(strings.NewReader(tt.csv))
			assert.Error(t, err)
		})
	}
}

func TestLoadFromYAML(t *testing.T) {
	doc := `adducts:
  - name: "[M+H]+"
    mass_shift: -1.007276
  - name: "[M+NH4]+"
    mass_shift: -18.033826
`
	table := NewTable()
	require.NoError(t, table.LoadFromYAML(strings.NewReader(doc)))

	want := []Entry{
		{Name: "[M+H]+", MassShift: -1.007276},
		{Name: "[M+NH4]+", MassShift: -18.033826},
	}
	if diff := cmp.Diff(want, table.Entries()); diff != "" {
		t.Errorf("Entries() mismatch (-want +got):\n%s", diff)
	}

	assert.Error(t, NewTable().LoadFromYAML(strings.NewReader("adducts:\n  - mass_shift: 1\n")))
	assert.Error(t, NewTable().LoadFromYAML(strings.NewReader("adducts: [")))
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}
