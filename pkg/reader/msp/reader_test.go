package msp

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/LipidKey/pkg/core"
)

const twoFeatures = `NAME: PC 34:1
FORMULA: C42H82NO8P
PRECURSORMZ: 700.49999
INTENSITY: 80000
RETENTIONTIME: 6.5
IONMODE: Positive
Num Peaks: 2
700.500	100000
722.482	80000

# second entry
NAME: FA 18:1
ID: 7
FORMULA: C18H34O2
COMPOUNDCLASS: fa
PRECURSORMZ: 699.4927
RETENTIONTIME: 10.0
IONMODE: Negative
Num Peaks: 3
349.2427 80000
699.4927 70000 "annotation ignored"
331.2321 60000
`

func TestReaderReadsFeatures(t *testing.T) {
	r := NewReader(strings.NewReader(twoFeatures))

	require.True(t, r.Next())
	f := r.Feature()
	assert.Equal(t, core.Lipid{ID: 1, Name: "PC 34:1", Formula: "C42H82NO8P", Type: core.LipidPC, CarbonCount: 34, DoubleBonds: 1}, f.Lipid)
	assert.Equal(t, 700.49999, f.PrecursorMZ)
	assert.Equal(t, 80000.0, f.Intensity)
	assert.Equal(t, 6.5, f.RetentionTime)
	assert.Equal(t, core.Positive, f.Ionization)
	assert.Equal(t, []core.Peak{{MZ: 700.5, Intensity: 100000}, {MZ: 722.482, Intensity: 80000}}, f.Peaks)
	assert.NoError(t, f.Validate())

	require.True(t, r.Next())
	f = r.Feature()
	assert.Equal(t, 7, f.Lipid.ID)
	assert.Equal(t, core.LipidFA, f.Lipid.Type)
	assert.Equal(t, 18, f.Lipid.CarbonCount)
	assert.Equal(t, core.Negative, f.Ionization)
	assert.Equal(t, 80000.0, f.Intensity, "intensity defaults to the base peak")
	assert.Len(t, f.Peaks, 3)

	assert.False(t, r.Next())
	assert.NoError(t, r.Err())
	assert.Nil(t, r.Feature())
}

func TestReaderReadAll(t *testing.T) {
	features, err := NewReader(strings.NewReader(twoFeatures)).ReadAll()
	require.NoError(t, err)
	require.Len(t, features, 2)
	assert.Equal(t, "FA 18:1", features[1].Lipid.Name)
}

func TestReaderAssignsIDsAfterExplicitOnes(t *testing.T) {
	input := `NAME: A
ID: 10
PRECURSORMZ: 100
IONMODE: +
Num Peaks: 0

NAME: B
PRECURSORMZ: 200
IONMODE: -
Num Peaks: 0
`
	features, err := NewReader(strings.NewReader(input)).ReadAll()
	require.NoError(t, err)
	require.Len(t, features, 2)
	assert.Equal(t, 10, features[0].Lipid.ID)
	assert.Equal(t, 11, features[1].Lipid.ID)
}

func TestReaderEmptyInput(t *testing.T) {
	r := NewReader(strings.NewReader("\n\n"))
	assert.False(t, r.Next())
	assert.NoError(t, r.Err())
}

func TestReaderErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bad precursor", "NAME: A\nPRECURSORMZ: abc\nNum Peaks: 0\n"},
		{"bad ion mode", "NAME: A\nIONMODE: neutral\nNum Peaks: 0\n"},
		{"bad peak", "NAME: A\nNum Peaks: 1\n700.5\n"},
		{"truncated peaks", "NAME: A\nNum Peaks: 2\n700.5 1\n"},
		{"missing num peaks", "NAME: A\nPRECURSORMZ: 700.5\n"},
		{"blank line inside header", "NAME: A\n\nNum Peaks: 0\n"},
		{"not a field", "NAME: A\ngarbage\n"},
		{"negative num peaks", "NAME: A\nNum Peaks: -1\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewReader(strings.NewReader(tt.input))
			assert.False(t, r.Next())
			assert.Error(t, r.Err())
		})
	}
}

func TestFeatureValidate(t *testing.T) {
	f := &Feature{}
	err := f.Validate()
	require.Error(t, err)

	var verr *core.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Message, "name is required")
	assert.Contains(t, verr.Message, "ion mode is required")
}
