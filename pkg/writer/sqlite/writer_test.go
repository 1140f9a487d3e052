package sqlite

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChrisMcGann/LipidKey/pkg/annotation"
	"github.com/ChrisMcGann/LipidKey/pkg/core"
)

func TestWriterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.db")

	w, err := NewWriter(path, 10)
	require.NoError(t, err)
	require.NotEmpty(t, w.RunID())

	pc := core.Lipid{ID: 1, Name: "PC 34:1", Formula: "C42H82NO8P", Type: core.LipidPC, CarbonCount: 34, DoubleBonds: 1}
	detected := annotation.New(pc, 760.5851, 100000, 6.5, []core.Peak{
		{MZ: 760.5851, Intensity: 100000},
		{MZ: 782.5670, Intensity: 40000},
	}, core.Positive)
	name, ok := detected.Adduct()
	require.True(t, ok)
	require.Equal(t, "[M+H]+", name)
	detected.AddScore(4)

	undetected := annotation.New(core.Lipid{ID: 2, Name: "unknown"}, 500.1, 1000, 2.0, []core.Peak{{MZ: 500.1, Intensity: 1000}}, core.Positive)

	require.NoError(t, w.WriteAnnotation(detected))
	require.NoError(t, w.WriteAnnotation(undetected))
	require.NoError(t, w.Finalize())
	require.NoError(t, w.Close(), "second close is a no-op")
	assert.Error(t, w.WriteAnnotation(detected))

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer db.Close()

	var (
		ionType     sql.NullString
		neutralMass sql.NullFloat64
		ppmError    sql.NullInt64
		normalized  sql.NullFloat64
		score       int
	)
	err = db.QueryRow(`SELECT PrecursorIonType, NeutralMass, MassErrorPpm, Score, NormalizedScore
		FROM AnnotationTable WHERE AnnotationId = 1`).Scan(&ionType, &neutralMass, &ppmError, &score, &normalized)
	require.NoError(t, err)
	assert.Equal(t, "[M+H]+", ionType.String)
	assert.InDelta(t, 759.5778, neutralMass.Float64, 0.001)
	require.True(t, ppmError.Valid)
	assert.LessOrEqual(t, ppmError.Int64, int64(2))
	assert.Equal(t, 4, score)
	assert.InDelta(t, 4.0, normalized.Float64, 1e-9)

	err = db.QueryRow(`SELECT PrecursorIonType, NeutralMass, NormalizedScore
		FROM AnnotationTable WHERE AnnotationId = 2`).Scan(&ionType, &neutralMass, &normalized)
	require.NoError(t, err)
	assert.False(t, ionType.Valid)
	assert.False(t, neutralMass.Valid)
	assert.False(t, normalized.Valid)

	var peaks int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM PeakTable WHERE AnnotationId = 1`).Scan(&peaks))
	assert.Equal(t, 2, peaks)

	var (
		runID string
		ppm   int
		count int
	)
	require.NoError(t, db.QueryRow(`SELECT RunId, PpmTolerance, NoofAnnotations FROM HeaderTable`).Scan(&runID, &ppm, &count))
	assert.Equal(t, w.RunID(), runID)
	assert.Equal(t, 10, ppm)
	assert.Equal(t, 2, count)
}

func TestAdductPPM(t *testing.T) {
	assert.Equal(t, 0, adductPPM(700, 700))
	assert.Equal(t, 10, adductPPM(700.007, 700))
	assert.Equal(t, -10, adductPPM(699.993, 700))
}
