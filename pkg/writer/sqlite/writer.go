// Package sqlite provides SQLite database writing for lipid annotations
package sqlite

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/ChrisMcGann/LipidKey/pkg/annotation"
	"github.com/ChrisMcGann/LipidKey/pkg/core"
)

const (
	// Date format for HeaderTable (ISO 8601)
	headerDateFormat = "2006-01-02"
	// Schema version written to HeaderTable
	schemaVersion = 1
)

// Writer handles writing annotations to SQLite database files
type Writer struct {
	db             *sql.DB
	tx             *sql.Tx
	outputPath     string
	runID          string
	ppmTolerance   int
	annotationStmt *sql.Stmt
	peakStmt       *sql.Stmt
	annotationID   int
	finalized      bool
}

// NewWriter creates a new SQLite writer. ppmTolerance is recorded in the
// header so the database documents how adducts were assigned.
func NewWriter(outputPath string, ppmTolerance int) (*Writer, error) {
	db, err := sql.Open("sqlite3", outputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	w := &Writer{
		db:           db,
		outputPath:   outputPath,
		runID:        uuid.New().String(),
		ppmTolerance: ppmTolerance,
		annotationID: 1,
	}

	if err := w.createTables(); err != nil {
		db.Close()
		return nil, err
	}

	if err := w.prepareStatements(); err != nil {
		db.Close()
		return nil, err
	}

	return w, nil
}

// RunID returns the identifier recorded for this conversion run
func (w *Writer) RunID() string {
	return w.runID
}

// createTables creates the required database schema
func (w *Writer) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS AnnotationTable (
		AnnotationId INTEGER PRIMARY KEY,
		RunId TEXT,
		LipidId INTEGER,
		Name TEXT,
		Formula TEXT,
		LipidClass TEXT,
		CarbonCount INTEGER,
		DoubleBonds INTEGER,
		PrecursorMz DOUBLE,
		NeutralMass DOUBLE,
		TheoreticalMass DOUBLE,
		MassErrorPpm INTEGER,
		RetentionTime DOUBLE,
		Intensity DOUBLE,
		Polarity TEXT,
		IonizationMode TEXT,
		PrecursorIonType TEXT,
		Score INTEGER,
		ScoreApplications INTEGER,
		NormalizedScore DOUBLE
	);

	CREATE TABLE IF NOT EXISTS PeakTable (
		AnnotationId INTEGER REFERENCES AnnotationTable(AnnotationId),
		Mz DOUBLE,
		Intensity DOUBLE
	);

	CREATE TABLE IF NOT EXISTS HeaderTable (
		version INTEGER NOT NULL DEFAULT 0,
		RunId TEXT,
		CreationDate TEXT,
		PpmTolerance INTEGER,
		NoofAnnotations INTEGER,
		Description TEXT
	);
	`

	_, err := w.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create tables: %w", err)
	}

	return nil
}

// prepareStatements opens the write transaction and prepares SQL statements
// for batch insertion
func (w *Writer) prepareStatements() error {
	var err error

	w.tx, err = w.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	w.annotationStmt, err = w.tx.Prepare(`
		INSERT INTO AnnotationTable (
			AnnotationId, RunId, LipidId, Name, Formula, LipidClass,
			CarbonCount, DoubleBonds, PrecursorMz, NeutralMass, TheoreticalMass,
			MassErrorPpm, RetentionTime, Intensity, Polarity, IonizationMode,
			PrecursorIonType, Score, ScoreApplications, NormalizedScore
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		w.tx.Rollback()
		return fmt.Errorf("failed to prepare annotation statement: %w", err)
	}

	w.peakStmt, err = w.tx.Prepare(`
		INSERT INTO PeakTable (AnnotationId, Mz, Intensity) VALUES (?, ?, ?)
	`)
	if err != nil {
		w.tx.Rollback()
		return fmt.Errorf("failed to prepare peak statement: %w", err)
	}

	return nil
}

// WriteAnnotation writes a single annotation and its peak group to the database
func (w *Writer) WriteAnnotation(a *annotation.Annotation) error {
	if w.finalized {
		return fmt.Errorf("writer for %s is already finalized", w.outputPath)
	}

	lipid := a.Lipid()

	// Optional columns are NULL when there is no adduct or formula
	var adductName, neutralMass, theoreticalMass, massError, normalized interface{}
	if name, ok := a.Adduct(); ok {
		adductName = name
	}
	if mass, ok := a.NeutralMass(); ok {
		neutralMass = mass
		if theoretical, err := lipid.MonoisotopicMass(); err == nil && theoretical > 0 {
			theoreticalMass = theoretical
			massError = adductPPM(mass, theoretical)
		}
	}
	if a.ScoreApplications() > 0 {
		normalized = a.NormalizedScore()
	}

	_, err := w.annotationStmt.Exec(
		w.annotationID,            // AnnotationId
		w.runID,                   // RunId
		lipid.ID,                  // LipidId
		lipid.Name,                // Name
		lipid.Formula,             // Formula
		string(lipid.Type),        // LipidClass
		lipid.CarbonCount,         // CarbonCount
		lipid.DoubleBonds,         // DoubleBonds
		a.MZ(),                    // PrecursorMz
		neutralMass,               // NeutralMass
		theoreticalMass,           // TheoreticalMass
		massError,                 // MassErrorPpm
		a.RTMin(),                 // RetentionTime
		a.Intensity(),             // Intensity
		a.Ionization().Polarity(), // Polarity
		"ESI",                     // IonizationMode
		adductName,                // PrecursorIonType
		a.Score(),                 // Score
		a.ScoreApplications(),     // ScoreApplications
		normalized,                // NormalizedScore
	)
	if err != nil {
		return fmt.Errorf("failed to insert annotation: %w", err)
	}

	for _, peak := range a.GroupedPeaks() {
		if _, err := w.peakStmt.Exec(w.annotationID, peak.MZ, peak.Intensity); err != nil {
			return fmt.Errorf("failed to insert peak %.4f: %w", peak.MZ, err)
		}
	}

	w.annotationID++
	return nil
}

// adductPPM is the rounded ppm error of the detected neutral mass against the
// formula mass.
func adductPPM(measured, theoretical float64) int {
	return int(core.RoundFloat((measured-theoretical)*1000000/theoretical, 0))
}

// Finalize writes the header table, commits and closes the database
func (w *Writer) Finalize() error {
	if w.finalized {
		return nil
	}
	w.finalized = true

	// Write HeaderTable
	_, err := w.tx.Exec(`
		INSERT INTO HeaderTable (version, RunId, CreationDate, PpmTolerance, NoofAnnotations, Description)
		VALUES (?, ?, ?, ?, ?, ?)
	`, schemaVersion, w.runID, time.Now().Format(headerDateFormat), w.ppmTolerance, w.annotationID-1, "LipidKey adduct annotations")
	if err != nil {
		w.tx.Rollback()
		w.db.Close()
		return fmt.Errorf("failed to insert header: %w", err)
	}

	// Close prepared statements
	if w.annotationStmt != nil {
		w.annotationStmt.Close()
	}
	if w.peakStmt != nil {
		w.peakStmt.Close()
	}

	if err := w.tx.Commit(); err != nil {
		w.db.Close()
		return fmt.Errorf("failed to commit: %w", err)
	}

	// Close database
	if err := w.db.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}

// Close closes the database connection (alias for Finalize)
func (w *Writer) Close() error {
	return w.Finalize()
}
