// Package annotation provides the lipid annotation aggregate: a reference
// signal, its group of co-eluting peaks, the detected adduct and a running
// score fed by an external rule engine.
package annotation

import (
	"fmt"
	"sync"

	"github.com/ChrisMcGann/LipidKey/pkg/adduct"
	"github.com/ChrisMcGann/LipidKey/pkg/core"
)

// ScoreAccumulator is the contract consumed by scoring rules.
type ScoreAccumulator interface {
	AddScore(delta int)
	NormalizedScore() float64
}

var (
	defaultDetectorOnce sync.Once
	defaultDetector     *adduct.Detector
)

// DefaultDetector returns the shared detector over the default adduct tables.
// The tables are read-only after construction and safe to share.
func DefaultDetector() *adduct.Detector {
	defaultDetectorOnce.Do(func() {
		defaultDetector = adduct.NewDetector(adduct.DefaultTables())
	})
	return defaultDetector
}

// Annotation is a lipid annotation over a signal.
//
// An Annotation has a single writer: AddScore and the setters are not
// synchronized.
type Annotation struct {
	lipid        core.Lipid
	mz           float64
	intensity    float64
	rtMin        float64
	ionization   core.Ionization
	groupedPeaks []core.Peak

	adduct    string
	hasAdduct bool

	score             int
	scoreApplications int

	detector *adduct.Detector
}

// Option configures an Annotation at construction
type Option func(*Annotation)

// WithDetector sets the detector used at construction and by DetectAdductFromPeaks
func WithDetector(d *adduct.Detector) Option {
	return func(a *Annotation) {
		if d != nil {
			a.detector = d
		}
	}
}

// New creates an annotation. The peaks are deduplicated by m/z, sorted
// ascending and the adduct is detected immediately.
func New(lipid core.Lipid, mz, intensity, rtMin float64, peaks []core.Peak, ionization core.Ionization, opts ...Option) *Annotation {
	a := &Annotation{
		lipid:        lipid,
		mz:           mz,
		intensity:    intensity,
		rtMin:        rtMin,
		ionization:   ionization,
		groupedPeaks: core.NewPeakSet(peaks),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.detector == nil {
		a.detector = DefaultDetector()
	}

	a.DetectAdductFromPeaks()
	return a
}

// DetectAdductFromPeaks runs adduct detection over the grouped peaks and
// stores the result, clearing any previous adduct when nothing matches.
func (a *Annotation) DetectAdductFromPeaks() {
	a.adduct, a.hasAdduct = a.detector.Detect(a.mz, a.ionization, a.groupedPeaks)
}

func (a *Annotation) Lipid() core.Lipid {
	return a.lipid
}

// MZ returns the reference m/z
func (a *Annotation) MZ() float64 {
	return a.mz
}

func (a *Annotation) Intensity() float64 {
	return a.intensity
}

// RTMin returns the retention time in minutes
func (a *Annotation) RTMin() float64 {
	return a.rtMin
}

func (a *Annotation) Ionization() core.Ionization {
	return a.ionization
}

// SetIonization changes the ionization mode. The adduct is not recomputed
// until DetectAdductFromPeaks is called.
func (a *Annotation) SetIonization(ionization core.Ionization) {
	a.ionization = ionization
}

// Adduct returns the detected or assigned adduct, if any
func (a *Annotation) Adduct() (string, bool) {
	return a.adduct, a.hasAdduct
}

func (a *Annotation) SetAdduct(name string) {
	a.adduct = name
	a.hasAdduct = true
}

func (a *Annotation) ClearAdduct() {
	a.adduct = ""
	a.hasAdduct = false
}

// GroupedPeaks returns a copy of the peak group in ascending m/z
func (a *Annotation) GroupedPeaks() []core.Peak {
	peaks := make([]core.Peak, len(a.groupedPeaks))
	copy(peaks, a.groupedPeaks)
	return peaks
}

// NeutralMass returns the neutral mass implied by the reference m/z and the
// adduct. ok is false when there is no adduct.
func (a *Annotation) NeutralMass() (float64, bool) {
	if !a.hasAdduct {
		return 0, false
	}
	return a.detector.Converter().NeutralMassFromMZ(a.mz, a.adduct)
}

func (a *Annotation) Score() int {
	return a.score
}

// SetScore overwrites the running score without touching the application count
func (a *Annotation) SetScore(score int) {
	a.score = score
}

// ScoreApplications returns how many times AddScore has been called
func (a *Annotation) ScoreApplications() int {
	return a.scoreApplications
}

// AddScore adds delta to the running score and counts the application.
func (a *Annotation) AddScore(delta int) {
	a.score += delta
	a.scoreApplications++
}

// NormalizedScore returns the average delta per AddScore call.
//
// Callers must check ScoreApplications() > 0 first; with no applications the
// result is NaN (or ±Inf after SetScore).
func (a *Annotation) NormalizedScore() float64 {
	return float64(a.score) / float64(a.scoreApplications)
}

// Equal reports whether two annotations share lipid, reference m/z and
// retention time.
func (a *Annotation) Equal(other *Annotation) bool {
	if a == other {
		return true
	}
	if a == nil || other == nil {
		return false
	}
	return a.mz == other.mz && a.rtMin == other.rtMin && a.lipid == other.lipid
}

func (a *Annotation) String() string {
	adductName := "null"
	if a.hasAdduct {
		adductName = a.adduct
	}
	return fmt.Sprintf("Annotation(%s, mz=%.4f, RT=%.2f, adduct=%s, intensity=%.1f, score=%d)",
		a.lipid.Name, a.mz, a.rtMin, adductName, a.intensity, a.score)
}
