package core

import (
	"errors"
	"math"
	"testing"
)

func TestParseLipidName(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantClass   LipidType
		wantCarbons int
		wantDB      int
		wantOK      bool
	}{
		{"phosphatidylcholine", "PC 34:1", LipidPC, 34, 1, true},
		{"triglyceride", "TG 54:3", LipidTG, 54, 3, true},
		{"lower case class", "fa 18:1", LipidFA, 18, 1, true},
		{"no shorthand", "Cholesterol", "", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			class, carbons, db, ok := ParseLipidName(tt.input)
			if ok != tt.wantOK || class != tt.wantClass || carbons != tt.wantCarbons || db != tt.wantDB {
				t.Errorf("ParseLipidName(%q) = %s, %d, %d, %v; want %s, %d, %d, %v",
					tt.input, class, carbons, db, ok, tt.wantClass, tt.wantCarbons, tt.wantDB, tt.wantOK)
			}
		})
	}
}

func TestParseFormula(t *testing.T) {
	tests := []struct {
		name    string
		formula string
		want    Composition
		wantErr bool
	}{
		{"PC", "C42H82NO8P", Composition{C: 42, H: 82, N: 1, O: 8, P: 1}, false},
		{"FA", "C18H34O2", Composition{C: 18, H: 34, O: 2}, false},
		{"empty", "", Composition{}, true},
		{"unsupported element", "C2H5Br", Composition{}, true},
		{"garbage", "c42h82", Composition{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormula(tt.formula)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormula() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseFormula() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestLipidMonoisotopicMass(t *testing.T) {
	lipid := Lipid{ID: 1, Name: "PC 34:1", Formula: "C42H82NO8P", Type: LipidPC, CarbonCount: 34, DoubleBonds: 1}
	mass, err := lipid.MonoisotopicMass()
	if err != nil {
		t.Fatalf("MonoisotopicMass() error = %v", err)
	}
	if math.Abs(mass-759.5778) > 0.0001 {
		t.Errorf("MonoisotopicMass() = %.4f, want 759.5778", mass)
	}

	if _, err := (Lipid{Name: "unknown"}).MonoisotopicMass(); err == nil {
		t.Error("expected error for lipid without formula")
	}
}

func TestParseIonization(t *testing.T) {
	tests := []struct {
		input   string
		want    Ionization
		wantErr bool
	}{
		{"Positive", Positive, false},
		{"POS", Positive, false},
		{"+", Positive, false},
		{"negative", Negative, false},
		{" neg ", Negative, false},
		{"-", Negative, false},
		{"neutral", IonizationUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseIonization(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseIonization() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrUnknownIonization) {
				t.Errorf("expected ErrUnknownIonization, got %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseIonization() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIonizationString(t *testing.T) {
	if Positive.String() != "POSITIVE" || Negative.String() != "NEGATIVE" || IonizationUnknown.String() != "UNKNOWN" {
		t.Error("unexpected ionization names")
	}
	if Positive.Polarity() != "+" || Negative.Polarity() != "-" {
		t.Error("unexpected polarity signs")
	}
}
