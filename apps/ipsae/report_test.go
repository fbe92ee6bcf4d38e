package ipsae

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/simongaraude/binder-design-pipeline/npz"
)

const sampleReport = `
# Chn1 Chn2 PAE Dist Type ipSAE ipSAE_d0chn ipSAE_d0dom ipTM_af ipTM_d0chn pDockQ pDockQ2 LIS
A B 08 08 asym 0.412 0.388 0.395 0.41 0.40 0.151 0.22 0.31
B A 08 08 asym 0.365 0.344 0.350 0.36 0.35 0.149 0.21 0.30
A B 08 08 max 0.534 0.501 0.512 0.53 0.52 0.712 0.25 0.33
`

func TestParseReport(t *testing.T) {
	scores, ok := ParseReport(strings.NewReader(sampleReport))
	if !ok {
		t.Fatal("Expected scores from a well-formed report.")
	}
	if scores.IpSAE != 0.534 {
		t.Fatalf("Expected ipSAE 0.534, got %f.", scores.IpSAE)
	}
	if scores.PDockQ != 0.712 {
		t.Fatalf("Expected pDockQ 0.712, got %f.", scores.PDockQ)
	}
}

func TestParseReportNoMaxLine(t *testing.T) {
	report := `
# header
A B 08 08 asym 0.412 0.388 0.395 0.41 0.40 0.151 0.22 0.31
`
	if _, ok := ParseReport(strings.NewReader(report)); ok {
		t.Fatal("A report without a max line must yield no score.")
	}
}

func TestParseReportShortLineSkipped(t *testing.T) {
	// A "max" line with fewer than 11 fields is skipped; the first
	// qualifying max line decides.
	report := `
A B max 0.534
A B 08 08 max 0.9 0.8 0.7 0.6 0.5 0.4 0.3 0.2
`
	scores, ok := ParseReport(strings.NewReader(report))
	if !ok {
		t.Fatal("Expected scores from the later qualifying max line.")
	}
	if scores.IpSAE != 0.9 || scores.PDockQ != 0.4 {
		t.Fatalf("Wrong scores from the qualifying line: %+v.", scores)
	}
}

func TestParseReportOnlyShortLines(t *testing.T) {
	report := "A B max 0.534\nB A max 0.365\n"
	if _, ok := ParseReport(strings.NewReader(report)); ok {
		t.Fatal("A report with only short max lines must yield no score.")
	}
}

func TestParseReportCommentsSkipped(t *testing.T) {
	report := `
# max 1 2 3 4 5 6 7 8 9 10 11 12
A B 08 08 max 0.1 0.2 0.3 0.4 0.5 0.6 0.7 0.8
`
	scores, ok := ParseReport(strings.NewReader(report))
	if !ok || scores.IpSAE != 0.1 || scores.PDockQ != 0.6 {
		t.Fatalf("Comment lines must be skipped: %+v (ok=%v).", scores, ok)
	}
}

func TestParseReportNonNumeric(t *testing.T) {
	report := "A B 08 08 max n/a 0.2 0.3 0.4 0.5 0.6 0.7 0.8\n"
	if _, ok := ParseReport(strings.NewReader(report)); ok {
		t.Fatal("A non-numeric score field must yield no score.")
	}
}

func TestCombine(t *testing.T) {
	dir := t.TempDir()
	paeFile := filepath.Join(dir, "pae_design_42_model_0.npz")
	plddtFile := filepath.Join(dir, "plddt_design_42_model_0.npz")

	pae := &npz.Array{Shape: []int{2, 2}, Data: []float64{1, 2, 3, 4}}
	plddt := &npz.Array{Shape: []int{2}, Data: []float64{80, 90}}
	if err := npz.Write(paeFile, map[string]*npz.Array{"pae": pae}); err != nil {
		t.Fatal(err)
	}
	if err := npz.Write(plddtFile, map[string]*npz.Array{"plddt": plddt}); err != nil {
		t.Fatal(err)
	}

	combined, err := Combine(paeFile, plddtFile)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(combined) != "combined_design_42_model_0.npz" {
		t.Fatalf("Wrong combined archive name: %s.", combined)
	}

	arch, err := npz.Read(combined)
	if err != nil {
		t.Fatal(err)
	}
	if got := arch["pae"]; got == nil || got.At(1, 1) != 4 {
		t.Fatalf("Combined archive has wrong pae member: %+v.", got)
	}
	if got := arch["plddt"]; got == nil || got.Data[1] != 90 {
		t.Fatalf("Combined archive has wrong plddt member: %+v.", got)
	}
}
