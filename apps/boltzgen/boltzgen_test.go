package boltzgen

import (
	"os"
	"path/filepath"
	"testing"

	"gopkg.in/yaml.v3"
)

func testJob(outDir string) Job {
	return Job{
		Target:    "/data/targets/1abc.pdb",
		Chain:     'A',
		Hotspots:  []int{10, 15, 20},
		BinderMin: 60,
		BinderMax: 120,
		Designs:   750,
		Budget:    375,
		OutDir:    outDir,
	}
}

func TestWriteConfig(t *testing.T) {
	job := testJob("/out/boltzgen_output")
	path := filepath.Join(t.TempDir(), "boltzgen_config.yaml")
	if err := job.WriteConfig(path); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var doc configDoc
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		t.Fatal(err)
	}

	if doc.Designs != 750 || doc.Budget != 375 {
		t.Fatalf("Wrong campaign sizes: %+v.", doc)
	}
	if doc.Output != "/out/boltzgen_output" {
		t.Fatalf("Wrong output directory: %s.", doc.Output)
	}
	if len(doc.Entities) != 2 {
		t.Fatalf("Expected 2 entities, got %d.", len(doc.Entities))
	}

	target := doc.Entities[0]
	if target.File != "/data/targets/1abc.pdb" {
		t.Fatalf("Wrong target file: %s.", target.File)
	}
	if len(target.Include) != 1 || target.Include[0].Chain != "A" {
		t.Fatalf("Wrong included chain: %+v.", target.Include)
	}
	if got := target.Include[0].Binding; len(got) != 3 || got[1] != 15 {
		t.Fatalf("Wrong binding residues: %v.", got)
	}

	binder := doc.Entities[1]
	if binder.Protein == nil || binder.Protein.Id != "B" {
		t.Fatalf("Wrong binder entity: %+v.", binder)
	}
	if binder.Protein.Sequence != "60..120" {
		t.Fatalf("Wrong binder length range: %s.", binder.Protein.Sequence)
	}
}

func TestOutputLayout(t *testing.T) {
	job := testJob(filepath.Join("/out", "boltzgen_output"))

	want := filepath.Join("/out", "boltzgen_output", "output",
		"intermediate_designs_inverse_folded")
	if got := job.DesignsDir(); got != want {
		t.Fatalf("Wrong designs dir: %s.", got)
	}
	if got := job.ScoresDir(); got != filepath.Join(want, "fold_out_npz") {
		t.Fatalf("Wrong scores dir: %s.", got)
	}
	if got := job.StructureFile("design_7"); got != filepath.Join(want, "design_7.cif") {
		t.Fatalf("Wrong structure file: %s.", got)
	}
}

func TestRemoveIntermediates(t *testing.T) {
	outDir := t.TempDir()
	job := testJob(outDir)

	keep := filepath.Join(outDir, "output", "intermediate_designs_inverse_folded")
	drop1 := filepath.Join(outDir, "output", "intermediate_designs")
	drop2 := filepath.Join(outDir, "output", "intermediate_designs_folded")
	for _, dir := range []string{keep, drop1, drop2} {
		if err := os.MkdirAll(dir, 0777); err != nil {
			t.Fatal(err)
		}
	}

	job.RemoveIntermediates()

	if _, err := os.Stat(keep); err != nil {
		t.Fatalf("The inverse-folded designs must be kept: %s.", err)
	}
	for _, dir := range []string{drop1, drop2} {
		if _, err := os.Stat(dir); !os.IsNotExist(err) {
			t.Fatalf("Intermediate dir %s must be removed.", dir)
		}
	}
}
