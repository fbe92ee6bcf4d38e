package pdb

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func atomLine(serial int, atom, res string, chain byte, num int,
	x, y, z float64) string {

	return fmt.Sprintf(
		"ATOM  %5d %-4s %3s %c%4d    %8.3f%8.3f%8.3f  1.00  0.00",
		serial, atom, res, chain, num, x, y, z)
}

func hetatmLine(serial int, res string, chain byte, num int) string {
	line := atomLine(serial, "O", res, chain, num, 0, 0, 0)
	return "HETATM" + line[6:]
}

func writeStructure(t *testing.T, name string, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	content := strings.Join(lines, "\n") + "\n"
	if err := os.WriteFile(path, []byte(content), 0666); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadPdb(t *testing.T) {
	path := writeStructure(t, "complex.pdb",
		atomLine(1, "N", "ALA", 'A', 1, 0.1, 0.2, 0.3),
		atomLine(2, "CA", "ALA", 'A', 1, 1.0, 2.0, 3.0),
		atomLine(3, "CA", "GLY", 'A', 2, 4.0, 5.0, 6.0),
		// Residue 3 has no carbon-alpha at all.
		atomLine(4, "CB", "SER", 'A', 3, 7.0, 8.0, 9.0),
		atomLine(5, "CA", "TRP", 'B', 10, -1.0, -2.0, -3.0),
		hetatmLine(6, "HOH", 'B', 101),
	)

	entry, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(entry.Chains) != 2 {
		t.Fatalf("Expected 2 chains, got %d.", len(entry.Chains))
	}

	chainA := entry.Chain('A')
	if chainA == nil {
		t.Fatal("Chain A not found.")
	}
	if len(chainA.Residues) != 3 {
		t.Fatalf("Expected 3 residues in chain A, got %d.",
			len(chainA.Residues))
	}
	if got := chainA.Sequence(); got != "AGS" {
		t.Fatalf("Expected chain A sequence 'AGS', got '%s'.", got)
	}

	r1 := chainA.Residue(1)
	if r1 == nil || r1.Ca == nil {
		t.Fatal("Residue A/1 should have a carbon-alpha.")
	}
	if r1.Ca.X != 1.0 || r1.Ca.Y != 2.0 || r1.Ca.Z != 3.0 {
		t.Fatalf("Residue A/1 has wrong coordinates: %v.", *r1.Ca)
	}
	if r3 := chainA.Residue(3); r3 == nil || r3.Ca != nil {
		t.Fatal("Residue A/3 should exist without a carbon-alpha.")
	}

	chainB := entry.Chain('B')
	if chainB == nil {
		t.Fatal("Chain B not found.")
	}
	if len(chainB.Residues) != 1 {
		t.Fatalf("HETATM records must be skipped; chain B has %d residues.",
			len(chainB.Residues))
	}
	if chainB.Residues[0].SequenceNum != 10 {
		t.Fatalf("Expected residue 10 in chain B, got %d.",
			chainB.Residues[0].SequenceNum)
	}
}

func TestReadPdbFirstModelOnly(t *testing.T) {
	path := writeStructure(t, "models.pdb",
		"MODEL        1",
		atomLine(1, "CA", "ALA", 'A', 1, 1.0, 1.0, 1.0),
		"ENDMDL",
		"MODEL        2",
		atomLine(2, "CA", "ALA", 'A', 1, 9.0, 9.0, 9.0),
		atomLine(3, "CA", "GLY", 'A', 2, 9.0, 9.0, 9.0),
		"ENDMDL",
	)

	entry, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	chainA := entry.Chain('A')
	if chainA == nil || len(chainA.Residues) != 1 {
		t.Fatalf("Only the first model should be read: %s", entry)
	}
	if chainA.Residues[0].Ca.X != 1.0 {
		t.Fatalf("Got coordinates from the wrong model: %v.",
			*chainA.Residues[0].Ca)
	}
}

func TestReadCif(t *testing.T) {
	row := func(serial int, atom, res string, chain byte, num int,
		x, y, z float64) string {

		return fmt.Sprintf(
			"ATOM %d C %s . %s %c 1 %d ? %.3f %.3f %.3f 1.00 0.00 %d %s %c %s 1",
			serial, atom, res, chain, num, x, y, z, num, res, chain, atom)
	}
	path := writeStructure(t, "design.cif",
		"data_design",
		"#",
		"loop_",
		"_atom_site.group_PDB",
		"_atom_site.id",
		"_atom_site.type_symbol",
		"_atom_site.label_atom_id",
		"_atom_site.label_alt_id",
		"_atom_site.label_comp_id",
		"_atom_site.label_asym_id",
		"_atom_site.label_entity_id",
		"_atom_site.label_seq_id",
		"_atom_site.pdbx_PDB_ins_code",
		"_atom_site.Cartn_x",
		"_atom_site.Cartn_y",
		"_atom_site.Cartn_z",
		"_atom_site.occupancy",
		"_atom_site.B_iso_or_equiv",
		"_atom_site.auth_seq_id",
		"_atom_site.auth_comp_id",
		"_atom_site.auth_asym_id",
		"_atom_site.auth_atom_id",
		"_atom_site.pdbx_PDB_model_num",
		row(1, "N", "MET", 'A', 1, 0.1, 0.2, 0.3),
		row(2, "CA", "MET", 'A', 1, 1.5, 2.5, 3.5),
		row(3, "CA", "LYS", 'A', 2, 4.5, 5.5, 6.5),
		row(4, "CA", "GLU", 'B', 1, 7.5, 8.5, 9.5),
		"HETATM 5 O HOH . HOH B 2 3 ? 0 0 0 1.00 0.00 3 HOH B O 1",
		"#",
	)

	entry, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(entry.Chains) != 2 {
		t.Fatalf("Expected 2 chains, got %d:\n%s", len(entry.Chains), entry)
	}

	chainA := entry.Chain('A')
	if chainA == nil || len(chainA.Residues) != 2 {
		t.Fatalf("Expected 2 residues in chain A:\n%s", entry)
	}
	if got := chainA.Sequence(); got != "MK" {
		t.Fatalf("Expected chain A sequence 'MK', got '%s'.", got)
	}
	ca := chainA.Residue(1).Ca
	if ca == nil || ca.X != 1.5 || ca.Y != 2.5 || ca.Z != 3.5 {
		t.Fatalf("Residue A/1 has wrong carbon-alpha: %v.", ca)
	}

	chainB := entry.Chain('B')
	if chainB == nil || len(chainB.Residues) != 1 {
		t.Fatalf("HETATM rows must be skipped:\n%s", entry)
	}
}

func TestReadCifNoAtoms(t *testing.T) {
	path := writeStructure(t, "empty.cif",
		"data_empty",
		"#",
		"_entry.id empty",
	)
	if _, err := New(path); err == nil {
		t.Fatal("Expected an error for a cif file without atoms.")
	}
}

func TestSequenceUnknownResidue(t *testing.T) {
	path := writeStructure(t, "odd.pdb",
		atomLine(1, "CA", "ALA", 'A', 1, 0, 0, 0),
		atomLine(2, "CA", "UNK", 'A', 2, 1, 1, 1),
	)
	entry, err := New(path)
	if err != nil {
		t.Fatal(err)
	}
	if got := entry.Chain('A').Sequence(); got != "AX" {
		t.Fatalf("Expected sequence 'AX', got '%s'.", got)
	}
}
