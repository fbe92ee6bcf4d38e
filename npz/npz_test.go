package npz

import (
	"bytes"
	"encoding/binary"
	"math"
	"path/filepath"
	"testing"
)

func scalar(v float64) *Array {
	return &Array{Shape: []int{}, Data: []float64{v}}
}

func TestArchiveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.npz")
	pae := &Array{
		Shape: []int{2, 3},
		Data:  []float64{1, 2, 3, 4, 5, 6},
	}
	err := Write(path, map[string]*Array{
		"pae":  pae,
		"iptm": scalar(0.83),
	})
	if err != nil {
		t.Fatal(err)
	}

	arch, err := Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(arch) != 2 {
		t.Fatalf("Expected 2 members, got %d.", len(arch))
	}
	if v, ok := arch.Scalar("iptm"); !ok || v != 0.83 {
		t.Fatalf("Expected iptm = 0.83, got %v (ok=%v).", v, ok)
	}
	got := arch["pae"]
	if got == nil || got.Rows() != 2 || got.Cols() != 3 {
		t.Fatalf("Expected a 2x3 matrix, got %+v.", got)
	}
	if got.At(1, 2) != 6 {
		t.Fatalf("Expected element (1,2) = 6, got %f.", got.At(1, 2))
	}
}

func TestScalarMissing(t *testing.T) {
	arch := Archive{"pae": {Shape: []int{2, 2}, Data: []float64{1, 2, 3, 4}}}
	if _, ok := arch.Scalar("iptm"); ok {
		t.Fatal("A missing member must not read as a scalar.")
	}
	if _, ok := arch.Scalar("pae"); ok {
		t.Fatal("A matrix must not read as a scalar.")
	}
}

func TestReadFloat32Npy(t *testing.T) {
	// Build a float32 stream by hand; the prediction tool writes its
	// confidence tracks as <f4.
	header := "{'descr': '<f4', 'fortran_order': False, 'shape': (3,), }"
	for (6+2+2+len(header)+1)%64 != 0 {
		header += " "
	}
	header += "\n"

	buf := new(bytes.Buffer)
	buf.Write(npyMagic)
	buf.Write([]byte{1, 0})
	binary.Write(buf, binary.LittleEndian, uint16(len(header)))
	buf.WriteString(header)
	for _, v := range []float32{0.5, 0.25, 0.75} {
		binary.Write(buf, binary.LittleEndian, math.Float32bits(v))
	}

	a, err := readNpy(buf)
	if err != nil {
		t.Fatal(err)
	}
	if len(a.Shape) != 1 || a.Shape[0] != 3 {
		t.Fatalf("Expected shape (3,), got %v.", a.Shape)
	}
	if a.Data[0] != 0.5 || a.Data[1] != 0.25 || a.Data[2] != 0.75 {
		t.Fatalf("Wrong element data: %v.", a.Data)
	}
}

func TestReadRejectsOtherDtypes(t *testing.T) {
	header := "{'descr': '<i8', 'fortran_order': False, 'shape': (1,), }\n"
	buf := new(bytes.Buffer)
	buf.Write(npyMagic)
	buf.Write([]byte{1, 0})
	binary.Write(buf, binary.LittleEndian, uint16(len(header)))
	buf.WriteString(header)
	buf.Write(make([]byte, 8))

	if _, err := readNpy(buf); err == nil {
		t.Fatal("Expected an error for an integer dtype.")
	}
}

func TestMeans(t *testing.T) {
	a := &Array{
		Shape: []int{2, 4},
		Data:  []float64{1, 2, 3, 4, 5, 6, 7, 8},
	}
	if got := a.Mean(); got != 4.5 {
		t.Fatalf("Expected mean 4.5, got %f.", got)
	}
	// Rows [0,1), columns [2,4): elements 3 and 4.
	if got := a.BlockMean(0, 1, 2, 4); got != 3.5 {
		t.Fatalf("Expected block mean 3.5, got %f.", got)
	}
	if got := a.BlockMean(0, 1, 4, 4); got != 0 {
		t.Fatalf("An empty block must have mean 0, got %f.", got)
	}
	if got := a.BlockMean(0, 3, 0, 2); got != 0 {
		t.Fatalf("An out-of-range block must have mean 0, got %f.", got)
	}
}
