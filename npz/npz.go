// Package npz reads and writes NumPy array files. Prediction tools in
// this pipeline exchange their score matrices as '.npz' archives (a ZIP
// container of '.npy' members), so only the small corner of the format
// they actually produce is supported: little-endian float32/float64
// arrays of at most two dimensions, in C order.
package npz

import (
	"archive/zip"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Array is an n-dimensional array read from a '.npy' member. Data is
// always float64 internally, in row-major order. A scalar has an empty
// shape and exactly one element.
type Array struct {
	Shape []int
	Data  []float64
}

// Size returns the total number of elements.
func (a *Array) Size() int {
	n := 1
	for _, d := range a.Shape {
		n *= d
	}
	return n
}

// Rows returns the first dimension, or 1 for arrays of lower rank.
func (a *Array) Rows() int {
	if len(a.Shape) < 1 {
		return 1
	}
	return a.Shape[0]
}

// Cols returns the second dimension, or 1 for arrays of lower rank.
func (a *Array) Cols() int {
	if len(a.Shape) < 2 {
		return 1
	}
	return a.Shape[1]
}

// At returns the element at row i, column j of a 2-dimensional array.
func (a *Array) At(i, j int) float64 {
	return a.Data[i*a.Cols()+j]
}

// Mean returns the mean over all elements, or 0 for an empty array.
func (a *Array) Mean() float64 {
	if len(a.Data) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range a.Data {
		sum += v
	}
	return sum / float64(len(a.Data))
}

// BlockMean returns the mean over the sub-matrix with rows in [r0, r1)
// and columns in [c0, c1). An empty or out-of-range block has mean 0.
func (a *Array) BlockMean(r0, r1, c0, c1 int) float64 {
	if r0 < 0 || c0 < 0 || r1 > a.Rows() || c1 > a.Cols() {
		return 0
	}
	sum, n := 0.0, 0
	for i := r0; i < r1; i++ {
		for j := c0; j < c1; j++ {
			sum += a.At(i, j)
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Archive maps member names (without the '.npy' suffix) to their arrays.
type Archive map[string]*Array

// Scalar returns the single element of the named member. The second
// return value is false when the member is absent or not a one-element
// array; callers treat that as a zero score.
func (arch Archive) Scalar(name string) (float64, bool) {
	a, ok := arch[name]
	if !ok || a.Size() != 1 || len(a.Data) != 1 {
		return 0, false
	}
	return a.Data[0], true
}

// Read reads every member of an '.npz' archive.
func Read(path string) (Archive, error) {
	z, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer z.Close()

	arch := make(Archive, len(z.File))
	for _, member := range z.File {
		r, err := member.Open()
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %s", path, member.Name, err)
		}
		a, err := readNpy(r)
		r.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %s", path, member.Name, err)
		}
		arch[strings.TrimSuffix(member.Name, ".npy")] = a
	}
	return arch, nil
}

// Write writes the given arrays as a compressed '.npz' archive. Members
// are written in sorted name order and always as float64.
func Write(path string, arrays map[string]*Array) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(arrays))
	for name := range arrays {
		names = append(names, name)
	}
	sort.Strings(names)

	z := zip.NewWriter(f)
	for _, name := range names {
		w, err := z.Create(name + ".npy")
		if err != nil {
			f.Close()
			return err
		}
		if err := writeNpy(w, arrays[name]); err != nil {
			f.Close()
			return fmt.Errorf("%s: %s: %s", path, name, err)
		}
	}
	if err := z.Close(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
