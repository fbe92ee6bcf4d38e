package npz

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

var npyMagic = []byte("\x93NUMPY")

// readNpy reads a single '.npy' stream: the magic, the version, the
// header dict, then the raw little-endian element data.
func readNpy(r io.Reader) (*Array, error) {
	pre := make([]byte, 8)
	if _, err := io.ReadFull(r, pre); err != nil {
		return nil, err
	}
	if string(pre[0:6]) != string(npyMagic) {
		return nil, fmt.Errorf("not an npy stream")
	}

	// Version 1 stores the header length as 2 bytes, later versions as 4.
	var headerLen int
	switch major := pre[6]; major {
	case 1:
		var n uint16
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return nil, err
		}
		headerLen = int(n)
	case 2, 3:
		var n uint32
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return nil, err
		}
		headerLen = int(n)
	default:
		return nil, fmt.Errorf("unsupported npy version %d", major)
	}

	headerBytes := make([]byte, headerLen)
	if _, err := io.ReadFull(r, headerBytes); err != nil {
		return nil, err
	}
	descr, fortran, shape, err := parseNpyHeader(string(headerBytes))
	if err != nil {
		return nil, err
	}
	if fortran && len(shape) > 1 {
		return nil, fmt.Errorf("fortran order arrays are not supported")
	}

	a := &Array{Shape: shape}
	n := a.Size()
	switch descr {
	case "<f8", "|f8":
		raw := make([]byte, 8*n)
		if _, err := io.ReadFull(r, raw); err != nil {
			return nil, err
		}
		a.Data = make([]float64, n)
		for i := 0; i < n; i++ {
			bits := binary.LittleEndian.Uint64(raw[8*i:])
			a.Data[i] = math.Float64frombits(bits)
		}
	case "<f4", "|f4":
		raw := make([]byte, 4*n)
		if _, err := io.ReadFull(r, raw); err != nil {
			return nil, err
		}
		a.Data = make([]float64, n)
		for i := 0; i < n; i++ {
			bits := binary.LittleEndian.Uint32(raw[4*i:])
			a.Data[i] = float64(math.Float32frombits(bits))
		}
	default:
		return nil, fmt.Errorf("unsupported npy dtype '%s'", descr)
	}
	return a, nil
}

// parseNpyHeader pulls descr, fortran_order and shape out of the header,
// which is a Python dict literal along the lines of
//
//	{'descr': '<f8', 'fortran_order': False, 'shape': (3, 4), }
func parseNpyHeader(header string) (descr string, fortran bool, shape []int, err error) {
	descr, err = quotedValue(header, "descr")
	if err != nil {
		return
	}

	i := strings.Index(header, "'fortran_order':")
	if i == -1 {
		err = fmt.Errorf("npy header missing fortran_order: %q", header)
		return
	}
	fortran = strings.HasPrefix(
		strings.TrimLeft(header[i+len("'fortran_order':"):], " "), "True")

	i = strings.Index(header, "'shape':")
	if i == -1 {
		err = fmt.Errorf("npy header missing shape: %q", header)
		return
	}
	open := strings.Index(header[i:], "(")
	clos := strings.Index(header[i:], ")")
	if open == -1 || clos == -1 || clos < open {
		err = fmt.Errorf("npy header has malformed shape: %q", header)
		return
	}
	shape = []int{}
	for _, part := range strings.Split(header[i+open+1:i+clos], ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		var d int
		if d, err = strconv.Atoi(part); err != nil {
			err = fmt.Errorf("npy header has malformed shape: %q", header)
			return
		}
		shape = append(shape, d)
	}
	return
}

// quotedValue finds "'key': 'value'" in the header and returns value.
func quotedValue(header, key string) (string, error) {
	i := strings.Index(header, "'"+key+"':")
	if i == -1 {
		return "", fmt.Errorf("npy header missing %s: %q", key, header)
	}
	rest := strings.TrimLeft(header[i+len(key)+3:], " ")
	if len(rest) == 0 || (rest[0] != '\'' && rest[0] != '"') {
		return "", fmt.Errorf("npy header has malformed %s: %q", key, header)
	}
	quote := rest[0]
	j := strings.IndexByte(rest[1:], quote)
	if j == -1 {
		return "", fmt.Errorf("npy header has malformed %s: %q", key, header)
	}
	return rest[1 : 1+j], nil
}

// writeNpy writes a single version 1.0 '.npy' stream with float64
// elements.
func writeNpy(w io.Writer, a *Array) error {
	dims := make([]string, len(a.Shape))
	for i, d := range a.Shape {
		dims[i] = strconv.Itoa(d)
	}
	shape := strings.Join(dims, ", ")
	if len(a.Shape) == 1 {
		shape += ","
	}
	header := fmt.Sprintf(
		"{'descr': '<f8', 'fortran_order': False, 'shape': (%s), }", shape)

	// The full preamble (magic, version, length and header) is padded
	// with spaces to a multiple of 64 bytes and terminated by a newline.
	pad := 64 - (len(npyMagic)+4+len(header)+1)%64
	if pad == 64 {
		pad = 0
	}
	header += strings.Repeat(" ", pad) + "\n"

	if _, err := w.Write(npyMagic); err != nil {
		return err
	}
	if _, err := w.Write([]byte{1, 0}); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(len(header))); err != nil {
		return err
	}
	if _, err := io.WriteString(w, header); err != nil {
		return err
	}

	raw := make([]byte, 8*len(a.Data))
	for i, v := range a.Data {
		binary.LittleEndian.PutUint64(raw[8*i:], math.Float64bits(v))
	}
	_, err := w.Write(raw)
	return err
}
