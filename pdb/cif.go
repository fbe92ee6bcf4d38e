package pdb

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// cifColumns maps the _atom_site column names we care about to their
// positions in the loop. The auth_* names are preferred; the label_*
// names are the fallback, since files from prediction tools often carry
// only one of the two.
type cifColumns struct {
	groupPDB int
	asymId   int
	seqId    int
	compId   int
	atomId   int
	altId    int
	cartnX   int
	cartnY   int
	cartnZ   int
	modelNum int
}

// readCif reads the _atom_site loop of an mmCIF file. As with the PDB
// reader, only polymer ATOM rows from the first model are kept, and only
// the carbon-alpha coordinate of each residue is stored.
func (e *Entry) readCif(reader io.Reader) error {
	breader := bufio.NewReaderSize(reader, 1<<16)

	var cols cifColumns
	var headers []string
	inHeader, inRows := false, false
	firstModel := ""

	for {
		rawLine, err := breader.ReadString('\n')
		if err != nil && err != io.EOF {
			return err
		}
		line := strings.TrimSpace(rawLine)

		switch {
		case inHeader && strings.HasPrefix(line, "_atom_site."):
			headers = append(headers, strings.TrimPrefix(line, "_atom_site."))
		case inHeader && len(headers) > 0:
			// First non-header line ends the header block. If it's a data
			// row, fall through to row processing below.
			var cerr error
			if cols, cerr = mapCifColumns(headers); cerr != nil {
				return cerr
			}
			inHeader, inRows = false, true
			fallthrough
		case inRows:
			if len(line) == 0 || strings.HasPrefix(line, "#") ||
				strings.HasPrefix(line, "_") || line == "loop_" ||
				strings.HasPrefix(line, "data_") {
				inRows = false
				break
			}
			fields := splitCifFields(line)
			if len(fields) <= cols.max() {
				break
			}
			e.parseCifRow(cols, fields, &firstModel)
		case line == "loop_":
			inHeader = true
			headers = headers[:0]
		case inHeader:
			// A loop over some other category; not for us.
			inHeader = false
		}

		if err == io.EOF {
			break
		}
	}

	if len(e.Chains) == 0 && len(headers) == 0 {
		return fmt.Errorf("no _atom_site records found")
	}
	return nil
}

// mapCifColumns resolves the header names of an _atom_site loop into
// column indices. An error is returned when a required column is absent.
func mapCifColumns(headers []string) (cifColumns, error) {
	find := func(names ...string) int {
		for _, name := range names {
			for i, h := range headers {
				if strings.EqualFold(h, name) {
					return i
				}
			}
		}
		return -1
	}

	cols := cifColumns{
		groupPDB: find("group_PDB"),
		asymId:   find("auth_asym_id", "label_asym_id"),
		seqId:    find("auth_seq_id", "label_seq_id"),
		compId:   find("auth_comp_id", "label_comp_id"),
		atomId:   find("auth_atom_id", "label_atom_id"),
		altId:    find("label_alt_id"),
		cartnX:   find("Cartn_x"),
		cartnY:   find("Cartn_y"),
		cartnZ:   find("Cartn_z"),
		modelNum: find("pdbx_PDB_model_num"),
	}
	switch {
	case cols.asymId == -1:
		return cols, fmt.Errorf("_atom_site loop has no chain column")
	case cols.seqId == -1:
		return cols, fmt.Errorf("_atom_site loop has no residue number column")
	case cols.compId == -1:
		return cols, fmt.Errorf("_atom_site loop has no residue name column")
	case cols.atomId == -1:
		return cols, fmt.Errorf("_atom_site loop has no atom name column")
	case cols.cartnX == -1 || cols.cartnY == -1 || cols.cartnZ == -1:
		return cols, fmt.Errorf("_atom_site loop has no coordinate columns")
	}
	return cols, nil
}

// max returns the largest mapped column index, so that short rows can be
// rejected in one comparison.
func (c cifColumns) max() int {
	m := 0
	for _, i := range []int{c.groupPDB, c.asymId, c.seqId, c.compId,
		c.atomId, c.altId, c.cartnX, c.cartnY, c.cartnZ, c.modelNum} {
		if i > m {
			m = i
		}
	}
	return m
}

// parseCifRow processes one data row of the _atom_site loop.
func (e *Entry) parseCifRow(cols cifColumns, fields []string, firstModel *string) {
	if cols.groupPDB >= 0 && fields[cols.groupPDB] != "ATOM" {
		return
	}
	if cols.modelNum >= 0 {
		model := fields[cols.modelNum]
		if *firstModel == "" {
			*firstModel = model
		} else if model != *firstModel {
			return
		}
	}

	asym := fields[cols.asymId]
	if len(asym) == 0 || asym == "." || asym == "?" {
		return
	}
	num, err := strconv.Atoi(fields[cols.seqId])
	if err != nil {
		return
	}

	chain := e.getOrMakeChain(asym[0])
	residue := chain.last()
	if residue == nil || residue.SequenceNum != num {
		residue = &Residue{
			Name:        fields[cols.compId],
			SequenceNum: num,
		}
		chain.Residues = append(chain.Residues, residue)
	}

	if fields[cols.atomId] != "CA" || residue.Ca != nil {
		return
	}
	if cols.altId >= 0 {
		if alt := fields[cols.altId]; alt != "." && alt != "?" && alt != "A" {
			return
		}
	}

	x, errx := strconv.ParseFloat(fields[cols.cartnX], 64)
	y, erry := strconv.ParseFloat(fields[cols.cartnY], 64)
	z, errz := strconv.ParseFloat(fields[cols.cartnZ], 64)
	if errx != nil || erry != nil || errz != nil {
		return
	}
	residue.Ca = &Coords{x, y, z}
}

// splitCifFields splits a data row on whitespace, honoring single and
// double quoted values (atom names like "C1'" are quoted in the wild).
func splitCifFields(line string) []string {
	fields := make([]string, 0, 21)
	i := 0
	for i < len(line) {
		for i < len(line) && (line[i] == ' ' || line[i] == '\t') {
			i++
		}
		if i >= len(line) {
			break
		}
		if q := line[i]; q == '\'' || q == '"' {
			j := i + 1
			for j < len(line) && line[j] != q {
				j++
			}
			fields = append(fields, line[i+1:j])
			if j < len(line) {
				j++
			}
			i = j
			continue
		}
		j := i
		for j < len(line) && line[j] != ' ' && line[j] != '\t' {
			j++
		}
		fields = append(fields, line[i:j])
		i = j
	}
	return fields
}
