package pdb

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// readPdb traverses each line of a PDB formatted file and processes it
// according to the record name in the first six columns. Only ATOM records
// are of interest; HETATM records (waters, ligands, modified residues) are
// skipped, as is everything after the first ENDMDL record.
func (e *Entry) readPdb(reader io.Reader) error {
	// We ignore 'isPrefix' here, since we never care about lines longer
	// than 1000 characters, which is the size of our buffer.
	breader := bufio.NewReaderSize(reader, 1000)
	for {
		line, _, err := breader.ReadLine()
		if err == io.EOF {
			break
		} else if err != nil {
			return err
		}
		if len(line) < 6 {
			continue
		}

		switch strings.TrimSpace(string(line[0:6])) {
		case "ATOM":
			e.parseAtom(line)
		case "ENDMDL":
			// Keep the first model only.
			return nil
		}
	}
	return nil
}

// parseAtom loads all pertinent information from an ATOM record: the
// chain identifier, the residue name and sequence number, and the
// coordinates of the carbon-alpha atom if this record is one.
//
// Column slices follow the PDB fixed-column format: atom name in 13-16,
// alternate location in 17, residue name in 18-20, chain identifier in
// 22, residue sequence number in 23-26 and coordinates in 31-54.
// (One-indexed, as in the format specification.)
func (e *Entry) parseAtom(line []byte) {
	if len(line) < 54 {
		return
	}

	chain := e.getOrMakeChain(line[21])

	snum := strings.TrimSpace(string(line[22:26]))
	num, err := strconv.Atoi(snum)
	if err != nil {
		return
	}

	residue := chain.last()
	if residue == nil || residue.SequenceNum != num {
		residue = &Residue{
			Name:        strings.TrimSpace(string(line[17:20])),
			SequenceNum: num,
		}
		chain.Residues = append(chain.Residues, residue)
	}

	// Only the carbon-alpha coordinate is kept. Alternate locations other
	// than the first are skipped.
	atomName := strings.TrimSpace(string(line[12:16]))
	altLoc := line[16]
	if atomName != "CA" || (altLoc != ' ' && altLoc != 'A') {
		return
	}
	if residue.Ca != nil {
		return
	}

	x, errx := strconv.ParseFloat(strings.TrimSpace(string(line[30:38])), 64)
	y, erry := strconv.ParseFloat(strings.TrimSpace(string(line[38:46])), 64)
	z, errz := strconv.ParseFloat(strings.TrimSpace(string(line[46:54])), 64)
	if errx != nil || erry != nil || errz != nil {
		return
	}
	residue.Ca = &Coords{x, y, z}
}
