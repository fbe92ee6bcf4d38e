package pdb

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
)

// AminoThreeToOne is a map from three letter amino acids to their
// corresponding single letter representation.
var AminoThreeToOne = map[string]byte{
	"ALA": 'A', "ARG": 'R', "ASN": 'N', "ASP": 'D', "CYS": 'C',
	"GLU": 'E', "GLN": 'Q', "GLY": 'G', "HIS": 'H', "ILE": 'I',
	"LEU": 'L', "LYS": 'K', "MET": 'M', "PHE": 'F', "PRO": 'P',
	"SER": 'S', "THR": 'T', "TRP": 'W', "TYR": 'Y', "VAL": 'V',
	"SEC": 'U', "PYL": 'O',
}

// Entry represents all information read from a macromolecular structure
// file: a file path and an ordered list of protein chains. Only the first
// model of a multi-model file is kept, and only polymer ATOM records are
// read (heteroatom entries like waters and ligands are ignored).
type Entry struct {
	Path   string
	Chains []*Chain
}

// Chain represents a protein chain or subunit. Each chain has its own
// single-character identifier and an ordered list of residues, in file
// order.
type Chain struct {
	Ident    byte
	Residues []*Residue
}

// Residue is one polymer residue from the coordinate records. Ca is the
// coordinate of its carbon-alpha atom, or nil when the residue has none
// (e.g., a partially resolved residue).
type Residue struct {
	Name        string
	SequenceNum int
	Ca          *Coords
}

// Coords is a triple of 3-dimensional coordinates.
type Coords struct {
	X, Y, Z float64
}

// New creates a new Entry from a structure file. Files ending in ".cif"
// are read as mmCIF; anything else is read as PDB. If the file name ends
// with ".gz", gzip decompression is used.
func New(fileName string) (*Entry, error) {
	var reader io.Reader

	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader = f
	base := fileName
	if path.Ext(fileName) == ".gz" {
		if reader, err = gzip.NewReader(reader); err != nil {
			return nil, err
		}
		base = fileName[:len(fileName)-len(".gz")]
	}

	entry := &Entry{Path: fileName}
	if path.Ext(base) == ".cif" {
		err = entry.readCif(reader)
	} else {
		err = entry.readPdb(reader)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %s", fileName, err)
	}
	return entry, nil
}

// Chain returns the chain with the given identifier, or nil if no such
// chain exists.
func (e *Entry) Chain(ident byte) *Chain {
	for _, chain := range e.Chains {
		if chain.Ident == ident {
			return chain
		}
	}
	return nil
}

// getOrMakeChain looks for a chain corresponding to the chain identifier.
// If one exists, it is returned. Otherwise a new chain is appended to the
// entry and returned.
func (e *Entry) getOrMakeChain(ident byte) *Chain {
	if chain := e.Chain(ident); chain != nil {
		return chain
	}
	chain := &Chain{
		Ident:    ident,
		Residues: make([]*Residue, 0, 25),
	}
	e.Chains = append(e.Chains, chain)
	return chain
}

// String returns a list of all chains with their residue counts and
// amino acid sequences.
func (e *Entry) String() string {
	lines := make([]string, 0, len(e.Chains))
	for _, chain := range e.Chains {
		lines = append(lines, chain.String())
	}
	return strings.Join(lines, "\n")
}

// last returns the most recently added residue of the chain, or nil when
// the chain is empty.
func (c *Chain) last() *Residue {
	if len(c.Residues) == 0 {
		return nil
	}
	return c.Residues[len(c.Residues)-1]
}

// Residue returns the residue with the given sequence number, or nil if
// no such residue exists in the chain.
func (c *Chain) Residue(seqNum int) *Residue {
	for _, r := range c.Residues {
		if r.SequenceNum == seqNum {
			return r
		}
	}
	return nil
}

// Sequence returns the one-letter amino acid sequence of the chain in
// residue order. Residues that aren't standard amino acids are written
// as 'X'.
func (c *Chain) Sequence() string {
	seq := make([]byte, len(c.Residues))
	for i, r := range c.Residues {
		if single, ok := AminoThreeToOne[r.Name]; ok {
			seq[i] = single
		} else {
			seq[i] = 'X'
		}
	}
	return string(seq)
}

// String returns a FASTA-like formatted string of this chain.
func (c *Chain) String() string {
	return fmt.Sprintf("> Chain %c :: %d residues\n%s",
		c.Ident, len(c.Residues), c.Sequence())
}
