package util

import (
	"strconv"
	"strings"

	"github.com/simongaraude/binder-design-pipeline/pdb"
)

// StructureRead parses a structure file (PDB or mmCIF) or quits.
func StructureRead(path string) *pdb.Entry {
	entry, err := pdb.New(path)
	Assert(err, "Could not read structure file '%s'", path)
	return entry
}

// ParseIntList parses a comma-separated list of integers, as given to
// the '--hotspots' flag. Whitespace around each number is ignored.
func ParseIntList(str string) ([]int, error) {
	parts := strings.Split(str, ",")
	nums := make([]int, len(parts))
	for i, part := range parts {
		num, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		nums[i] = num
	}
	return nums, nil
}
