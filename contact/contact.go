// Package contact finds interface residues between the chains of a
// protein complex. Two residues are in contact when their carbon-alpha
// atoms lie within a cutoff distance of each other; the set of residues
// of a chain in contact with any residue of a different chain is that
// chain's interface.
package contact

import (
	"errors"
	"sort"
	"strconv"
	"strings"

	"github.com/simongaraude/binder-design-pipeline/pdb"
)

// DefaultCutoff is the carbon-alpha distance cutoff, in Angstroms, used
// when no cutoff is given.
const DefaultCutoff = 8.0

// ErrSingleChain is returned by Find when the structure has fewer than
// two chains. Interface detection does not apply to a single chain, which
// is distinct from a multi-chain structure with no contacts (an empty
// interface for every chain).
var ErrSingleChain = errors.New("structure has fewer than two chains")

// Interfaces maps a chain identifier to the set of residue sequence
// numbers of that chain found within cutoff of some residue in a
// different chain.
type Interfaces map[byte]map[int]bool

// Find computes the interface residues of every chain in entry. The
// cutoff is inclusive: a residue pair at exactly the cutoff distance is
// in contact. Residues without a carbon-alpha coordinate never
// participate.
//
// Every chain of the entry has an entry in the result, possibly empty.
// If the entry has fewer than two chains, ErrSingleChain is returned.
func Find(entry *pdb.Entry, cutoff float64) (Interfaces, error) {
	if len(entry.Chains) < 2 {
		return nil, ErrSingleChain
	}

	interfaces := make(Interfaces, len(entry.Chains))
	for _, chain := range entry.Chains {
		interfaces[chain.Ident] = make(map[int]bool)
	}

	// Squared distances avoid a sqrt in the inner loop without changing
	// the inclusive boundary.
	cutoff2 := cutoff * cutoff
	for i, chainA := range entry.Chains {
		for _, chainB := range entry.Chains[i+1:] {
			for _, resA := range chainA.Residues {
				if resA.Ca == nil {
					continue
				}
				for _, resB := range chainB.Residues {
					if resB.Ca == nil {
						continue
					}
					if dist2(*resA.Ca, *resB.Ca) <= cutoff2 {
						interfaces[chainA.Ident][resA.SequenceNum] = true
						interfaces[chainB.Ident][resB.SequenceNum] = true
					}
				}
			}
		}
	}
	return interfaces, nil
}

// Residues returns the interface residue sequence numbers of the given
// chain in ascending order.
func (ifaces Interfaces) Residues(chain byte) []int {
	nums := make([]int, 0, len(ifaces[chain]))
	for num := range ifaces[chain] {
		nums = append(nums, num)
	}
	sort.Ints(nums)
	return nums
}

// HotspotArg returns the interface residues of the given chain as a
// comma-joined string, suitable for direct use as the pipeline's
// '--hotspots' argument.
func (ifaces Interfaces) HotspotArg(chain byte) string {
	nums := ifaces.Residues(chain)
	parts := make([]string, len(nums))
	for i, num := range nums {
		parts[i] = strconv.Itoa(num)
	}
	return strings.Join(parts, ",")
}

func dist2(a, b pdb.Coords) float64 {
	dx, dy, dz := a.X-b.X, a.Y-b.Y, a.Z-b.Z
	return dx*dx + dy*dy + dz*dz
}
